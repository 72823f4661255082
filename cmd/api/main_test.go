package main

import (
	"context"
	"testing"

	"go-kasir-api/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestConnectRedisRejectsBadURL(t *testing.T) {
	client, err := connectRedis(context.Background(), config.RedisConfig{URL: "not-a-redis-url"})
	assert.Error(t, err)
	assert.Nil(t, client)
}
