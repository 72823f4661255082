package service

import (
	"context"
	"testing"
	"time"

	"go-kasir-api/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRangeDefaults(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)

	r, err := ResolveRange("", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.Local), r.End)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.Local), r.Start)
}

func TestResolveRangeExplicit(t *testing.T) {
	r, err := ResolveRange("2026-01-01", "2026-01-31", time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local), r.Start)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local), r.End)

	_, err = ResolveRange("2026-02-01", "2026-01-01", time.Now())
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = ResolveRange("01/02/2026", "", time.Now())
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestSalesReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.owner(t, "Budi")
	other := f.owner(t, "Sari")
	f.product(t, owner, "Kopi", 15000, 20)
	andi := f.customer(t, owner, "Andi")
	dewi := f.customer(t, other, "Dewi")

	_, err := f.sales.CreateSale(ctx, owner, saleOf(andi.ID,
		SaleItemRequest{ProductName: "Kopi", UnitPrice: 15000, Quantity: 2},
		SaleItemRequest{ProductName: "Roti", UnitPrice: 10000, Quantity: 1},
	))
	require.NoError(t, err)
	_, err = f.sales.CreateSale(ctx, owner, saleOf(andi.ID,
		SaleItemRequest{ProductName: "Kopi", UnitPrice: 15000, Quantity: 1},
	))
	require.NoError(t, err)
	_, err = f.sales.CreateSale(ctx, other, saleOf(dewi.ID,
		SaleItemRequest{ProductName: "Kopi", UnitPrice: 99000, Quantity: 9},
	))
	require.NoError(t, err)

	r, err := ResolveRange("", "", time.Now())
	require.NoError(t, err)

	report, err := f.reports.SalesReport(ctx, owner, r)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Summary.TransactionCount)
	assert.Equal(t, int64(55000), report.Summary.Revenue)
	assert.Equal(t, int64(4), report.Summary.ItemsSold)
	assert.Equal(t, int64(27500), report.AverageTicket)

	require.Len(t, report.TopProducts, 2)
	assert.Equal(t, "Kopi", report.TopProducts[0].ProductName)
	assert.Equal(t, int64(3), report.TopProducts[0].Quantity)
	assert.Equal(t, int64(45000), report.TopProducts[0].Revenue)

	require.Len(t, report.Daily, 1)
	assert.Equal(t, int64(55000), report.Daily[0].Revenue)

	require.NotNil(t, report.Inventory)
	assert.Equal(t, int64(1), report.Inventory.TotalProducts)
	assert.Equal(t, int64(17*15000), report.Inventory.TotalValuation)

	detailed, err := f.reports.DetailedReport(ctx, owner, r)
	require.NoError(t, err)
	assert.Len(t, detailed.Transactions, 2)
}

func TestReportsRequireOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.owner(t, "Budi")
	cashier := f.cashier(t, owner, "Rina")

	r, err := ResolveRange("", "", time.Now())
	require.NoError(t, err)

	_, err = f.reports.SalesReport(ctx, cashier, r)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
	_, err = f.reports.DetailedReport(ctx, cashier, r)
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
}
