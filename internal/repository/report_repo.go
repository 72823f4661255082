package repository

import (
	"context"
	"time"

	"go-kasir-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesSummary aggregates sales headers and items within a period.
type SalesSummary struct {
	TransactionCount int64 `json:"transactionCount"`
	Revenue          int64 `json:"revenue"`
	ItemsSold        int64 `json:"itemsSold"`
}

// ProductSales is one row of the top products ranking.
type ProductSales struct {
	ProductName string `json:"productName"`
	Quantity    int64  `json:"quantity"`
	Revenue     int64  `json:"revenue"`
}

// DailyRevenue is one point of the revenue chart
type DailyRevenue struct {
	Date             string `json:"date"`
	TransactionCount int64  `json:"transactionCount"`
	Revenue          int64  `json:"revenue"`
}

// InventoryStats is a snapshot of the catalog, independent of the period.
type InventoryStats struct {
	TotalProducts  int64 `json:"totalProducts"`
	LowStockCount  int64 `json:"lowStockCount"`
	TotalValuation int64 `json:"totalValuation"`
}

type ReportRepository interface {
	GetSalesSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*SalesSummary, error)
	GetTopProducts(ctx context.Context, storeID uuid.UUID, start, end time.Time, limit int) ([]ProductSales, error)
	GetDailyRevenue(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]DailyRevenue, error)
	GetInventoryStats(ctx context.Context, storeID uuid.UUID) (*InventoryStats, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) GetSalesSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	db := r.db.WithContext(ctx)

	err := db.Model(&model.Transaction{}).
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, start, end).
		Count(&summary.TransactionCount).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(total), 0)").
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, start, end).
		Scan(&summary.Revenue).Error
	if err != nil {
		return nil, err
	}

	err = db.Table("transaction_items AS ti").
		Joins("JOIN transactions AS t ON t.id = ti.transaction_id").
		Select("COALESCE(SUM(ti.quantity), 0)").
		Where("t.store_id = ? AND t.created_at >= ? AND t.created_at < ?", storeID, start, end).
		Scan(&summary.ItemsSold).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

func (r *reportRepo) GetTopProducts(ctx context.Context, storeID uuid.UUID, start, end time.Time, limit int) ([]ProductSales, error) {
	var results []ProductSales
	err := r.db.WithContext(ctx).
		Table("transaction_items AS ti").
		Joins("JOIN transactions AS t ON t.id = ti.transaction_id").
		Select("ti.product_name AS product_name, SUM(ti.quantity) AS quantity, SUM(ti.quantity * ti.unit_price) AS revenue").
		Where("t.store_id = ? AND t.created_at >= ? AND t.created_at < ?", storeID, start, end).
		Group("ti.product_name").
		Order("quantity DESC, product_name ASC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

// GetDailyRevenue buckets sales per calendar day in start's location. The
// bucketing runs in Go because date functions differ between dialects.
func (r *reportRepo) GetDailyRevenue(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]DailyRevenue, error) {
	rows, err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("created_at, total").
		Where("store_id = ? AND created_at >= ? AND created_at < ?", storeID, start, end).
		Order("created_at ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loc := start.Location()
	results := []DailyRevenue{}
	index := map[string]int{}
	for rows.Next() {
		var createdAt time.Time
		var total int64
		if err := rows.Scan(&createdAt, &total); err != nil {
			return nil, err
		}
		day := createdAt.In(loc).Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			i = len(results)
			index[day] = i
			results = append(results, DailyRevenue{Date: day})
		}
		results[i].TransactionCount++
		results[i].Revenue += total
	}
	return results, rows.Err()
}

func (r *reportRepo) GetInventoryStats(ctx context.Context, storeID uuid.UUID) (*InventoryStats, error) {
	var stats InventoryStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Where("store_id = ?", storeID).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("store_id = ? AND stock <= min_stock", storeID).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	err := db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock * price), 0)").
		Where("store_id = ?", storeID).
		Scan(&stats.TotalValuation).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
