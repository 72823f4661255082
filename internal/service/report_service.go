package service

import (
	"context"
	"time"

	"go-kasir-api/internal/model"
	"go-kasir-api/internal/policy"
	"go-kasir-api/internal/repository"
	"go-kasir-api/pkg/apperror"
)

const (
	DateLayout        = "2006-01-02"
	DefaultReportDays = 30
	topProductsLimit  = 10
)

// DateRange is a half-open interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDay parses a YYYY-MM-DD value as local midnight. Empty input yields nil.
func ParseDay(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return nil, apperror.Newf(apperror.CodeValidation, "invalid date %q, expected YYYY-MM-DD", value)
	}
	return &day, nil
}

// ResolveRange turns inclusive start/end days into a DateRange. Missing
// bounds default to the DefaultReportDays days ending today.
func ResolveRange(start, end string, now time.Time) (DateRange, error) {
	endDay, err := ParseDay(end)
	if err != nil {
		return DateRange{}, err
	}
	if endDay == nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		endDay = &today
	}
	r := DateRange{End: endDay.AddDate(0, 0, 1)}

	startDay, err := ParseDay(start)
	if err != nil {
		return DateRange{}, err
	}
	if startDay == nil {
		r.Start = r.End.AddDate(0, 0, -DefaultReportDays)
	} else {
		r.Start = *startDay
	}

	if !r.Start.Before(r.End) {
		return DateRange{}, apperror.Validation("startDate must not be after endDate")
	}
	return r, nil
}

type SalesReport struct {
	StartDate     string                     `json:"startDate"`
	EndDate       string                     `json:"endDate"`
	Summary       repository.SalesSummary    `json:"summary"`
	AverageTicket int64                      `json:"averageTicket"`
	TopProducts   []repository.ProductSales  `json:"topProducts"`
	Daily         []repository.DailyRevenue  `json:"daily"`
	Inventory     *repository.InventoryStats `json:"inventory"`
}

type DetailedReport struct {
	StartDate    string                  `json:"startDate"`
	EndDate      string                  `json:"endDate"`
	Summary      repository.SalesSummary `json:"summary"`
	Transactions []model.Transaction     `json:"transactions"`
}

type ReportService interface {
	SalesReport(ctx context.Context, actor policy.Actor, r DateRange) (*SalesReport, error)
	DetailedReport(ctx context.Context, actor policy.Actor, r DateRange) (*DetailedReport, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	txRepo     repository.TransactionRepository
}

func NewReportService(reportRepo repository.ReportRepository, txRepo repository.TransactionRepository) ReportService {
	return &reportService{reportRepo: reportRepo, txRepo: txRepo}
}

func (s *reportService) SalesReport(ctx context.Context, actor policy.Actor, r DateRange) (*SalesReport, error) {
	if err := policy.RequireOwner(actor); err != nil {
		return nil, err
	}

	summary, err := s.reportRepo.GetSalesSummary(ctx, actor.StoreID, r.Start, r.End)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	top, err := s.reportRepo.GetTopProducts(ctx, actor.StoreID, r.Start, r.End, topProductsLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	daily, err := s.reportRepo.GetDailyRevenue(ctx, actor.StoreID, r.Start, r.End)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	inventory, err := s.reportRepo.GetInventoryStats(ctx, actor.StoreID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	report := &SalesReport{
		StartDate:   r.Start.Format(DateLayout),
		EndDate:     r.End.AddDate(0, 0, -1).Format(DateLayout),
		Summary:     *summary,
		TopProducts: top,
		Daily:       daily,
		Inventory:   inventory,
	}
	if report.TopProducts == nil {
		report.TopProducts = []repository.ProductSales{}
	}
	if summary.TransactionCount > 0 {
		report.AverageTicket = summary.Revenue / summary.TransactionCount
	}
	return report, nil
}

func (s *reportService) DetailedReport(ctx context.Context, actor policy.Actor, r DateRange) (*DetailedReport, error) {
	if err := policy.RequireOwner(actor); err != nil {
		return nil, err
	}

	summary, err := s.reportRepo.GetSalesSummary(ctx, actor.StoreID, r.Start, r.End)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	sales, err := s.txRepo.FindAll(ctx, actor.StoreID, repository.SaleFilter{Start: &r.Start, End: &r.End})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for i := range sales {
		fillCashierName(&sales[i])
	}
	return &DetailedReport{
		StartDate:    r.Start.Format(DateLayout),
		EndDate:      r.End.AddDate(0, 0, -1).Format(DateLayout),
		Summary:      *summary,
		Transactions: sales,
	}, nil
}
