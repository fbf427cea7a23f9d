// internal/services/report_service.go
package services

import (
	"bytes"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/models"
)

const defaultTopProducts = 5

type ReportService struct {
	db *gorm.DB
}

// ReportEntry is one bar of a rendered chart.
type ReportEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type ReportFilters struct {
	Start *time.Time
	End   *time.Time
	Limit int
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// MostBoughtProducts ranks products by total purchased quantity within the
// optional date range.
func (s *ReportService) MostBoughtProducts(filters ReportFilters) ([]ReportEntry, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultTopProducts
	}

	query := s.db.Model(&models.OrderItem{}).
		Select("products.name AS label, SUM(order_items.quantity) AS value").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("products.name").
		Order("value DESC").
		Limit(limit)

	if filters.Start != nil {
		query = query.Where("orders.created_at >= ?", filters.Start)
	}
	if filters.End != nil {
		query = query.Where("orders.created_at <= ?", filters.End)
	}

	var entries []ReportEntry
	if err := query.Scan(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	if len(entries) == 0 {
		return nil, apperrors.New(apperrors.KindNotFound, "no purchases found for the requested period")
	}

	return entries, nil
}

// PurchasesByMonth totals order amounts per calendar month within the
// optional date range. Bucketing happens in Go so the query stays portable.
func (s *ReportService) PurchasesByMonth(filters ReportFilters) ([]ReportEntry, error) {
	query := s.db.Model(&models.Order{}).Order("created_at asc")
	if filters.Start != nil {
		query = query.Where("created_at >= ?", filters.Start)
	}
	if filters.End != nil {
		query = query.Where("created_at <= ?", filters.End)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "database error", err)
	}
	if len(orders) == 0 {
		return nil, apperrors.New(apperrors.KindNotFound, "no purchases found for the requested period")
	}

	totals := make(map[string]float64)
	var months []string
	for _, order := range orders {
		month := order.CreatedAt.Format("2006-01")
		if _, seen := totals[month]; !seen {
			months = append(months, month)
		}
		value, _ := order.Total.Float64()
		totals[month] += value
	}

	entries := make([]ReportEntry, len(months))
	for i, month := range months {
		entries[i] = ReportEntry{Label: month, Value: totals[month]}
	}

	return entries, nil
}

// RenderBarChart draws the entries as a PNG bar chart.
func (s *ReportService) RenderBarChart(title string, entries []ReportEntry) ([]byte, error) {
	bars := make([]chart.Value, len(entries))
	for i, entry := range entries {
		bars[i] = chart.Value{Label: entry.Label, Value: entry.Value}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    800,
		Height:   450,
		BarWidth: 60,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Bars: bars,
	}

	var buffer bytes.Buffer
	if err := graph.Render(chart.PNG, &buffer); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to render chart", err)
	}

	return buffer.Bytes(), nil
}
