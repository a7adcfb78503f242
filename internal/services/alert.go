package services

import (
	"context"

	"streetaid/internal/models"

	"github.com/uptrace/bun"
)

// AlertService reads community alerts from the shared datastore. Alert
// writes stay with the frontend; nothing here mutates the table.
type AlertService struct {
	db *bun.DB
}

func NewAlertService(db *bun.DB) *AlertService {
	return &AlertService{db: db}
}

// ListAlerts returns alerts newest first, excluding resolved ones unless
// includeResolved is set.
func (s *AlertService) ListAlerts(ctx context.Context, includeResolved bool) ([]models.Alert, error) {
	alerts := make([]models.Alert, 0)

	q := s.db.NewSelect().
		Model(&alerts).
		OrderExpr("created_at DESC")

	if !includeResolved {
		q = q.Where("resolved = false")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return alerts, nil
}

// ListOpenAlerts returns only unresolved alerts; the nearest-shelter
// annotation runs over these.
func (s *AlertService) ListOpenAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.ListAlerts(ctx, false)
}
