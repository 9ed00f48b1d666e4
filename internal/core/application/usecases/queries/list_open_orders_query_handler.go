package queries

import (
	"context"

	"dispatch/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type ListOpenOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOpenOrdersQueryHandler(db *gorm.DB) ListOpenOrdersQueryHandler {
	return ListOpenOrdersQueryHandler{db: db}
}

// Handle returns the most urgent orders first.
func (h ListOpenOrdersQueryHandler) Handle(ctx context.Context, query ListOpenOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	q := h.db.WithContext(ctx).
		Table("orders o").
		Select(summaryColumns).
		Where("o.method = ? AND o.disposition = ? AND o.driver_id IS NULL",
			order.Delivery.String(), order.AcceptedByVendor.String())
	if !query.ReadyBy().IsZero() {
		q = q.Where("o.estimated_ready_at <= ?", query.ReadyBy())
	}

	rows, err := q.Order("o.estimated_ready_at NULLS LAST, o.created_at").
		Limit(query.Limit()).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}
