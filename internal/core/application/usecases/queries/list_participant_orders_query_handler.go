package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListParticipantOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListParticipantOrdersQueryHandler(db *gorm.DB) ListParticipantOrdersQueryHandler {
	return ListParticipantOrdersQueryHandler{db: db}
}

// Handle returns the orders in the order the participant received them. An unknown
// participant simply has no orders.
func (h ListParticipantOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListParticipantOrdersQuery,
) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+summaryColumns+`
		FROM participant_orders p
		JOIN orders o ON o.id = p.order_id
		WHERE p.participant_id = ? AND p.completed = ?
		ORDER BY p.position
	`, query.ParticipantID().Bytes(), query.Completed()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSummaries(rows)
}
