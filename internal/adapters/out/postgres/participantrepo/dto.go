// Package participantrepo persists customer, vendor and driver summaries together
// with the orders each of them holds.
package participantrepo

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/participant"

	"github.com/google/uuid"
)

type CustomerDTO struct {
	ID      uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name    string     `gorm:"type:varchar(255);not null"`
	CartID  *uuid.UUID `gorm:"type:uuid"`
	Version int64      `gorm:"not null"`
}

func (CustomerDTO) TableName() string {
	return "customers"
}

type VendorDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"type:varchar(255);not null"`
	Version int64     `gorm:"not null"`
}

func (VendorDTO) TableName() string {
	return "vendors"
}

type DriverDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"type:varchar(255);not null"`
	Status  string    `gorm:"type:varchar(16);not null;index"`
	Version int64     `gorm:"not null"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

// HoldingDTO places one order in a participant's active set or history. It serves
// all three participant tables, so it carries the role instead of a foreign key.
type HoldingDTO struct {
	ParticipantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Role          string    `gorm:"type:varchar(16);not null"`
	Completed     bool      `gorm:"not null;index"`
	Position      int       `gorm:"not null"`
}

func (HoldingDTO) TableName() string {
	return "participant_orders"
}

func holdingsFromDomain(h participant.OrderHolder) []HoldingDTO {
	id := h.ID().Bytes()
	role := h.Role().String()
	active, history := h.ActiveOrders(), h.OrderHistory()

	rows := make([]HoldingDTO, 0, len(active)+len(history))
	for i, orderID := range active {
		rows = append(rows, HoldingDTO{ParticipantID: id, OrderID: orderID.Bytes(), Role: role, Position: i})
	}
	for i, orderID := range history {
		rows = append(rows, HoldingDTO{ParticipantID: id, OrderID: orderID.Bytes(), Role: role, Completed: true, Position: i})
	}
	return rows
}

func holdingsToDomain(rows []HoldingDTO) (active, history []kernel.UUID, err error) {
	for _, row := range rows {
		orderID, idErr := kernel.UUIDFromBytes(row.OrderID[:])
		if idErr != nil {
			return nil, nil, idErr
		}
		if row.Completed {
			history = append(history, orderID)
		} else {
			active = append(active, orderID)
		}
	}
	return active, history, nil
}
