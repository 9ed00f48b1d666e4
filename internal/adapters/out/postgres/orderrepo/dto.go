// Package orderrepo persists the order aggregate: one orders row plus its line_items.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Dispositions and methods are stored by name so
// reporting SQL stays readable.
type OrderDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	VendorID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	DriverID            *uuid.UUID      `gorm:"type:uuid;index"`
	AddressID           *uuid.UUID      `gorm:"type:uuid;index"`
	Method              string          `gorm:"type:varchar(16);not null"`
	Disposition         string          `gorm:"type:varchar(32);not null;index:idx_orders_disposition_created,priority:1"`
	Subtotal            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Tip                 decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total               decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AmountPaid          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ChargeID            string          `gorm:"type:varchar(255)"`
	CreatedAt           time.Time       `gorm:"not null;index:idx_orders_disposition_created,priority:2"`
	EstimatedReadyAt    *time.Time
	ActualReadyAt       *time.Time
	EstimatedDeliveryAt *time.Time
	ActualDeliveryAt    *time.Time
	Rejections          int           `gorm:"not null;default:0"`
	Version             int64         `gorm:"not null"`
	LineItems           []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO keeps the priced snapshot of one selection. The chosen options
// travel as JSON because they are only ever read back with their line item.
type LineItemDTO struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	Position      int               `gorm:"not null"`
	MenuItemID    uuid.UUID         `gorm:"type:uuid;not null"`
	BasePrice     decimal.Decimal   `gorm:"type:numeric(12,2);not null"`
	Price         decimal.Decimal   `gorm:"type:numeric(12,2);not null"`
	Modifications []ModificationDTO `gorm:"type:jsonb;serializer:json"`
}

func (LineItemDTO) TableName() string {
	return "line_items"
}

type ModificationDTO struct {
	Name    string      `json:"name"`
	Options []OptionDTO `json:"options"`
}

type OptionDTO struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	id := s.ID.Bytes()

	items := make([]LineItemDTO, 0, len(s.LineItems))
	for i, li := range s.LineItems {
		items = append(items, LineItemDTO{
			ID:            li.ID().Bytes(),
			OrderID:       id,
			Position:      i,
			MenuItemID:    li.MenuItemID().Bytes(),
			BasePrice:     li.BasePrice().Decimal(),
			Price:         li.Price().Decimal(),
			Modifications: modificationsFromDomain(li.Modifications()),
		})
	}

	return OrderDTO{
		ID:                  id,
		CustomerID:          s.CustomerID.Bytes(),
		VendorID:            s.VendorID.Bytes(),
		DriverID:            kernel.BytesPtr(s.DriverID),
		AddressID:           kernel.BytesPtr(s.AddressID),
		Method:              s.Method.String(),
		Disposition:         s.Disposition.String(),
		Subtotal:            s.Subtotal.Decimal(),
		Tip:                 s.Tip.Decimal(),
		Total:               s.Total.Decimal(),
		AmountPaid:          s.AmountPaid.Decimal(),
		ChargeID:            s.ChargeID,
		CreatedAt:           s.CreatedAt,
		EstimatedReadyAt:    s.EstimatedReadyAt,
		ActualReadyAt:       s.ActualReadyAt,
		EstimatedDeliveryAt: s.EstimatedDeliveryAt,
		ActualDeliveryAt:    s.ActualDeliveryAt,
		Rejections:          s.Rejections,
		Version:             s.Version,
		LineItems:           items,
	}
}

func modificationsFromDomain(mods []order.Modification) []ModificationDTO {
	out := make([]ModificationDTO, 0, len(mods))
	for _, m := range mods {
		opts := make([]OptionDTO, 0, len(m.Options))
		for _, o := range m.Options {
			opts = append(opts, OptionDTO{Name: o.Name, Price: o.Price.Decimal()})
		}
		out = append(out, ModificationDTO{Name: m.Name, Options: opts})
	}
	return out
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDPtrFromBytes(dto.DriverID)
	if err != nil {
		return nil, err
	}
	addressID, err := kernel.UUIDPtrFromBytes(dto.AddressID)
	if err != nil {
		return nil, err
	}
	method, err := order.ParseMethod(dto.Method)
	if err != nil {
		return nil, err
	}
	disposition, err := order.ParseDisposition(dto.Disposition)
	if err != nil {
		return nil, err
	}

	money := func(field string, d decimal.Decimal) (kernel.Money, error) {
		m, mErr := kernel.NewMoney(d)
		return m, errors.Wrapf(mErr, "order %s %s", id, field)
	}
	subtotal, err := money("subtotal", dto.Subtotal)
	if err != nil {
		return nil, err
	}
	tip, err := money("tip", dto.Tip)
	if err != nil {
		return nil, err
	}
	total, err := money("total", dto.Total)
	if err != nil {
		return nil, err
	}
	paid, err := money("amount paid", dto.AmountPaid)
	if err != nil {
		return nil, err
	}

	items := make([]*order.LineItem, 0, len(dto.LineItems))
	for _, li := range dto.LineItems {
		item, itemErr := lineItemToDomain(li)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                  id,
		CustomerID:          customerID,
		VendorID:            vendorID,
		DriverID:            driverID,
		AddressID:           addressID,
		Method:              method,
		Disposition:         disposition,
		LineItems:           items,
		Subtotal:            subtotal,
		Tip:                 tip,
		Total:               total,
		AmountPaid:          paid,
		ChargeID:            dto.ChargeID,
		CreatedAt:           dto.CreatedAt,
		EstimatedReadyAt:    utc(dto.EstimatedReadyAt),
		ActualReadyAt:       utc(dto.ActualReadyAt),
		EstimatedDeliveryAt: utc(dto.EstimatedDeliveryAt),
		ActualDeliveryAt:    utc(dto.ActualDeliveryAt),
		Rejections:          dto.Rejections,
		Version:             dto.Version,
	})
}

func lineItemToDomain(dto LineItemDTO) (*order.LineItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
	if err != nil {
		return nil, err
	}
	base, err := kernel.NewMoney(dto.BasePrice)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}

	mods := make([]order.Modification, 0, len(dto.Modifications))
	for _, m := range dto.Modifications {
		opts := make([]order.Option, 0, len(m.Options))
		for _, o := range m.Options {
			p, pErr := kernel.NewMoney(o.Price)
			if pErr != nil {
				return nil, pErr
			}
			opts = append(opts, order.Option{Name: o.Name, Price: p})
		}
		mod, mErr := order.NewModification(m.Name, opts...)
		if mErr != nil {
			return nil, mErr
		}
		mods = append(mods, mod)
	}

	return order.RestoreLineItem(id, menuItemID, base, mods, price)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
