package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order and its line items with two plain SELECTs.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns ObjectNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	var (
		row                        summaryRow
		addressID                  *uuid.UUID
		subtotal, tip, paid        decimal.Decimal
		chargeID                   string
		actualReadyAt, deliveredAt *time.Time
		rejections                 int
	)
	err := row.scan(db.Raw(`
		SELECT `+summaryColumns+`,
			o.address_id,
			o.subtotal,
			o.tip,
			o.amount_paid,
			o.charge_id,
			o.actual_ready_at,
			o.actual_delivery_at,
			o.rejections
		FROM orders o
		WHERE o.id = ?
	`, query.OrderID().Bytes()).Row(),
		&addressID, &subtotal, &tip, &paid, &chargeID, &actualReadyAt, &deliveredAt, &rejections)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{ChargeID: chargeID, Rejections: rejections}
	if resp.OrderSummary, err = row.toSummary(); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.AddressID, err = kernel.UUIDPtrFromBytes(addressID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.Subtotal, err = kernel.NewMoney(subtotal); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.Tip, err = kernel.NewMoney(tip); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.AmountPaid, err = kernel.NewMoney(paid); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.ActualReadyAt = utc(actualReadyAt)
	resp.ActualDeliveryAt = utc(deliveredAt)

	if resp.LineItems, err = h.lineItems(db, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	return resp, nil
}

func (h GetOrderQueryHandler) lineItems(db *gorm.DB, orderID kernel.UUID) ([]LineItemView, error) {
	rows, err := db.Raw(`
		SELECT
			id,
			menu_item_id,
			base_price,
			price,
			modifications
		FROM line_items
		WHERE order_id = ?
		ORDER BY position
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]LineItemView, 0)
	for rows.Next() {
		var (
			id, menuItemID   uuid.UUID
			basePrice, price decimal.Decimal
			raw              []byte
		)
		if err = rows.Scan(&id, &menuItemID, &basePrice, &price, &raw); err != nil {
			return nil, err
		}

		var item LineItemView
		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.MenuItemID, err = kernel.UUIDFromBytes(menuItemID[:]); err != nil {
			return nil, err
		}
		if item.BasePrice, err = kernel.NewMoney(basePrice); err != nil {
			return nil, err
		}
		if item.Price, err = kernel.NewMoney(price); err != nil {
			return nil, err
		}
		if item.Modifications, err = decodeModifications(raw); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// decodeModifications reads the jsonb column written by the order repository.
func decodeModifications(raw []byte) ([]order.Modification, error) {
	var stored []struct {
		Name    string `json:"name"`
		Options []struct {
			Name  string          `json:"name"`
			Price decimal.Decimal `json:"price"`
		} `json:"options"`
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("modifications", err)
		}
	}

	mods := make([]order.Modification, 0, len(stored))
	for _, m := range stored {
		mod := order.Modification{Name: m.Name, Options: make([]order.Option, 0, len(m.Options))}
		for _, o := range m.Options {
			price, err := kernel.NewMoney(o.Price)
			if err != nil {
				return nil, err
			}
			mod.Options = append(mod.Options, order.Option{Name: o.Name, Price: price})
		}
		mods = append(mods, mod)
	}
	return mods, nil
}
