package http

import (
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/address"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// Request bodies. The OpenAPI middleware has already checked shapes and formats;
// the validate tags guard handlers that are mounted without it.

type NewParticipant struct {
	Name string `json:"name" validate:"required,max=255"`
}

// NewDriver registers a driver. VendorID puts the driver in that vendor's own fleet.
type NewDriver struct {
	Name     string     `json:"name" validate:"required,max=255"`
	VendorID *uuid.UUID `json:"vendorId,omitempty"`
}

type DriverStatus struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

type NewAddress struct {
	Street    string   `json:"street" validate:"required"`
	Unit      string   `json:"unit"`
	City      string   `json:"city" validate:"required"`
	State     string   `json:"state"`
	Zip       string   `json:"zip" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
}

type AddressChanges struct {
	Street    *string  `json:"street"`
	Unit      *string  `json:"unit"`
	City      *string  `json:"city"`
	State     *string  `json:"state"`
	Zip       *string  `json:"zip"`
	Latitude  *float64 `json:"latitude" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
}

type Option struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required,numeric"`
}

type Modification struct {
	Name    string   `json:"name" validate:"required"`
	Options []Option `json:"options" validate:"required,min=1,dive"`
}

type LineItem struct {
	MenuItemID    uuid.UUID      `json:"menuItemId" validate:"required"`
	BasePrice     string         `json:"basePrice" validate:"required,numeric"`
	Modifications []Modification `json:"modifications" validate:"dive"`
}

type NewCart struct {
	VendorID uuid.UUID `json:"vendorId" validate:"required"`
	Method   string    `json:"method" validate:"required,oneof=DELIVERY PICKUP"`
	Item     LineItem  `json:"item"`
}

type AddressSelection struct {
	AddressID uuid.UUID `json:"addressId" validate:"required"`
}

type ChargeRequest struct {
	PaymentToken string `json:"paymentToken" validate:"required"`
	Tip          string `json:"tip" validate:"omitempty,numeric"`
}

type VendorAccept struct {
	VendorID    uuid.UUID  `json:"vendorId" validate:"required"`
	PrepMinutes int        `json:"prepMinutes" validate:"min=0,max=240"`
	DriverID    *uuid.UUID `json:"driverId"`
}

type VendorAction struct {
	VendorID uuid.UUID `json:"vendorId" validate:"required"`
}

type DriverAction struct {
	DriverID uuid.UUID `json:"driverId" validate:"required"`
}

type Deliver struct {
	ActorID uuid.UUID `json:"actorId" validate:"required"`
}

type Cancel struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type SettingChange struct {
	Value      string    `json:"value"`
	NewName    string    `json:"newName" validate:"max=128"`
	ModifiedBy uuid.UUID `json:"modifiedBy" validate:"required"`
}

// Responses.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Guard   string `json:"guard,omitempty"`
}

type Created struct {
	ID uuid.UUID `json:"id"`
}

type OrderSummary struct {
	ID                  uuid.UUID  `json:"id"`
	CustomerID          uuid.UUID  `json:"customerId"`
	VendorID            uuid.UUID  `json:"vendorId"`
	DriverID            *uuid.UUID `json:"driverId,omitempty"`
	Method              string     `json:"method"`
	Disposition         string     `json:"disposition"`
	Total               string     `json:"total"`
	CreatedAt           time.Time  `json:"createdAt"`
	EstimatedReadyAt    *time.Time `json:"estimatedReadyAt,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimatedDeliveryAt,omitempty"`
}

type OrderLineItem struct {
	ID uuid.UUID `json:"id"`
	LineItem
	Price string `json:"price"`
}

type Order struct {
	OrderSummary
	AddressID        *uuid.UUID      `json:"addressId,omitempty"`
	Subtotal         string          `json:"subtotal"`
	Tip              string          `json:"tip"`
	AmountPaid       string          `json:"amountPaid"`
	ChargeID         string          `json:"chargeId,omitempty"`
	ActualReadyAt    *time.Time      `json:"actualReadyAt,omitempty"`
	ActualDeliveryAt *time.Time      `json:"actualDeliveryAt,omitempty"`
	Rejections       int             `json:"rejections"`
	LineItems        []OrderLineItem `json:"lineItems"`
}

type Route struct {
	ID        uuid.UUID      `json:"id"`
	DriverID  uuid.UUID      `json:"driverId"`
	VendorID  *uuid.UUID     `json:"vendorId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	Stops     []OrderSummary `json:"stops"`
}

// Mapping into the core.

func (r NewAddress) fields() (address.Fields, error) {
	f := address.Fields{Street: r.Street, Unit: r.Unit, City: r.City, State: r.State, Zip: r.Zip}
	loc, err := geoPoint(r.Latitude, r.Longitude)
	f.Location = loc
	return f, err
}

func (r AddressChanges) changes() (address.Changes, error) {
	c := address.Changes{Street: r.Street, Unit: r.Unit, City: r.City, State: r.State, Zip: r.Zip}
	loc, err := geoPoint(r.Latitude, r.Longitude)
	c.Location = loc
	return c, err
}

func geoPoint(lat, lng *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lng == nil {
		return nil, nil
	}
	p, err := kernel.NewGeoPoint(*lat, *lng)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r LineItem) input() (commands.LineItemInput, error) {
	menuItemID, err := kernel.UUIDFromBytes(r.MenuItemID[:])
	if err != nil {
		return commands.LineItemInput{}, err
	}
	base, err := kernel.MoneyFromString(r.BasePrice)
	if err != nil {
		return commands.LineItemInput{}, err
	}

	mods := make([]order.Modification, 0, len(r.Modifications))
	for _, m := range r.Modifications {
		options := make([]order.Option, 0, len(m.Options))
		for _, o := range m.Options {
			price, err := kernel.MoneyFromString(o.Price)
			if err != nil {
				return commands.LineItemInput{}, err
			}
			options = append(options, order.Option{Name: o.Name, Price: price})
		}
		mod, err := order.NewModification(m.Name, options...)
		if err != nil {
			return commands.LineItemInput{}, err
		}
		mods = append(mods, mod)
	}

	return commands.LineItemInput{
		ID:            kernel.NewUUID(),
		MenuItemID:    menuItemID,
		BasePrice:     base,
		Modifications: mods,
	}, nil
}

// Mapping out of the core.

func idPtr(id *kernel.UUID) *uuid.UUID {
	return kernel.BytesPtr(id)
}

func toOrderSummary(s queries.OrderSummary) OrderSummary {
	return OrderSummary{
		ID:                  s.ID.Bytes(),
		CustomerID:          s.CustomerID.Bytes(),
		VendorID:            s.VendorID.Bytes(),
		DriverID:            idPtr(s.DriverID),
		Method:              s.Method.String(),
		Disposition:         s.Disposition.String(),
		Total:               s.Total.String(),
		CreatedAt:           s.CreatedAt,
		EstimatedReadyAt:    s.EstimatedReadyAt,
		EstimatedDeliveryAt: s.EstimatedDeliveryAt,
	}
}

func toOrderSummaries(in []queries.OrderSummary) []OrderSummary {
	out := make([]OrderSummary, 0, len(in))
	for _, s := range in {
		out = append(out, toOrderSummary(s))
	}
	return out
}

func toOrder(o queries.GetOrderQueryResponse) Order {
	items := make([]OrderLineItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		mods := make([]Modification, 0, len(li.Modifications))
		for _, m := range li.Modifications {
			options := make([]Option, 0, len(m.Options))
			for _, opt := range m.Options {
				options = append(options, Option{Name: opt.Name, Price: opt.Price.String()})
			}
			mods = append(mods, Modification{Name: m.Name, Options: options})
		}
		items = append(items, OrderLineItem{
			ID: li.ID.Bytes(),
			LineItem: LineItem{
				MenuItemID:    li.MenuItemID.Bytes(),
				BasePrice:     li.BasePrice.String(),
				Modifications: mods,
			},
			Price: li.Price.String(),
		})
	}

	return Order{
		OrderSummary:     toOrderSummary(o.OrderSummary),
		AddressID:        idPtr(o.AddressID),
		Subtotal:         o.Subtotal.String(),
		Tip:              o.Tip.String(),
		AmountPaid:       o.AmountPaid.String(),
		ChargeID:         o.ChargeID,
		ActualReadyAt:    o.ActualReadyAt,
		ActualDeliveryAt: o.ActualDeliveryAt,
		Rejections:       o.Rejections,
		LineItems:        items,
	}
}

func toRoute(r queries.GetDriverRouteQueryResponse) Route {
	return Route{
		ID:        r.ID.Bytes(),
		DriverID:  r.DriverID.Bytes(),
		VendorID:  idPtr(r.VendorID),
		CreatedAt: r.CreatedAt,
		Stops:     toOrderSummaries(r.Stops),
	}
}
