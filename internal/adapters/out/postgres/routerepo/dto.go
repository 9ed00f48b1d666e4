// Package routerepo persists delivery routes. Each stop is its own row keyed by the
// order, so the database itself refuses to put one order on two routes.
package routerepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/route"

	"github.com/google/uuid"
)

type RouteDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	DriverID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	VendorID  *uuid.UUID     `gorm:"type:uuid"`
	CreatedAt time.Time      `gorm:"not null"`
	Version   int64          `gorm:"not null"`
	Stops     []RouteStopDTO `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

func (RouteDTO) TableName() string {
	return "routes"
}

// RouteStopDTO is one order on a route. OrderID is the primary key.
type RouteStopDTO struct {
	OrderID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	RouteID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Position int       `gorm:"not null"`
}

func (RouteStopDTO) TableName() string {
	return "route_stops"
}

func fromDomain(r *route.Route) RouteDTO {
	id := r.ID().Bytes()
	stops := make([]RouteStopDTO, 0, r.Len())
	for i, orderID := range r.Stops() {
		stops = append(stops, RouteStopDTO{OrderID: orderID.Bytes(), RouteID: id, Position: i})
	}
	return RouteDTO{
		ID:        id,
		DriverID:  r.DriverID().Bytes(),
		VendorID:  kernel.BytesPtr(r.VendorID()),
		CreatedAt: r.CreatedAt(),
		Version:   r.Version(),
		Stops:     stops,
	}
}

func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDPtrFromBytes(dto.VendorID)
	if err != nil {
		return nil, err
	}

	stops := make([]kernel.UUID, 0, len(dto.Stops))
	for _, s := range dto.Stops {
		orderID, sErr := kernel.UUIDFromBytes(s.OrderID[:])
		if sErr != nil {
			return nil, sErr
		}
		stops = append(stops, orderID)
	}

	return route.RestoreRoute(id, driverID, vendorID, stops, dto.CreatedAt.UTC(), dto.Version)
}
