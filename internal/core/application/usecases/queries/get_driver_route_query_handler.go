package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDriverRouteQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverRouteQueryHandler(db *gorm.DB) GetDriverRouteQueryHandler {
	return GetDriverRouteQueryHandler{db: db}
}

// Handle returns ObjectNotFoundError for a driver without a route.
func (h GetDriverRouteQueryHandler) Handle(
	ctx context.Context,
	query GetDriverRouteQuery,
) (GetDriverRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDriverRouteQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	var (
		routeID, driverID uuid.UUID
		vendorID          *uuid.UUID
		createdAt         time.Time
	)
	err := db.Raw(`
		SELECT id, driver_id, vendor_id, created_at
		FROM routes
		WHERE driver_id = ?
	`, query.DriverID().Bytes()).Row().Scan(&routeID, &driverID, &vendorID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDriverRouteQueryResponse{}, errs.NewObjectNotFoundError("route of driver", query.DriverID())
	}
	if err != nil {
		return GetDriverRouteQueryResponse{}, err
	}

	resp := GetDriverRouteQueryResponse{CreatedAt: createdAt.UTC()}
	if resp.ID, err = kernel.UUIDFromBytes(routeID[:]); err != nil {
		return GetDriverRouteQueryResponse{}, err
	}
	if resp.DriverID, err = kernel.UUIDFromBytes(driverID[:]); err != nil {
		return GetDriverRouteQueryResponse{}, err
	}
	if resp.VendorID, err = kernel.UUIDPtrFromBytes(vendorID); err != nil {
		return GetDriverRouteQueryResponse{}, err
	}

	rows, err := db.Raw(`
		SELECT `+summaryColumns+`
		FROM route_stops s
		JOIN orders o ON o.id = s.order_id
		WHERE s.route_id = ?
		ORDER BY s.position
	`, routeID).Rows()
	if err != nil {
		return GetDriverRouteQueryResponse{}, err
	}
	defer rows.Close()

	if resp.Stops, err = scanSummaries(rows); err != nil {
		return GetDriverRouteQueryResponse{}, err
	}
	return resp, nil
}
