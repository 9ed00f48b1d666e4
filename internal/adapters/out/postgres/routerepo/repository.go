package routerepo

import (
	"context"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

const aggregateName = "route"

var _ ports.RouteRepository = (*GormRouteRepository)(nil)

type GormRouteRepository struct {
	db *gorm.DB
}

func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

func (r *GormRouteRepository) Add(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version++
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Write(err, aggregateName, aggregate.ID().String())
	}

	aggregate.MarkPersisted()
	return nil
}

// Update bumps the route version and rewrites its stops. A stop already held by
// another route fails on the route_stops key and surfaces as a concurrent conflict.
func (r *GormRouteRepository) Update(ctx context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	id := aggregate.ID().String()
	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&RouteDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Update("version", dto.Version+1)
	if err := pgerr.Versioned(result, aggregateName, id); err != nil {
		return err
	}

	if err := db.Where("route_id = ?", dto.ID).Delete(&RouteStopDTO{}).Error; err != nil {
		return pgerr.Write(err, aggregateName, id)
	}
	if len(dto.Stops) > 0 {
		if err := db.Create(&dto.Stops).Error; err != nil {
			return pgerr.Write(err, aggregateName, id)
		}
	}

	aggregate.MarkPersisted()
	return nil
}

func (r *GormRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, id.String(), "id = ?", id.Bytes())
}

// GetByDriver loads the route a driver works on.
func (r *GormRouteRepository) GetByDriver(ctx context.Context, driverID kernel.UUID) (*route.Route, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "of driver "+driverID.String(), "driver_id = ?", driverID.Bytes())
}

func (r *GormRouteRepository) first(ctx context.Context, key string, query string, args ...any) (*route.Route, error) {
	var dto RouteDTO
	err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, append([]any{query}, args...)...).Error
	if err != nil {
		return nil, pgerr.Read(err, aggregateName, key)
	}
	return toDomain(dto)
}
