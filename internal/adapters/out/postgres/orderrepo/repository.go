package orderrepo

import (
	"context"
	"time"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const aggregateName = "order"

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// GormOrderRepository implements ports.OrderRepository. Every write is guarded by
// the aggregate version: an update only applies to the row version it was loaded at.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order with its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Write(err, aggregateName, aggregate.ID().String())
	}

	aggregate.MarkPersisted()
	return nil
}

// Update writes the order if nobody changed it since it was loaded and replaces
// its line items.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	id := aggregate.ID().String()
	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(&dto)
	if err := pgerr.Versioned(result, aggregateName, id); err != nil {
		return err
	}

	if err := db.Where("order_id = ?", dto.ID).Delete(&LineItemDTO{}).Error; err != nil {
		return pgerr.Write(err, aggregateName, id)
	}
	if len(dto.LineItems) > 0 {
		if err := db.Create(&dto.LineItems).Error; err != nil {
			return pgerr.Write(err, aggregateName, id)
		}
	}

	aggregate.MarkPersisted()
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		return nil, pgerr.Read(err, aggregateName, id.String())
	}

	return toDomain(dto)
}

// ListStale returns up to limit orders in the given disposition created before the
// cutoff, oldest first.
func (r *GormOrderRepository) ListStale(
	ctx context.Context,
	disposition order.Disposition,
	before time.Time,
	limit int,
) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("disposition = ? AND created_at < ?", disposition.String(), before).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Read(err, aggregateName, disposition.String())
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// CountByAddress counts placed orders, of any later disposition, that point at the address.
func (r *GormOrderRepository) CountByAddress(ctx context.Context, addressID kernel.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("address_id = ? AND disposition <> ?", addressID.Bytes(), order.New.String()).
		Count(&n).Error
	if err != nil {
		return 0, pgerr.Read(err, aggregateName, addressID.String())
	}
	return n, nil
}
