package addressrepo

import (
	"context"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/address"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entityName = "address"

var _ ports.AddressRepository = (*GormAddressRepository)(nil)

type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

func (r *GormAddressRepository) Add(ctx context.Context, a *address.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	dto := fromDomain(a)
	return pgerr.Write(r.db.WithContext(ctx).Create(&dto).Error, entityName, a.ID().String())
}

// Update writes every editable column. Addresses carry no version: the only
// writer is their owner and frozen addresses are rejected before the write.
func (r *GormAddressRepository) Update(ctx context.Context, a *address.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	dto := fromDomain(a)
	result := r.db.WithContext(ctx).Model(&AddressDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "customer_id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Write(result.Error, entityName, a.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError(entityName, a.ID().String())
	}
	return nil
}

// Delete removes the address. Orders still pointing at it lose the reference
// through ON DELETE SET NULL.
func (r *GormAddressRepository) Delete(ctx context.Context, id kernel.UUID) error {
	result := r.db.WithContext(ctx).Delete(&AddressDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return pgerr.Write(result.Error, entityName, id.String())
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError(entityName, id.String())
	}
	return nil
}

// Get reads the address FOR UPDATE, so the row stays locked until the transaction ends.
func (r *GormAddressRepository) Get(ctx context.Context, id kernel.UUID) (*address.Address, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto AddressDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		return nil, pgerr.Read(err, entityName, id.String())
	}
	return toDomain(dto)
}
