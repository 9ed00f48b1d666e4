// Package settingrepo persists named operational settings.
package settingrepo

import (
	"context"
	"time"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/setting"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const entityName = "setting"

var _ ports.SettingRepository = (*GormSettingRepository)(nil)

type SettingDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name       string     `gorm:"type:varchar(128);not null;uniqueIndex"`
	Value      string     `gorm:"type:text;not null"`
	PrevName   string     `gorm:"type:varchar(128)"`
	PrevValue  string     `gorm:"type:text"`
	ModifiedBy *uuid.UUID `gorm:"type:uuid"`
	ModifiedAt time.Time  `gorm:"not null"`
}

func (SettingDTO) TableName() string {
	return "settings"
}

type GormSettingRepository struct {
	db *gorm.DB
}

func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Add inserts a setting. Two writers creating the same name race on the unique
// index and the loser gets a concurrent conflict.
func (r *GormSettingRepository) Add(ctx context.Context, s *setting.Setting) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dto := fromDomain(s)
	return pgerr.Write(r.db.WithContext(ctx).Create(&dto).Error, entityName, s.Name())
}

func (r *GormSettingRepository) Update(ctx context.Context, s *setting.Setting) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dto := fromDomain(s)
	result := r.db.WithContext(ctx).Model(&SettingDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return pgerr.Write(result.Error, entityName, s.Name())
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError(entityName, s.Name())
	}
	return nil
}

func (r *GormSettingRepository) GetByName(ctx context.Context, name string) (*setting.Setting, error) {
	var dto SettingDTO
	if err := r.db.WithContext(ctx).First(&dto, "name = ?", name).Error; err != nil {
		return nil, pgerr.Read(err, entityName, name)
	}
	return toDomain(dto)
}

func fromDomain(s *setting.Setting) SettingDTO {
	return SettingDTO{
		ID:         s.ID().Bytes(),
		Name:       s.Name(),
		Value:      s.Value(),
		PrevName:   s.PrevName(),
		PrevValue:  s.PrevValue(),
		ModifiedBy: kernel.BytesPtr(s.ModifiedBy()),
		ModifiedAt: s.ModifiedAt(),
	}
}

func toDomain(dto SettingDTO) (*setting.Setting, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	by, err := kernel.UUIDPtrFromBytes(dto.ModifiedBy)
	if err != nil {
		return nil, err
	}
	return setting.RestoreSetting(id, dto.Name, dto.Value, dto.PrevName, dto.PrevValue, by, dto.ModifiedAt.UTC())
}
