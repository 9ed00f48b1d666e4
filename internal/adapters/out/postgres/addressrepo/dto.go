// Package addressrepo persists customer delivery addresses.
package addressrepo

import (
	"time"

	"dispatch/internal/core/domain/model/address"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type AddressDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Street     string    `gorm:"type:varchar(255);not null"`
	Unit       string    `gorm:"type:varchar(64)"`
	City       string    `gorm:"type:varchar(128);not null"`
	State      string    `gorm:"type:varchar(64)"`
	Zip        string    `gorm:"type:varchar(16);not null"`
	Latitude   *float64
	Longitude  *float64
	CreatedAt  time.Time `gorm:"not null"`
	ModifiedAt time.Time `gorm:"not null"`
}

func (AddressDTO) TableName() string {
	return "addresses"
}

func fromDomain(a *address.Address) AddressDTO {
	f := a.Fields()
	dto := AddressDTO{
		ID:         a.ID().Bytes(),
		CustomerID: a.CustomerID().Bytes(),
		Street:     f.Street,
		Unit:       f.Unit,
		City:       f.City,
		State:      f.State,
		Zip:        f.Zip,
		CreatedAt:  a.CreatedAt(),
		ModifiedAt: a.ModifiedAt(),
	}
	if f.Location != nil {
		lat, lon := f.Location.Latitude(), f.Location.Longitude()
		dto.Latitude, dto.Longitude = &lat, &lon
	}
	return dto
}

func toDomain(dto AddressDTO) (*address.Address, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	f := address.Fields{
		Street: dto.Street,
		Unit:   dto.Unit,
		City:   dto.City,
		State:  dto.State,
		Zip:    dto.Zip,
	}
	if dto.Latitude != nil && dto.Longitude != nil {
		p, pErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pErr != nil {
			return nil, pErr
		}
		f.Location = &p
	}

	return address.RestoreAddress(id, customerID, f, dto.CreatedAt.UTC(), dto.ModifiedAt.UTC())
}
