package participantrepo

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

var _ ports.DriverDirectory = (*DriverDirectory)(nil)

// DriverDirectory answers driver status straight from the drivers table.
type DriverDirectory struct {
	db *gorm.DB
}

func NewDriverDirectory(db *gorm.DB) *DriverDirectory {
	return &DriverDirectory{db: db}
}

// IsActive reports false for an unknown driver.
func (d *DriverDirectory) IsActive(ctx context.Context, driverID kernel.UUID) (bool, error) {
	var status string
	err := d.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Select("status").
		Where("id = ?", driverID.Bytes()).
		Row().
		Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.Wrapf(err, "read status of driver %s", driverID)
	}
	return status == participant.DriverActive.String(), nil
}
