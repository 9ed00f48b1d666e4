package postgres

import (
	"context"

	"dispatch/internal/adapters/out/postgres/addressrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/participantrepo"
	"dispatch/internal/adapters/out/postgres/routerepo"
	"dispatch/internal/adapters/out/postgres/settingrepo"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Models lists every table the service owns, parents first.
func Models() []any {
	return []any{
		&addressrepo.AddressDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&routerepo.RouteDTO{},
		&routerepo.RouteStopDTO{},
		&participantrepo.CustomerDTO{},
		&participantrepo.VendorDTO{},
		&participantrepo.DriverDTO{},
		&participantrepo.HoldingDTO{},
		&settingrepo.SettingDTO{},
	}
}

// A deleted address must not take its orders with it.
const addressForeignKey = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_orders_address') THEN
		ALTER TABLE orders ADD CONSTRAINT fk_orders_address
			FOREIGN KEY (address_id) REFERENCES addresses (id) ON DELETE SET NULL;
	END IF;
END $$;`

// Migrate creates or upgrades the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(Models()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	if err := db.Exec(addressForeignKey).Error; err != nil {
		return errors.Wrap(err, "add orders address foreign key")
	}
	return nil
}
