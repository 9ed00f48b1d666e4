package participantrepo

import (
	"context"

	"dispatch/internal/adapters/out/postgres/pgerr"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

var (
	_ ports.CustomerRepository = (*GormCustomerRepository)(nil)
	_ ports.VendorRepository   = (*GormVendorRepository)(nil)
	_ ports.DriverRepository   = (*GormDriverRepository)(nil)
)

// holders holds the persistence steps shared by the three summaries: the summary
// row is version checked and the order sets are rewritten beside it.
type holders struct {
	db *gorm.DB
}

func (s holders) add(ctx context.Context, h participant.OrderHolder, row any) error {
	db := s.db.WithContext(ctx)
	key := h.ID().String()
	if err := db.Create(row).Error; err != nil {
		return pgerr.Write(err, h.Role().String(), key)
	}
	if err := s.writeHoldings(db, h); err != nil {
		return err
	}
	h.MarkPersisted()
	return nil
}

func (s holders) update(ctx context.Context, h participant.OrderHolder, model any, fields map[string]any) error {
	db := s.db.WithContext(ctx)
	key := h.ID().String()
	fields["version"] = h.Version() + 1

	result := db.Model(model).
		Where("id = ? AND version = ?", h.ID().Bytes(), h.Version()).
		Updates(fields)
	if err := pgerr.Versioned(result, h.Role().String(), key); err != nil {
		return err
	}
	if err := s.writeHoldings(db, h); err != nil {
		return err
	}
	h.MarkPersisted()
	return nil
}

func (s holders) writeHoldings(db *gorm.DB, h participant.OrderHolder) error {
	key := h.ID().String()
	if err := db.Where("participant_id = ?", h.ID().Bytes()).Delete(&HoldingDTO{}).Error; err != nil {
		return pgerr.Write(err, h.Role().String(), key)
	}
	rows := holdingsFromDomain(h)
	if len(rows) == 0 {
		return nil
	}
	return pgerr.Write(db.Create(&rows).Error, h.Role().String(), key)
}

func (s holders) first(ctx context.Context, role participant.Role, id kernel.UUID, row any) (active, history []kernel.UUID, err error) {
	if err = id.Validate(); err != nil {
		return nil, nil, err
	}
	db := s.db.WithContext(ctx)
	if err = db.First(row, "id = ?", id.Bytes()).Error; err != nil {
		return nil, nil, pgerr.Read(err, role.String(), id.String())
	}

	var rows []HoldingDTO
	err = db.Where("participant_id = ?", id.Bytes()).
		Order("completed, position").
		Find(&rows).Error
	if err != nil {
		return nil, nil, pgerr.Read(err, role.String(), id.String())
	}
	return holdingsToDomain(rows)
}

type GormCustomerRepository struct{ holders }

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{holders{db: db}}
}

func (r *GormCustomerRepository) Add(ctx context.Context, c *participant.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return r.add(ctx, c, &CustomerDTO{
		ID:      c.ID().Bytes(),
		Name:    c.Name(),
		CartID:  kernel.BytesPtr(c.Cart()),
		Version: c.Version() + 1,
	})
}

func (r *GormCustomerRepository) Update(ctx context.Context, c *participant.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return r.update(ctx, c, &CustomerDTO{}, map[string]any{
		"name":    c.Name(),
		"cart_id": kernel.BytesPtr(c.Cart()),
	})
}

func (r *GormCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*participant.Customer, error) {
	var dto CustomerDTO
	active, history, err := r.first(ctx, participant.CustomerRole, id, &dto)
	if err != nil {
		return nil, err
	}
	cart, err := kernel.UUIDPtrFromBytes(dto.CartID)
	if err != nil {
		return nil, err
	}
	return participant.RestoreCustomer(id, dto.Name, cart, active, history, dto.Version)
}

type GormVendorRepository struct{ holders }

func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{holders{db: db}}
}

func (r *GormVendorRepository) Add(ctx context.Context, v *participant.Vendor) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return r.add(ctx, v, &VendorDTO{ID: v.ID().Bytes(), Name: v.Name(), Version: v.Version() + 1})
}

func (r *GormVendorRepository) Update(ctx context.Context, v *participant.Vendor) error {
	if err := v.Validate(); err != nil {
		return err
	}
	return r.update(ctx, v, &VendorDTO{}, map[string]any{"name": v.Name()})
}

func (r *GormVendorRepository) Get(ctx context.Context, id kernel.UUID) (*participant.Vendor, error) {
	var dto VendorDTO
	active, history, err := r.first(ctx, participant.VendorRole, id, &dto)
	if err != nil {
		return nil, err
	}
	return participant.RestoreVendor(id, dto.Name, active, history, dto.Version)
}

type GormDriverRepository struct{ holders }

func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{holders{db: db}}
}

func (r *GormDriverRepository) Add(ctx context.Context, d *participant.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return r.add(ctx, d, &DriverDTO{
		ID:      d.ID().Bytes(),
		Name:    d.Name(),
		Status:  d.Status().String(),
		Version: d.Version() + 1,
	})
}

func (r *GormDriverRepository) Update(ctx context.Context, d *participant.Driver) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return r.update(ctx, d, &DriverDTO{}, map[string]any{
		"name":   d.Name(),
		"status": d.Status().String(),
	})
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*participant.Driver, error) {
	var dto DriverDTO
	active, history, err := r.first(ctx, participant.DriverRole, id, &dto)
	if err != nil {
		return nil, err
	}
	status, err := participant.ParseDriverStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	return participant.RestoreDriver(id, dto.Name, status, active, history, dto.Version)
}
