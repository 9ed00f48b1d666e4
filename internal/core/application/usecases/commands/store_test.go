package commands_test

import (
	"context"
	"maps"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/address"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/core/domain/model/setting"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

type routeRec struct {
	id, driverID kernel.UUID
	vendorID     *kernel.UUID
	stops        []kernel.UUID
	createdAt    time.Time
	version      int64
}

type holderRec struct {
	name    string
	cart    *kernel.UUID
	status  participant.DriverStatus
	active  []kernel.UUID
	history []kernel.UUID
	version int64
}

type addressRec struct {
	customerID kernel.UUID
	fields     address.Fields
	createdAt  time.Time
	modifiedAt time.Time
}

// tables is one consistent state of the store.
type tables struct {
	orders    map[kernel.UUID]order.Snapshot
	routes    map[kernel.UUID]routeRec
	customers map[kernel.UUID]holderRec
	vendors   map[kernel.UUID]holderRec
	drivers   map[kernel.UUID]holderRec
	addresses map[kernel.UUID]addressRec
	settings  map[string]*setting.Setting
}

func (t tables) clone() tables {
	return tables{
		orders:    maps.Clone(t.orders),
		routes:    maps.Clone(t.routes),
		customers: maps.Clone(t.customers),
		vendors:   maps.Clone(t.vendors),
		drivers:   maps.Clone(t.drivers),
		addresses: maps.Clone(t.addresses),
		settings:  maps.Clone(t.settings),
	}
}

// memStore is an in-memory database with read-committed reads, version checked writes
// and all-or-nothing commits.
type memStore struct {
	mu sync.Mutex
	t  tables

	// beforeCommit, when set, runs once right before the next commit applies.
	beforeCommit func()
	failCommit   error

	// failNextCommit fails only the next commit.
	failNextCommit error
}

func newMemStore() *memStore {
	return &memStore{t: tables{
		orders:    map[kernel.UUID]order.Snapshot{},
		routes:    map[kernel.UUID]routeRec{},
		customers: map[kernel.UUID]holderRec{},
		vendors:   map[kernel.UUID]holderRec{},
		drivers:   map[kernel.UUID]holderRec{},
		addresses: map[kernel.UUID]addressRec{},
		settings:  map[string]*setting.Setting{},
	}}
}

func (s *memStore) read(fn func(t tables)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.t)
}

// Create makes memStore usable as every UoW factory of the commands package.
func (s *memStore) Create() *memUoW {
	return &memUoW{store: s}
}

func (s *memStore) cart() commands.CartUoWFactory           { return cartFactory{s} }
func (s *memStore) lifecycle() commands.LifecycleUoWFactory { return lifecycleFactory{s} }
func (s *memStore) addresses() commands.AddressUoWFactory   { return addressFactory{s} }
func (s *memStore) settings() commands.SettingUoWFactory    { return settingFactory{s} }
func (s *memStore) people() commands.ParticipantUoWFactory  { return participantFactory{s} }

type (
	cartFactory        struct{ s *memStore }
	lifecycleFactory   struct{ s *memStore }
	addressFactory     struct{ s *memStore }
	settingFactory     struct{ s *memStore }
	participantFactory struct{ s *memStore }
)

func (f cartFactory) Create() commands.CartUoW                { return f.s.Create() }
func (f lifecycleFactory) Create() commands.LifecycleUoW      { return f.s.Create() }
func (f addressFactory) Create() commands.AddressUoW          { return f.s.Create() }
func (f settingFactory) Create() commands.SettingUoW          { return f.s.Create() }
func (f participantFactory) Create() commands.ParticipantUoW { return f.s.Create() }

type memUoW struct {
	store  *memStore
	active bool
	staged []func(t tables) error
}

var _ ports.UnitOfWork = (*memUoW)(nil)

func (u *memUoW) Begin(context.Context) error {
	u.active = true
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	if !u.active {
		return gorm.ErrInvalidTransaction
	}
	u.active = false

	if hook := u.store.beforeCommit; hook != nil {
		u.store.beforeCommit = nil
		hook()
	}

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	if err := u.store.failCommit; err != nil {
		return err
	}
	if err := u.store.failNextCommit; err != nil {
		u.store.failNextCommit = nil
		return err
	}

	next := u.store.t.clone()
	for _, op := range u.staged {
		if err := op(next); err != nil {
			return err
		}
	}
	u.store.t = next
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	if !u.active {
		return gorm.ErrInvalidTransaction
	}
	u.active = false
	u.staged = nil
	return nil
}

func (u *memUoW) stage(op func(t tables) error) {
	u.staged = append(u.staged, op)
}

func (u *memUoW) OrderRepository() ports.OrderRepository       { return memOrders{u} }
func (u *memUoW) RouteRepository() ports.RouteRepository       { return memRoutes{u} }
func (u *memUoW) CustomerRepository() ports.CustomerRepository { return memCustomers{u} }
func (u *memUoW) VendorRepository() ports.VendorRepository     { return memVendors{u} }
func (u *memUoW) DriverRepository() ports.DriverRepository     { return memDrivers{u} }
func (u *memUoW) AddressRepository() ports.AddressRepository   { return memAddresses{u} }
func (u *memUoW) SettingRepository() ports.SettingRepository   { return memSettings{u} }

func conflict(kind string, id kernel.UUID) error {
	return errs.NewConcurrentConflictError(kind, id.String())
}

type memOrders struct{ u *memUoW }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	snap := o.Snapshot()
	r.u.stage(func(t tables) error {
		if _, ok := t.orders[snap.ID]; ok {
			return conflict("order", snap.ID)
		}
		snap.Version = 1
		t.orders[snap.ID] = snap
		return nil
	})
	o.MarkPersisted()
	return nil
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	snap := o.Snapshot()
	r.u.stage(func(t tables) error {
		if cur, ok := t.orders[snap.ID]; !ok || cur.Version != snap.Version {
			return conflict("order", snap.ID)
		}
		snap.Version++
		t.orders[snap.ID] = snap
		return nil
	})
	o.MarkPersisted()
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	var (
		snap order.Snapshot
		ok   bool
	)
	r.u.store.read(func(t tables) { snap, ok = t.orders[id] })
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snap)
}

func (r memOrders) ListStale(_ context.Context, d order.Disposition, before time.Time, limit int) ([]*order.Order, error) {
	var out []*order.Order
	var err error
	r.u.store.read(func(t tables) {
		for _, snap := range t.orders {
			if snap.Disposition != d || !snap.CreatedAt.Before(before) || len(out) >= limit {
				continue
			}
			var o *order.Order
			if o, err = order.RestoreOrder(snap); err != nil {
				return
			}
			out = append(out, o)
		}
	})
	return out, err
}

func (r memOrders) CountByAddress(_ context.Context, addressID kernel.UUID) (int64, error) {
	var n int64
	r.u.store.read(func(t tables) {
		for _, snap := range t.orders {
			if snap.AddressID != nil && snap.AddressID.IsEqual(addressID) && snap.Disposition != order.New {
				n++
			}
		}
	})
	return n, nil
}

type memRoutes struct{ u *memUoW }

func routeRecOf(r *route.Route) routeRec {
	return routeRec{
		id:        r.ID(),
		driverID:  r.DriverID(),
		vendorID:  r.VendorID(),
		stops:     r.Stops(),
		createdAt: r.CreatedAt(),
		version:   r.Version(),
	}
}

func checkStops(t tables, rec routeRec) error {
	for id, other := range t.routes {
		if id == rec.id {
			continue
		}
		for _, stop := range other.stops {
			for _, mine := range rec.stops {
				if stop.IsEqual(mine) {
					return conflict("route", rec.id)
				}
			}
		}
	}
	return nil
}

func (r memRoutes) Add(_ context.Context, rt *route.Route) error {
	rec := routeRecOf(rt)
	r.u.stage(func(t tables) error {
		if err := checkStops(t, rec); err != nil {
			return err
		}
		rec.version = 1
		t.routes[rec.id] = rec
		return nil
	})
	rt.MarkPersisted()
	return nil
}

func (r memRoutes) Update(_ context.Context, rt *route.Route) error {
	rec := routeRecOf(rt)
	r.u.stage(func(t tables) error {
		if cur, ok := t.routes[rec.id]; !ok || cur.version != rec.version {
			return conflict("route", rec.id)
		}
		if err := checkStops(t, rec); err != nil {
			return err
		}
		rec.version++
		t.routes[rec.id] = rec
		return nil
	})
	rt.MarkPersisted()
	return nil
}

func (r memRoutes) restore(rec routeRec) (*route.Route, error) {
	return route.RestoreRoute(rec.id, rec.driverID, rec.vendorID, rec.stops, rec.createdAt, rec.version)
}

func (r memRoutes) Get(_ context.Context, id kernel.UUID) (*route.Route, error) {
	var (
		rec routeRec
		ok  bool
	)
	r.u.store.read(func(t tables) { rec, ok = t.routes[id] })
	if !ok {
		return nil, errs.NewObjectNotFoundError("route", id.String())
	}
	return r.restore(rec)
}

func (r memRoutes) GetByDriver(_ context.Context, driverID kernel.UUID) (*route.Route, error) {
	var (
		rec routeRec
		ok  bool
	)
	r.u.store.read(func(t tables) {
		for _, candidate := range t.routes {
			if candidate.driverID.IsEqual(driverID) {
				rec, ok = candidate, true
				return
			}
		}
	})
	if !ok {
		return nil, errs.NewObjectNotFoundError("route", driverID.String())
	}
	return r.restore(rec)
}

// stageHolder writes a participant record with the version check shared by all three kinds.
func stageHolder(u *memUoW, table func(t tables) map[kernel.UUID]holderRec, kind string, id kernel.UUID, rec holderRec, insert bool) {
	u.stage(func(t tables) error {
		cur, ok := table(t)[id]
		if insert && ok || !insert && (!ok || cur.version != rec.version) {
			return conflict(kind, id)
		}
		rec.version++
		table(t)[id] = rec
		return nil
	})
}

func getHolder(u *memUoW, table func(t tables) map[kernel.UUID]holderRec, kind string, id kernel.UUID) (holderRec, error) {
	var (
		rec holderRec
		ok  bool
	)
	u.store.read(func(t tables) { rec, ok = table(t)[id] })
	if !ok {
		return holderRec{}, errs.NewObjectNotFoundError(kind, id.String())
	}
	return rec, nil
}

func customersOf(t tables) map[kernel.UUID]holderRec { return t.customers }
func vendorsOf(t tables) map[kernel.UUID]holderRec   { return t.vendors }
func driversOf(t tables) map[kernel.UUID]holderRec   { return t.drivers }

type memCustomers struct{ u *memUoW }

func (r memCustomers) write(c *participant.Customer, insert bool) error {
	rec := holderRec{name: c.Name(), cart: c.Cart(), active: c.ActiveOrders(), history: c.OrderHistory(), version: c.Version()}
	stageHolder(r.u, customersOf, "customer", c.ID(), rec, insert)
	c.MarkPersisted()
	return nil
}

func (r memCustomers) Add(_ context.Context, c *participant.Customer) error    { return r.write(c, true) }
func (r memCustomers) Update(_ context.Context, c *participant.Customer) error { return r.write(c, false) }

func (r memCustomers) Get(_ context.Context, id kernel.UUID) (*participant.Customer, error) {
	rec, err := getHolder(r.u, customersOf, "customer", id)
	if err != nil {
		return nil, err
	}
	return participant.RestoreCustomer(id, rec.name, rec.cart, rec.active, rec.history, rec.version)
}

type memVendors struct{ u *memUoW }

func (r memVendors) write(v *participant.Vendor, insert bool) error {
	rec := holderRec{name: v.Name(), active: v.ActiveOrders(), history: v.OrderHistory(), version: v.Version()}
	stageHolder(r.u, vendorsOf, "vendor", v.ID(), rec, insert)
	v.MarkPersisted()
	return nil
}

func (r memVendors) Add(_ context.Context, v *participant.Vendor) error    { return r.write(v, true) }
func (r memVendors) Update(_ context.Context, v *participant.Vendor) error { return r.write(v, false) }

func (r memVendors) Get(_ context.Context, id kernel.UUID) (*participant.Vendor, error) {
	rec, err := getHolder(r.u, vendorsOf, "vendor", id)
	if err != nil {
		return nil, err
	}
	return participant.RestoreVendor(id, rec.name, rec.active, rec.history, rec.version)
}

type memDrivers struct{ u *memUoW }

func (r memDrivers) write(d *participant.Driver, insert bool) error {
	rec := holderRec{name: d.Name(), status: d.Status(), active: d.ActiveOrders(), history: d.OrderHistory(), version: d.Version()}
	stageHolder(r.u, driversOf, "driver", d.ID(), rec, insert)
	d.MarkPersisted()
	return nil
}

func (r memDrivers) Add(_ context.Context, d *participant.Driver) error    { return r.write(d, true) }
func (r memDrivers) Update(_ context.Context, d *participant.Driver) error { return r.write(d, false) }

func (r memDrivers) Get(_ context.Context, id kernel.UUID) (*participant.Driver, error) {
	rec, err := getHolder(r.u, driversOf, "driver", id)
	if err != nil {
		return nil, err
	}
	return participant.RestoreDriver(id, rec.name, rec.status, rec.active, rec.history, rec.version)
}

type memAddresses struct{ u *memUoW }

func (r memAddresses) put(a *address.Address) error {
	id, rec := a.ID(), addressRec{customerID: a.CustomerID(), fields: a.Fields(), createdAt: a.CreatedAt(), modifiedAt: a.ModifiedAt()}
	r.u.stage(func(t tables) error {
		t.addresses[id] = rec
		return nil
	})
	return nil
}

func (r memAddresses) Add(_ context.Context, a *address.Address) error    { return r.put(a) }
func (r memAddresses) Update(_ context.Context, a *address.Address) error { return r.put(a) }

func (r memAddresses) Delete(_ context.Context, id kernel.UUID) error {
	r.u.stage(func(t tables) error {
		delete(t.addresses, id)
		return nil
	})
	return nil
}

func (r memAddresses) Get(_ context.Context, id kernel.UUID) (*address.Address, error) {
	var (
		rec addressRec
		ok  bool
	)
	r.u.store.read(func(t tables) { rec, ok = t.addresses[id] })
	if !ok {
		return nil, errs.NewObjectNotFoundError("address", id.String())
	}
	return address.RestoreAddress(id, rec.customerID, rec.fields, rec.createdAt, rec.modifiedAt)
}

type memSettings struct{ u *memUoW }

func (r memSettings) put(s *setting.Setting) error {
	copied := *s
	r.u.stage(func(t tables) error {
		for name, existing := range t.settings {
			if existing.ID().IsEqual(copied.ID()) {
				delete(t.settings, name)
			}
		}
		t.settings[copied.Name()] = &copied
		return nil
	})
	return nil
}

func (r memSettings) Add(_ context.Context, s *setting.Setting) error    { return r.put(s) }
func (r memSettings) Update(_ context.Context, s *setting.Setting) error { return r.put(s) }

func (r memSettings) GetByName(_ context.Context, name string) (*setting.Setting, error) {
	var (
		s  *setting.Setting
		ok bool
	)
	r.u.store.read(func(t tables) { s, ok = t.settings[name] })
	if !ok {
		return nil, errs.NewObjectNotFoundError("setting", name)
	}
	copied := *s
	return &copied, nil
}
