package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/participant"
	"dispatch/internal/core/domain/model/route"
	"dispatch/internal/core/domain/model/setting"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// Timings holds the fallbacks used when the corresponding setting is missing.
type Timings struct {
	Prep           time.Duration
	DeliveryWindow time.Duration
}

// requireActiveDriver asks the directory before any order is handed to the driver.
func requireActiveDriver(ctx context.Context, directory ports.DriverDirectory, driverID kernel.UUID) error {
	active, err := directory.IsActive(ctx, driverID)
	if err != nil {
		return errs.NewExternalFailureError("driver directory", err)
	}
	if !active {
		return errs.NewGuardViolationError(participant.GuardDriverStatus, "driver inactive")
	}
	return nil
}

// driverSide is the driver summary and route touched by a driver-side transition.
type driverSide struct {
	driver *participant.Driver
	route  *route.Route
}

func loadDriverSide(ctx context.Context, uow LifecycleUoW, driverID kernel.UUID) (driverSide, error) {
	driver, err := uow.DriverRepository().Get(ctx, driverID)
	if err != nil {
		return driverSide{}, err
	}
	r, err := uow.RouteRepository().GetByDriver(ctx, driverID)
	if err != nil {
		return driverSide{}, err
	}
	return driverSide{driver: driver, route: r}, nil
}

func (s driverSide) save(ctx context.Context, uow LifecycleUoW) error {
	if err := uow.RouteRepository().Update(ctx, s.route); err != nil {
		return err
	}
	return uow.DriverRepository().Update(ctx, s.driver)
}

// claim hands o to the driver inside the current unit of work.
func claim(ctx context.Context, uow LifecycleUoW, o *order.Order, driverID kernel.UUID) (driverSide, error) {
	side, err := loadDriverSide(ctx, uow, driverID)
	if err != nil {
		return driverSide{}, err
	}
	if err = services.NewRouteDispatcher().Claim(o, side.route, side.driver); err != nil {
		return driverSide{}, err
	}
	return side, nil
}

// resolveTimings reads preparation and delivery window from settings, falling back to defaults.
func resolveTimings(ctx context.Context, repo ports.SettingRepository, prepMinutes int, defaults Timings) (Timings, error) {
	t := defaults
	if prepMinutes > 0 {
		t.Prep = time.Duration(prepMinutes) * time.Minute
	} else {
		prep, err := settingMinutes(ctx, repo, setting.PrepDefaultMinutes, defaults.Prep)
		if err != nil {
			return Timings{}, err
		}
		t.Prep = prep
	}

	window, err := settingMinutes(ctx, repo, setting.DeliveryWindowMinutes, defaults.DeliveryWindow)
	if err != nil {
		return Timings{}, err
	}
	t.DeliveryWindow = window
	return t, nil
}

func settingMinutes(ctx context.Context, repo ports.SettingRepository, name string, fallback time.Duration) (time.Duration, error) {
	s, err := repo.GetByName(ctx, name)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return fallback, nil
	}
	if err != nil {
		return 0, err
	}
	return s.Minutes()
}
