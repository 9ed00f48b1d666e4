package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/setting"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type UpdateSettingCommandHandler struct {
	uowFactory SettingUoWFactory
	clock      ports.Clock
}

func NewUpdateSettingCommandHandler(uowFactory SettingUoWFactory, clock ports.Clock) UpdateSettingCommandHandler {
	return UpdateSettingCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h UpdateSettingCommandHandler) Handle(ctx context.Context, cmd UpdateSettingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SettingRepository()
	now := h.clock.Now()

	s, err := repo.GetByName(ctx, cmd.Name())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		if s, err = setting.NewSetting(kernel.NewUUID(), cmd.Name(), cmd.Value(), now); err != nil {
			return err
		}
		if err = s.Update(cmd.NewName(), cmd.Value(), cmd.ModifiedBy(), now); err != nil {
			return err
		}
		err = repo.Add(ctx, s)
	case err != nil:
		return err
	default:
		if err = s.Update(cmd.NewName(), cmd.Value(), cmd.ModifiedBy(), now); err != nil {
			return err
		}
		err = repo.Update(ctx, s)
	}
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
