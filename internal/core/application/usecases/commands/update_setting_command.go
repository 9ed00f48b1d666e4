package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateSettingCommandIsNotConstructed = errors.New(
	"UpdateSettingCommand must be created via NewUpdateSettingCommand constructor",
)

// UpdateSettingCommand sets the value of a named setting, optionally renaming it.
// A setting that does not exist yet is created.
type UpdateSettingCommand struct {
	name       string
	newName    string
	value      string
	modifiedBy kernel.UUID
	guard      guard.ConstructorGuard
}

func NewUpdateSettingCommand(name, newName, value string, modifiedBy kernel.UUID) (UpdateSettingCommand, error) {
	var err error
	if strings.TrimSpace(name) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("name"))
	}
	if e := modifiedBy.Validate(); e != nil {
		err = errors.Join(err, errs.NewValueIsRequiredErrorWithCause("modified by", e))
	}
	if err != nil {
		return UpdateSettingCommand{}, err
	}
	return UpdateSettingCommand{
		name:       strings.TrimSpace(name),
		newName:    strings.TrimSpace(newName),
		value:      value,
		modifiedBy: modifiedBy,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateSettingCommand) Validate() error {
	return c.guard.Validate(ErrUpdateSettingCommandIsNotConstructed)
}

func (c UpdateSettingCommand) Name() string            { return c.name }
func (c UpdateSettingCommand) NewName() string         { return c.newName }
func (c UpdateSettingCommand) Value() string           { return c.value }
func (c UpdateSettingCommand) ModifiedBy() kernel.UUID { return c.modifiedBy }
