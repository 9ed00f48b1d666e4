package setting

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Well-known settings read by the lifecycle commands.
const (
	// PrepDefaultMinutes is the preparation time used when a vendor accepts without naming one.
	PrepDefaultMinutes = "prep.defaultMinutes"
	// DeliveryWindowMinutes is added to the ready time to estimate delivery.
	DeliveryWindowMinutes = "delivery.windowMinutes"
)

var (
	// ErrSettingIsNotConstructed is returned when a Setting was not created via NewSetting or RestoreSetting.
	ErrSettingIsNotConstructed = errors.New("Setting must be created via NewSetting constructor")
)

// Setting is a named operational value. Every update keeps the previous name and value
// so the last change can be audited or undone by hand.
type Setting struct {
	id         kernel.UUID
	name       string
	value      string
	prevName   string
	prevValue  string
	modifiedBy *kernel.UUID
	modifiedAt time.Time
	guard      guard.ConstructorGuard
}

func NewSetting(id kernel.UUID, name, value string, now time.Time) (*Setting, error) {
	s := &Setting{
		modifiedAt: now.UTC(),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setName(name),
	); err != nil {
		return nil, err
	}
	s.value = value

	return s, nil
}

func RestoreSetting(
	id kernel.UUID,
	name, value, prevName, prevValue string,
	modifiedBy *kernel.UUID,
	modifiedAt time.Time,
) (*Setting, error) {
	s, err := NewSetting(id, name, value, modifiedAt)
	if err != nil {
		return nil, err
	}
	s.prevName = prevName
	s.prevValue = prevValue
	s.modifiedBy = modifiedBy
	return s, nil
}

func (s *Setting) Validate() error {
	if s == nil {
		return ErrSettingIsNotConstructed
	}
	return s.guard.Validate(ErrSettingIsNotConstructed)
}

func (s *Setting) ID() kernel.UUID          { return s.id }
func (s *Setting) Name() string             { return s.name }
func (s *Setting) Value() string            { return s.value }
func (s *Setting) PrevName() string         { return s.prevName }
func (s *Setting) PrevValue() string        { return s.prevValue }
func (s *Setting) ModifiedBy() *kernel.UUID { return s.modifiedBy }
func (s *Setting) ModifiedAt() time.Time    { return s.modifiedAt }

// Update renames and/or revalues the setting. An empty name keeps the current one.
func (s *Setting) Update(name, value string, by kernel.UUID, now time.Time) error {
	if err := by.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("modified by", err)
	}
	if strings.TrimSpace(name) == "" {
		name = s.name
	}

	prevName, prevValue := s.name, s.value
	if err := s.setName(name); err != nil {
		return err
	}
	s.prevName, s.prevValue = prevName, prevValue
	s.value = value
	s.modifiedBy = &by
	s.modifiedAt = now.UTC()
	return nil
}

// Minutes reads the value as a whole number of minutes.
func (s *Setting) Minutes() (time.Duration, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s.value))
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(s.name, err)
	}
	if n < 0 {
		return 0, errs.NewValueIsOutOfRangeError(s.name, n, 0, "unbounded")
	}
	return time.Duration(n) * time.Minute, nil
}

func (s *Setting) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Setting) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("setting name")
	}
	s.name = name
	return nil
}
