package ports

import (
	"context"

	"dispatch/internal/core/domain/model/setting"
)

type SettingRepository interface {
	Add(ctx context.Context, aggregate *setting.Setting) error
	Update(ctx context.Context, aggregate *setting.Setting) error

	// GetByName returns ObjectNotFoundError when no setting carries the name.
	GetByName(ctx context.Context, name string) (*setting.Setting, error)
}
