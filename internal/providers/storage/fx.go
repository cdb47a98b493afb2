package storage

import (
	"github.com/fieldops-app/fieldops/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.storage",
	fx.Provide(func(cfg config.Config) (Storage, error) {
		return NewDisk(cfg.StorageDir)
	}),
)
