package basestation

import (
	"github.com/fieldops-app/fieldops/internal/basestation/repository"
	"github.com/fieldops-app/fieldops/internal/basestation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("basestation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
