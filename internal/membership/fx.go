package membership

import (
	"github.com/fieldops-app/fieldops/internal/membership/repository"
	"github.com/fieldops-app/fieldops/internal/membership/service"
	"go.uber.org/fx"
)

var Module = fx.Module("membership.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
