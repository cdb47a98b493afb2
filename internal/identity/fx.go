package identity

import (
	"github.com/fieldops-app/fieldops/internal/identity/repository"
	"github.com/fieldops-app/fieldops/internal/identity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
