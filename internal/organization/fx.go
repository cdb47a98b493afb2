package organization

import (
	"github.com/fieldops-app/fieldops/internal/organization/repository"
	"github.com/fieldops-app/fieldops/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
