package subscription

import (
	"github.com/fieldops-app/fieldops/internal/subscription/repository"
	"github.com/fieldops-app/fieldops/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
