package notification

import (
	"github.com/fieldops-app/fieldops/internal/notification/hub"
	"github.com/fieldops-app/fieldops/internal/notification/repository"
	"github.com/fieldops-app/fieldops/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(hub.NewHub),
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
