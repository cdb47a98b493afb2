package task

import (
	"github.com/fieldops-app/fieldops/internal/task/repository"
	"github.com/fieldops-app/fieldops/internal/task/service"
	"go.uber.org/fx"
)

var Module = fx.Module("task.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
