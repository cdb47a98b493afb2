package project

import (
	"github.com/fieldops-app/fieldops/internal/project/repository"
	"github.com/fieldops-app/fieldops/internal/project/service"
	"go.uber.org/fx"
)

var Module = fx.Module("project.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
