package report

import (
	"github.com/fieldops-app/fieldops/internal/report/repository"
	"github.com/fieldops-app/fieldops/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
