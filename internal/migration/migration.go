// Package migration keeps the schema in step with the models at startup.
package migration

import (
	"context"

	basestationdomain "github.com/fieldops-app/fieldops/internal/basestation/domain"
	identitydomain "github.com/fieldops-app/fieldops/internal/identity/domain"
	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	notificationdomain "github.com/fieldops-app/fieldops/internal/notification/domain"
	organizationdomain "github.com/fieldops-app/fieldops/internal/organization/domain"
	projectdomain "github.com/fieldops-app/fieldops/internal/project/domain"
	reportdomain "github.com/fieldops-app/fieldops/internal/report/domain"
	subscriptiondomain "github.com/fieldops-app/fieldops/internal/subscription/domain"
	taskdomain "github.com/fieldops-app/fieldops/internal/task/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models is the full set of persisted types, in dependency order.
func Models() []any {
	return []any{
		&identitydomain.User{},
		&organizationdomain.Organization{},
		&membershipdomain.Membership{},
		&subscriptiondomain.Subscription{},
		&projectdomain.Project{},
		&taskdomain.Task{},
		&reportdomain.Report{},
		&basestationdomain.BaseStation{},
		&notificationdomain.Notification{},
	}
}

// Run applies gorm auto migration for every model.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

var Module = fx.Module("migration",
	fx.Invoke(func(lc fx.Lifecycle, db *gorm.DB, logger *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := Run(db.WithContext(ctx)); err != nil {
					return err
				}
				logger.Info("schema migration applied")
				return nil
			},
		})
	}),
)
