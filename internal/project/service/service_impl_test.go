package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	"github.com/fieldops-app/fieldops/internal/project/domain"
	projectrepo "github.com/fieldops-app/fieldops/internal/project/repository"
	subscriptiondomain "github.com/fieldops-app/fieldops/internal/subscription/domain"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type limitStub struct {
	projects int
}

func (s *limitStub) GetByOrg(ctx context.Context, orgID snowflake.ID) (*subscriptiondomain.Response, error) {
	return nil, subscriptiondomain.ErrNotFound
}

func (s *limitStub) Update(ctx context.Context, orgID snowflake.ID, req subscriptiondomain.UpdateRequest) (*subscriptiondomain.Response, error) {
	return nil, subscriptiondomain.ErrNotFound
}

func (s *limitStub) SeatLimit(ctx context.Context, orgID snowflake.ID) (int, error) {
	return 10, nil
}

func (s *limitStub) ProjectsLimit(ctx context.Context, orgID snowflake.ID) (int, error) {
	return s.projects, nil
}

func newTestService(t *testing.T, projectsLimit int) (domain.Service, snowflake.ID) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.Project{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(7)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := NewService(db, projectrepo.NewRepository(db), &limitStub{projects: projectsLimit}, node)
	return svc, node.Generate()
}

func TestCreateEnforcesProjectsLimit(t *testing.T) {
	svc, orgID := newTestService(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, "manager@example.com", membershipdomain.RoleManager, orgID, domain.CreateRequest{
			Name: fmt.Sprintf("Site %d", i+1),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i+1, err)
		}
	}

	_, err := svc.Create(ctx, "manager@example.com", membershipdomain.RoleManager, orgID, domain.CreateRequest{Name: "Site 3"})
	var limitErr *domain.LimitError
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected LimitError, got %v", err)
	}
	if limitErr.Used != 2 || limitErr.Limit != 2 {
		t.Fatalf("expected 2/2, got %d/%d", limitErr.Used, limitErr.Limit)
	}
}

func TestCreateForbiddenForExecutor(t *testing.T) {
	svc, orgID := newTestService(t, 10)

	_, err := svc.Create(context.Background(), "worker@example.com", membershipdomain.RoleExecutor, orgID, domain.CreateRequest{Name: "Site"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateValidatesStatus(t *testing.T) {
	svc, orgID := newTestService(t, 10)

	p, err := svc.Create(context.Background(), "manager@example.com", membershipdomain.RoleManager, orgID, domain.CreateRequest{Name: "Site"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := "paused"
	if _, err := svc.Update(context.Background(), membershipdomain.RoleManager, orgID, p.ID, domain.UpdateRequest{Status: &bad}); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	archived := domain.StatusArchived
	updated, err := svc.Update(context.Background(), membershipdomain.RoleManager, orgID, p.ID, domain.UpdateRequest{Status: &archived})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusArchived {
		t.Fatalf("expected archived, got %s", updated.Status)
	}
}
