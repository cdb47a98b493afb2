package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	"github.com/fieldops-app/fieldops/internal/project/domain"
	subscriptiondomain "github.com/fieldops-app/fieldops/internal/subscription/domain"
	"gorm.io/gorm"
)

const minNameLen = 2

type service struct {
	db            *gorm.DB
	repo          domain.Repository
	subscriptions subscriptiondomain.Service
	genID         *snowflake.Node
}

func NewService(
	db *gorm.DB,
	repo domain.Repository,
	subscriptions subscriptiondomain.Service,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:            db,
		repo:          repo,
		subscriptions: subscriptions,
		genID:         genID,
	}
}

func (s *service) Create(ctx context.Context, callerEmail, callerRole string, orgID snowflake.ID, req domain.CreateRequest) (*domain.Project, error) {
	if !membershipdomain.CanManageWork(callerRole) {
		return nil, domain.ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < minNameLen {
		return nil, domain.ErrInvalidName
	}

	limit, err := s.subscriptions.ProjectsLimit(ctx, orgID)
	if err != nil {
		return nil, err
	}

	p := domain.Project{
		ID:             s.genID.Generate(),
		OrgID:          orgID,
		Name:           name,
		Description:    strings.TrimSpace(req.Description),
		Status:         domain.StatusActive,
		CreatedByEmail: strings.ToLower(strings.TrimSpace(callerEmail)),
		CreatedAt:      time.Now().UTC(),
	}

	// Count and insert share one transaction so the quota check sees a
	// consistent snapshot.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		used, err := repo.CountByOrg(ctx, orgID)
		if err != nil {
			return err
		}
		if int(used) >= limit {
			return &domain.LimitError{Used: int(used), Limit: limit}
		}
		return repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Project, error) {
	return s.repo.Get(ctx, orgID, id)
}

func (s *service) Update(ctx context.Context, callerRole string, orgID, id snowflake.ID, req domain.UpdateRequest) (*domain.Project, error) {
	if !membershipdomain.CanManageWork(callerRole) {
		return nil, domain.ErrForbidden
	}

	p, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if utf8.RuneCountInString(name) < minNameLen {
			return nil, domain.ErrInvalidName
		}
		p.Name = name
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		p.Status = *req.Status
	}

	if err := s.repo.Update(ctx, *p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, status string) ([]domain.Project, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, orgID, status)
}
