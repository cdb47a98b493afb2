package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/config"
	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	"github.com/fieldops-app/fieldops/internal/organization/domain"
	subscriptiondomain "github.com/fieldops-app/fieldops/internal/subscription/domain"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const (
	minNameLen = 2
	minSlugLen = 3
)

type service struct {
	db            *gorm.DB
	repo          domain.Repository
	members       membershipdomain.Repository
	subscriptions subscriptiondomain.Repository
	plans         *config.PlansHolder
	genID         *snowflake.Node
}

func NewService(
	db *gorm.DB,
	repo domain.Repository,
	members membershipdomain.Repository,
	subscriptions subscriptiondomain.Repository,
	plans *config.PlansHolder,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:            db,
		repo:          repo,
		members:       members,
		subscriptions: subscriptions,
		plans:         plans,
		genID:         genID,
	}
}

func (s *service) Create(ctx context.Context, creatorEmail, creatorName string, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if utf8.RuneCountInString(name) < minNameLen {
		return nil, domain.ErrInvalidName
	}

	orgSlug, err := s.resolveSlug(ctx, name, req.Slug)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	email := strings.ToLower(strings.TrimSpace(creatorEmail))
	orgID := s.genID.Generate()
	org := domain.Organization{
		ID:             orgID,
		Name:           name,
		Slug:           orgSlug,
		OwnerEmail:     email,
		CreatedByEmail: email,
		CreatedAt:      now,
	}

	limits := s.plans.LimitsFor("free")

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, org); err != nil {
			return err
		}

		owner := membershipdomain.Membership{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			UserEmail: email,
			UserName:  strings.TrimSpace(creatorName),
			Role:      membershipdomain.RoleOwner,
			Status:    membershipdomain.StatusActive,
			CreatedAt: now,
		}
		if err := s.members.WithTx(tx).Insert(ctx, owner); err != nil {
			return err
		}

		sub := subscriptiondomain.Subscription{
			ID:            s.genID.Generate(),
			OrgID:         orgID,
			Plan:          "free",
			Status:        subscriptiondomain.StatusInactive,
			Seats:         limits.Seats,
			ProjectsLimit: limits.ProjectsLimit,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return s.subscriptions.WithTx(tx).Create(ctx, sub)
	})
	if err != nil {
		return nil, err
	}

	return &domain.Response{
		ID:      orgID.String(),
		Name:    name,
		OrgSlug: orgSlug,
	}, nil
}

func (s *service) ListByUser(ctx context.Context, email string) ([]domain.ListItem, error) {
	items, err := s.repo.ListByUserEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ListItem, 0, len(items))
	for _, item := range items {
		resp = append(resp, domain.ListItem{
			ID:        item.ID.String(),
			Name:      item.Name,
			OrgSlug:   item.Slug,
			Role:      item.Role,
			CreatedAt: item.CreatedAt,
		})
	}
	return resp, nil
}

func (s *service) GetBySlug(ctx context.Context, rawSlug string) (*domain.Organization, error) {
	trimmed := strings.TrimSpace(rawSlug)
	if trimmed == "" {
		return nil, domain.ErrOrgNotFound
	}
	return s.repo.GetBySlug(ctx, trimmed)
}

// resolveSlug normalizes the requested slug and guarantees uniqueness. An
// explicitly supplied slug that collides is a conflict; a derived one is
// suffixed until free.
func (s *service) resolveSlug(ctx context.Context, name, requested string) (string, error) {
	explicit := strings.TrimSpace(requested) != ""

	base := slug.Make(requested)
	if !explicit {
		base = slug.Make(name)
		if len(base) < minSlugLen {
			base = "org-" + base
		}
	}
	if len(base) < minSlugLen {
		return "", domain.ErrInvalidSlug
	}

	taken, err := s.repo.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	if explicit {
		return "", domain.ErrSlugTaken
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		taken, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
