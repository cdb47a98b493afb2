package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/config"
	"github.com/fieldops-app/fieldops/internal/subscription/domain"
)

type service struct {
	repo  domain.Repository
	plans *config.PlansHolder
}

func NewService(repo domain.Repository, plans *config.PlansHolder) domain.Service {
	return &service{repo: repo, plans: plans}
}

func (s *service) GetByOrg(ctx context.Context, orgID snowflake.ID) (*domain.Response, error) {
	sub, err := s.repo.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return toResponse(sub), nil
}

func (s *service) Update(ctx context.Context, orgID snowflake.ID, req domain.UpdateRequest) (*domain.Response, error) {
	sub, err := s.repo.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if plan := strings.ToLower(strings.TrimSpace(req.Plan)); plan != "" {
		sub.Plan = plan
		// Switching plans re-seeds the allowances from the plan table unless the
		// request pins them explicitly below.
		limits := s.plans.LimitsFor(plan)
		sub.Seats = limits.Seats
		sub.ProjectsLimit = limits.ProjectsLimit
	}
	if status := strings.ToLower(strings.TrimSpace(req.Status)); status != "" {
		if !domain.ValidStatus(status) {
			return nil, domain.ErrInvalidStatus
		}
		sub.Status = status
	}
	if req.Seats != nil {
		if *req.Seats <= 0 {
			return nil, domain.ErrInvalidSeats
		}
		sub.Seats = *req.Seats
	}
	if req.ProjectsLimit != nil {
		if *req.ProjectsLimit <= 0 {
			return nil, domain.ErrInvalidLimit
		}
		sub.ProjectsLimit = *req.ProjectsLimit
	}
	if req.PeriodStart != nil || req.PeriodEnd != nil {
		start, end := req.PeriodStart, req.PeriodEnd
		if start == nil {
			start = sub.PeriodStart
		}
		if end == nil {
			end = sub.PeriodEnd
		}
		if start != nil && end != nil && end.Before(*start) {
			return nil, domain.ErrInvalidPeriod
		}
		sub.PeriodStart = start
		sub.PeriodEnd = end
	}
	if req.Note != nil {
		sub.Note = strings.TrimSpace(*req.Note)
	}
	sub.UpdatedByEmail = strings.ToLower(strings.TrimSpace(req.UpdatedByEmail))
	sub.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *sub); err != nil {
		return nil, err
	}
	return toResponse(sub), nil
}

func (s *service) SeatLimit(ctx context.Context, orgID snowflake.ID) (int, error) {
	sub, err := s.repo.GetByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.defaultSeats(), nil
		}
		return 0, err
	}
	if sub.Seats <= 0 || sub.Status == domain.StatusInactive {
		return s.defaultSeats(), nil
	}
	return sub.Seats, nil
}

func (s *service) ProjectsLimit(ctx context.Context, orgID snowflake.ID) (int, error) {
	sub, err := s.repo.GetByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.defaultProjects(), nil
		}
		return 0, err
	}
	if sub.ProjectsLimit <= 0 || sub.Status == domain.StatusInactive {
		return s.defaultProjects(), nil
	}
	return sub.ProjectsLimit, nil
}

func (s *service) defaultSeats() int {
	if s.plans != nil {
		if limits := s.plans.Get().Default; limits.Seats > 0 {
			return limits.Seats
		}
	}
	return domain.DefaultSeatLimit
}

func (s *service) defaultProjects() int {
	if s.plans != nil {
		if limits := s.plans.Get().Default; limits.ProjectsLimit > 0 {
			return limits.ProjectsLimit
		}
	}
	return domain.DefaultProjectsLimit
}

func toResponse(sub *domain.Subscription) *domain.Response {
	return &domain.Response{
		ID:            sub.ID.String(),
		OrgID:         sub.OrgID.String(),
		Plan:          sub.Plan,
		Status:        sub.Status,
		Seats:         sub.Seats,
		ProjectsLimit: sub.ProjectsLimit,
		PeriodStart:   sub.PeriodStart,
		PeriodEnd:     sub.PeriodEnd,
		Note:          sub.Note,
	}
}
