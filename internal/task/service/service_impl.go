package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	notificationdomain "github.com/fieldops-app/fieldops/internal/notification/domain"
	projectdomain "github.com/fieldops-app/fieldops/internal/project/domain"
	"github.com/fieldops-app/fieldops/internal/task/domain"
	"go.uber.org/zap"
)

const minTitleLen = 2

type service struct {
	repo          domain.Repository
	projects      projectdomain.Repository
	notifications notificationdomain.Service
	genID         *snowflake.Node
	logger        *zap.Logger
}

func NewService(
	repo domain.Repository,
	projects projectdomain.Repository,
	notifications notificationdomain.Service,
	genID *snowflake.Node,
	logger *zap.Logger,
) domain.Service {
	return &service{
		repo:          repo,
		projects:      projects,
		notifications: notifications,
		genID:         genID,
		logger:        logger,
	}
}

func (s *service) Create(ctx context.Context, callerEmail, callerRole string, orgID snowflake.ID, req domain.CreateRequest) (*domain.Task, error) {
	if !membershipdomain.CanManageWork(callerRole) {
		return nil, domain.ErrForbidden
	}

	title := strings.TrimSpace(req.Title)
	if utf8.RuneCountInString(title) < minTitleLen {
		return nil, domain.ErrInvalidTitle
	}

	projectID, err := snowflake.ParseString(strings.TrimSpace(req.ProjectID))
	if err != nil {
		return nil, domain.ErrInvalidProject
	}
	project, err := s.projects.Get(ctx, orgID, projectID)
	if err != nil {
		return nil, domain.ErrInvalidProject
	}

	now := time.Now().UTC()
	t := domain.Task{
		ID:             s.genID.Generate(),
		OrgID:          orgID,
		ProjectID:      project.ID,
		Title:          title,
		Description:    strings.TrimSpace(req.Description),
		Status:         domain.StatusOpen,
		DueAt:          req.DueAt,
		CreatedByEmail: strings.ToLower(strings.TrimSpace(callerEmail)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if assignee := strings.ToLower(strings.TrimSpace(req.AssigneeEmail)); assignee != "" {
		t.AssigneeEmail = &assignee
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	if t.AssigneeEmail != nil && *t.AssigneeEmail != t.CreatedByEmail {
		s.notifyAssigned(ctx, t, project.Name)
	}
	return &t, nil
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Task, error) {
	return s.repo.Get(ctx, orgID, id)
}

func (s *service) Update(ctx context.Context, callerEmail, callerRole string, orgID, id snowflake.ID, req domain.UpdateRequest) (*domain.Task, error) {
	t, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	caller := strings.ToLower(strings.TrimSpace(callerEmail))
	if !membershipdomain.CanManageWork(callerRole) {
		// Executors may only move the status of their own tasks.
		ownTask := t.AssigneeEmail != nil && *t.AssigneeEmail == caller
		statusOnly := req.Title == nil && req.Description == nil &&
			req.AssigneeEmail == nil && req.DueAt == nil
		if callerRole != membershipdomain.RoleExecutor || !ownTask || !statusOnly {
			return nil, domain.ErrForbidden
		}
	}

	prevAssignee := ""
	if t.AssigneeEmail != nil {
		prevAssignee = *t.AssigneeEmail
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if utf8.RuneCountInString(title) < minTitleLen {
			return nil, domain.ErrInvalidTitle
		}
		t.Title = title
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		t.Status = *req.Status
	}
	if req.AssigneeEmail != nil {
		if assignee := strings.ToLower(strings.TrimSpace(*req.AssigneeEmail)); assignee != "" {
			t.AssigneeEmail = &assignee
		} else {
			t.AssigneeEmail = nil
		}
	}
	if req.DueAt != nil {
		t.DueAt = req.DueAt
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *t); err != nil {
		return nil, err
	}

	if t.AssigneeEmail != nil && *t.AssigneeEmail != prevAssignee && *t.AssigneeEmail != caller {
		project, err := s.projects.Get(ctx, orgID, t.ProjectID)
		projectName := ""
		if err == nil {
			projectName = project.Name
		}
		s.notifyAssigned(ctx, *t, projectName)
	}
	return t, nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, filter domain.ListFilter) ([]domain.Task, error) {
	if filter.Status != "" && !domain.ValidStatus(filter.Status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, orgID, filter)
}

// notifyAssigned is best effort: a delivery failure never fails the task
// write.
func (s *service) notifyAssigned(ctx context.Context, t domain.Task, projectName string) {
	body := t.Title
	if projectName != "" {
		body = fmt.Sprintf("%s — %s", projectName, t.Title)
	}
	err := s.notifications.Notify(ctx, notificationdomain.CreateRequest{
		OrgID:          t.OrgID,
		RecipientEmail: *t.AssigneeEmail,
		Kind:           notificationdomain.KindTaskAssigned,
		Title:          "Вам назначена задача",
		Body:           body,
	})
	if err != nil {
		s.logger.Warn("task assignment notification failed",
			zap.String("task_id", t.ID.String()),
			zap.Error(err),
		)
	}
}
