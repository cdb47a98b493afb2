package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	notificationdomain "github.com/fieldops-app/fieldops/internal/notification/domain"
	projectdomain "github.com/fieldops-app/fieldops/internal/project/domain"
	"github.com/fieldops-app/fieldops/internal/providers/storage"
	"github.com/fieldops-app/fieldops/internal/report/domain"
	"github.com/fieldops-app/fieldops/internal/report/exifmeta"
	"github.com/fieldops-app/fieldops/internal/report/stamp"
	taskdomain "github.com/fieldops-app/fieldops/internal/task/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxPhotoBytes caps one upload at 20 MiB.
const maxPhotoBytes = 20 << 20

type service struct {
	repo          domain.Repository
	projects      projectdomain.Repository
	tasks         taskdomain.Repository
	store         storage.Storage
	notifications notificationdomain.Service
	genID         *snowflake.Node
	logger        *zap.Logger
}

func NewService(
	repo domain.Repository,
	projects projectdomain.Repository,
	tasks taskdomain.Repository,
	store storage.Storage,
	notifications notificationdomain.Service,
	genID *snowflake.Node,
	logger *zap.Logger,
) domain.Service {
	return &service{
		repo:          repo,
		projects:      projects,
		tasks:         tasks,
		store:         store,
		notifications: notifications,
		genID:         genID,
		logger:        logger,
	}
}

func (s *service) Create(ctx context.Context, callerEmail string, orgID snowflake.ID, orgName string, req domain.CreateRequest, photo io.Reader) (*domain.Report, error) {
	raw, err := io.ReadAll(io.LimitReader(photo, maxPhotoBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || len(raw) > maxPhotoBytes {
		return nil, domain.ErrInvalidImage
	}

	var projectName string
	var projectID *snowflake.ID
	if v := strings.TrimSpace(req.ProjectID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidProject
		}
		p, err := s.projects.Get(ctx, orgID, id)
		if err != nil {
			return nil, domain.ErrInvalidProject
		}
		projectID = &p.ID
		projectName = p.Name
	}

	var task *taskdomain.Task
	var taskID *snowflake.ID
	if v := strings.TrimSpace(req.TaskID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidTask
		}
		task, err = s.tasks.Get(ctx, orgID, id)
		if err != nil {
			return nil, domain.ErrInvalidTask
		}
		taskID = &task.ID
	}

	meta := exifmeta.Extract(bytes.NewReader(raw))

	caption := strings.TrimSpace(req.Caption)
	stamped, err := stamp.JPEG(raw, captionLines(orgName, projectName, caption, meta))
	if err != nil {
		return nil, domain.ErrInvalidImage
	}

	key := uuid.NewString()
	objectKey := fmt.Sprintf("reports/%s.jpg", key)
	stampedKey := fmt.Sprintf("reports/%s_stamped.jpg", key)
	if err := s.store.Save(ctx, objectKey, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, stampedKey, bytes.NewReader(stamped)); err != nil {
		return nil, err
	}

	rep := domain.Report{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		ProjectID:   projectID,
		TaskID:      taskID,
		AuthorEmail: strings.ToLower(strings.TrimSpace(callerEmail)),
		ObjectKey:   objectKey,
		StampedKey:  stampedKey,
		Lat:         meta.Lat,
		Lon:         meta.Lon,
		TakenAt:     meta.TakenAt,
		Caption:     caption,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	if task != nil && task.CreatedByEmail != rep.AuthorEmail {
		s.notifyCreated(ctx, rep, task.CreatedByEmail, task.Title)
	}
	return &rep, nil
}

func (s *service) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Report, error) {
	return s.repo.Get(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, projectID snowflake.ID) ([]domain.Report, error) {
	return s.repo.List(ctx, orgID, projectID)
}

func (s *service) OpenStamped(ctx context.Context, orgID, id snowflake.ID) (io.ReadCloser, error) {
	rep, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	return s.store.Open(ctx, rep.StampedKey)
}

func captionLines(orgName, projectName, caption string, meta exifmeta.Meta) []string {
	lines := make([]string, 0, 4)
	header := orgName
	if projectName != "" {
		header = fmt.Sprintf("%s / %s", orgName, projectName)
	}
	if header != "" {
		lines = append(lines, header)
	}
	if caption != "" {
		lines = append(lines, caption)
	}
	if meta.TakenAt != nil {
		lines = append(lines, meta.TakenAt.Format("2006-01-02 15:04:05 UTC"))
	}
	if meta.Lat != nil && meta.Lon != nil {
		lines = append(lines, fmt.Sprintf("%.6f, %.6f", *meta.Lat, *meta.Lon))
	}
	return lines
}

// notifyCreated is best effort: a delivery failure never fails the upload.
func (s *service) notifyCreated(ctx context.Context, rep domain.Report, recipient, taskTitle string) {
	err := s.notifications.Notify(ctx, notificationdomain.CreateRequest{
		OrgID:          rep.OrgID,
		RecipientEmail: recipient,
		Kind:           notificationdomain.KindReportCreated,
		Title:          "Новый фотоотчёт по задаче",
		Body:           taskTitle,
	})
	if err != nil {
		s.logger.Warn("report notification failed",
			zap.String("report_id", rep.ID.String()),
			zap.Error(err),
		)
	}
}
