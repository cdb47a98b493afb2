package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/notification/domain"
	"github.com/fieldops-app/fieldops/internal/notification/hub"
)

type service struct {
	repo  domain.Repository
	hub   *hub.Hub
	genID *snowflake.Node
}

func NewService(repo domain.Repository, h *hub.Hub, genID *snowflake.Node) domain.Service {
	return &service{repo: repo, hub: h, genID: genID}
}

func (s *service) Notify(ctx context.Context, req domain.CreateRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.RecipientEmail))
	if req.OrgID == 0 || email == "" || strings.TrimSpace(req.Kind) == "" {
		return domain.ErrInvalidRequest
	}

	n := domain.Notification{
		ID:             s.genID.Generate(),
		OrgID:          req.OrgID,
		RecipientEmail: email,
		Kind:           req.Kind,
		Title:          strings.TrimSpace(req.Title),
		Body:           strings.TrimSpace(req.Body),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, n); err != nil {
		return err
	}

	s.hub.Publish(email, hub.Event{
		ID:        n.ID.String(),
		OrgID:     n.OrgID.String(),
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
	})

	return nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID, recipientEmail string, unreadOnly bool) ([]domain.Response, error) {
	items, err := s.repo.List(ctx, orgID, recipientEmail, unreadOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, n := range items {
		resp = append(resp, domain.Response{
			ID:        n.ID.String(),
			OrgID:     n.OrgID.String(),
			Kind:      n.Kind,
			Title:     n.Title,
			Body:      n.Body,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, orgID, id snowflake.ID, recipientEmail string) error {
	updated, err := s.repo.MarkRead(ctx, orgID, id, recipientEmail)
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}
