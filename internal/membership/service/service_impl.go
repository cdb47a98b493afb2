package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/config"
	identitydomain "github.com/fieldops-app/fieldops/internal/identity/domain"
	"github.com/fieldops-app/fieldops/internal/membership/domain"
	notificationdomain "github.com/fieldops-app/fieldops/internal/notification/domain"
	"github.com/fieldops-app/fieldops/internal/ratelimit"
	subscriptiondomain "github.com/fieldops-app/fieldops/internal/subscription/domain"
	dbutil "github.com/fieldops-app/fieldops/pkg/db"
	"go.uber.org/zap"
)

const (
	inviteTokenBytes = 20
	inviteTTL        = 7 * 24 * time.Hour
)

type service struct {
	baseURL       string
	repo          domain.Repository
	identitySvc   identitydomain.Service
	subscriptions subscriptiondomain.Service
	notifications notificationdomain.Service
	limiter       *ratelimit.InviteLimiter
	genID         *snowflake.Node
	log           *zap.Logger
}

func NewService(
	cfg config.Config,
	repo domain.Repository,
	identitySvc identitydomain.Service,
	subscriptions subscriptiondomain.Service,
	notifications notificationdomain.Service,
	limiter *ratelimit.InviteLimiter,
	genID *snowflake.Node,
	log *zap.Logger,
) domain.Service {
	return &service{
		baseURL:       cfg.BaseURL,
		repo:          repo,
		identitySvc:   identitySvc,
		subscriptions: subscriptions,
		notifications: notifications,
		limiter:       limiter,
		genID:         genID,
		log:           log,
	}
}

func (s *service) Invite(ctx context.Context, callerEmail string, org domain.Org, req domain.InviteRequest) (*domain.InviteResult, error) {
	callerRole, err := s.activeRole(ctx, org.ID, callerEmail)
	if err != nil {
		return nil, err
	}
	if !domain.CanInvite(callerRole) {
		return nil, domain.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(req.UserEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	role := strings.TrimSpace(req.Role)
	if role != "" && !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.identitySvc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			return nil, domain.ErrEmailNotRegistered
		}
		return nil, err
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, org.ID.String())
		if err != nil {
			s.log.Warn("invite rate limiter unavailable, allowing", zap.Error(err))
		} else if !allowed {
			return nil, domain.ErrRateLimited
		}
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().UTC().Add(inviteTTL)

	existing, err := s.repo.Get(ctx, org.ID, email)
	switch {
	case err == nil:
		if role == "" {
			role = existing.Role
		}
		if err := s.repo.SetInvite(ctx, existing.ID, role, callerEmail, token, expiresAt); err != nil {
			return nil, err
		}
	case errors.Is(err, domain.ErrNotMember):
		if role == "" {
			role = domain.RoleExecutor
		}
		fresh := domain.Membership{
			ID:              s.genID.Generate(),
			OrgID:           org.ID,
			UserEmail:       email,
			UserName:        user.Name,
			Role:            role,
			Status:          domain.StatusInvited,
			InviteToken:     &token,
			InviteExpiresAt: &expiresAt,
			InvitedByEmail:  strings.ToLower(callerEmail),
			CreatedAt:       time.Now().UTC(),
		}
		if err := s.repo.Insert(ctx, fresh); err != nil {
			// Concurrent invite for the same (org,email) pair: fall back to a
			// refresh of the row that won.
			if dbutil.IsDuplicateKeyErr(err) {
				won, getErr := s.repo.Get(ctx, org.ID, email)
				if getErr != nil {
					return nil, getErr
				}
				if err := s.repo.SetInvite(ctx, won.ID, role, callerEmail, token, expiresAt); err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
	default:
		return nil, err
	}

	s.notify(ctx, notificationdomain.CreateRequest{
		OrgID:          org.ID,
		RecipientEmail: email,
		Kind:           notificationdomain.KindMemberInvited,
		Title:          "Приглашение в организацию",
		Body:           fmt.Sprintf("Вас пригласили в организацию «%s»", org.Slug),
	})

	return &domain.InviteResult{
		InviteURL: fmt.Sprintf("%s/org/%s/invite/%s", s.baseURL, org.Slug, token),
		ExpiresAt: expiresAt,
		Role:      role,
	}, nil
}

func (s *service) Accept(ctx context.Context, callerEmail string, org domain.Org, token string) error {
	m, err := s.findInvite(ctx, org.ID, token)
	if err != nil {
		return err
	}

	// Wrong account gets the same answer as a bad token: nothing about the
	// invite's state leaks to an unrelated caller.
	if m.UserEmail != strings.ToLower(strings.TrimSpace(callerEmail)) {
		return domain.ErrInviteNotFound
	}

	if !domain.CanTransition(m.Status, domain.StatusActive) {
		return domain.ErrInviteNotFound
	}

	if err := s.claimSeat(ctx, m.ID, org.ID); err != nil {
		return err
	}

	if m.InvitedByEmail != "" {
		s.notify(ctx, notificationdomain.CreateRequest{
			OrgID:          org.ID,
			RecipientEmail: m.InvitedByEmail,
			Kind:           notificationdomain.KindMemberJoined,
			Title:          "Участник присоединился",
			Body:           fmt.Sprintf("%s принял приглашение в «%s»", m.UserEmail, org.Slug),
		})
	}

	return nil
}

func (s *service) Decline(ctx context.Context, org domain.Org, token string) error {
	m, err := s.findInvite(ctx, org.ID, token)
	if err != nil {
		return err
	}
	if !domain.CanTransition(m.Status, domain.StatusDeleted) {
		return domain.ErrInviteNotFound
	}
	return s.repo.Delete(ctx, m.ID)
}

func (s *service) Activate(ctx context.Context, callerEmail string, org domain.Org) (bool, error) {
	m, err := s.repo.Get(ctx, org.ID, strings.ToLower(strings.TrimSpace(callerEmail)))
	if err != nil {
		return false, err
	}

	if m.Status == domain.StatusActive {
		return true, nil
	}
	if !domain.CanTransition(m.Status, domain.StatusActive) {
		return false, domain.ErrNotMember
	}

	if err := s.claimSeat(ctx, m.ID, org.ID); err != nil {
		return false, err
	}
	return false, nil
}

func (s *service) DirectAdd(ctx context.Context, callerEmail string, org domain.Org, req domain.AddRequest) (*domain.MemberResponse, error) {
	callerRole, err := s.activeRole(ctx, org.ID, callerEmail)
	if err != nil {
		return nil, err
	}
	if !domain.CanAdminMembers(callerRole) {
		return nil, domain.ErrForbidden
	}

	email := strings.ToLower(strings.TrimSpace(req.UserEmail))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleExecutor
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.identitySvc.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identitydomain.ErrUserNotFound) {
			return nil, domain.ErrEmailNotRegistered
		}
		return nil, err
	}

	// Insert-only semantics: an existing row keeps its role, name and status.
	existing, err := s.repo.Get(ctx, org.ID, email)
	if err == nil {
		return toMemberResponse(existing), nil
	}
	if !errors.Is(err, domain.ErrNotMember) {
		return nil, err
	}

	avail, err := s.EnsureSeatAvailable(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	if !avail.OK {
		return nil, &domain.SeatLimitError{Used: avail.Used, Limit: avail.Limit}
	}

	name := strings.TrimSpace(req.UserName)
	if name == "" {
		name = user.Name
	}
	fresh := domain.Membership{
		ID:        s.genID.Generate(),
		OrgID:     org.ID,
		UserEmail: email,
		UserName:  name,
		Role:      role,
		Status:    domain.StatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, fresh); err != nil {
		if dbutil.IsDuplicateKeyErr(err) {
			won, getErr := s.repo.Get(ctx, org.ID, email)
			if getErr != nil {
				return nil, getErr
			}
			return toMemberResponse(won), nil
		}
		return nil, err
	}

	return toMemberResponse(&fresh), nil
}

func (s *service) List(ctx context.Context, callerEmail string, org domain.Org, filter domain.ListFilter) ([]domain.MemberResponse, error) {
	if _, err := s.activeRole(ctx, org.ID, callerEmail); err != nil {
		return nil, err
	}

	if filter.Role != "" && !domain.ValidRole(filter.Role) {
		return nil, domain.ErrInvalidRole
	}
	if filter.Status != "" && filter.Status != domain.StatusActive && filter.Status != domain.StatusInvited {
		return nil, domain.ErrInvalidStatus
	}

	members, err := s.repo.List(ctx, org.ID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.MemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, *toMemberResponse(&members[i]))
	}
	return resp, nil
}

func (s *service) EnsureSeatAvailable(ctx context.Context, orgID snowflake.ID) (domain.SeatAvailability, error) {
	limit, err := s.subscriptions.SeatLimit(ctx, orgID)
	if err != nil {
		return domain.SeatAvailability{}, err
	}
	used, err := s.repo.CountActive(ctx, orgID)
	if err != nil {
		return domain.SeatAvailability{}, err
	}
	return domain.SeatAvailability{OK: used < limit, Limit: limit, Used: used}, nil
}

func (s *service) RoleOf(ctx context.Context, orgID snowflake.ID, email string) (string, error) {
	return s.activeRole(ctx, orgID, email)
}

func (s *service) activeRole(ctx context.Context, orgID snowflake.ID, email string) (string, error) {
	m, err := s.repo.Get(ctx, orgID, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if m.Status != domain.StatusActive {
		return "", domain.ErrNotMember
	}
	return m.Role, nil
}

// claimSeat performs the atomic conditional activation. The limit is read
// first, then the flip succeeds only while the active count stays below it.
func (s *service) claimSeat(ctx context.Context, id, orgID snowflake.ID) error {
	limit, err := s.subscriptions.SeatLimit(ctx, orgID)
	if err != nil {
		return err
	}

	granted, err := s.repo.ActivateIfSeatAvailable(ctx, id, orgID, limit)
	if err != nil {
		return err
	}
	if !granted {
		used, err := s.repo.CountActive(ctx, orgID)
		if err != nil {
			return err
		}
		return &domain.SeatLimitError{Used: used, Limit: limit}
	}
	return nil
}

func (s *service) findInvite(ctx context.Context, orgID snowflake.ID, token string) (*domain.Membership, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, domain.ErrInviteNotFound
	}
	return s.repo.FindInvited(ctx, orgID, trimmed, time.Now().UTC())
}

func (s *service) notify(ctx context.Context, req notificationdomain.CreateRequest) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.Notify(ctx, req); err != nil {
		s.log.Warn("failed to deliver notification",
			zap.String("kind", req.Kind),
			zap.String("recipient", req.RecipientEmail),
			zap.Error(err),
		)
	}
}

func toMemberResponse(m *domain.Membership) *domain.MemberResponse {
	return &domain.MemberResponse{
		ID:        m.ID.String(),
		UserEmail: m.UserEmail,
		UserName:  m.UserName,
		Role:      m.Role,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}

func newInviteToken() (string, error) {
	buf := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
