package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/config"
	identitydomain "github.com/fieldops-app/fieldops/internal/identity/domain"
	"github.com/fieldops-app/fieldops/internal/membership/domain"
	membershiprepo "github.com/fieldops-app/fieldops/internal/membership/repository"
	notificationdomain "github.com/fieldops-app/fieldops/internal/notification/domain"
	subscriptiondomain "github.com/fieldops-app/fieldops/internal/subscription/domain"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type identityStub struct {
	users map[string]*identitydomain.User
}

func (s *identityStub) Resolve(ctx context.Context, rawToken string) (*identitydomain.User, error) {
	return nil, identitydomain.ErrInvalidToken
}

func (s *identityStub) GetByEmail(ctx context.Context, email string) (*identitydomain.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, identitydomain.ErrUserNotFound
}

func (s *identityStub) IssueSocketTicket(user *identitydomain.User) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func (s *identityStub) VerifySocketTicket(rawTicket string) (string, error) {
	return "", identitydomain.ErrInvalidTicket
}

type subscriptionStub struct {
	seats    int
	projects int
}

func (s *subscriptionStub) GetByOrg(ctx context.Context, orgID snowflake.ID) (*subscriptiondomain.Response, error) {
	return nil, subscriptiondomain.ErrNotFound
}

func (s *subscriptionStub) Update(ctx context.Context, orgID snowflake.ID, req subscriptiondomain.UpdateRequest) (*subscriptiondomain.Response, error) {
	return nil, subscriptiondomain.ErrNotFound
}

func (s *subscriptionStub) SeatLimit(ctx context.Context, orgID snowflake.ID) (int, error) {
	return s.seats, nil
}

func (s *subscriptionStub) ProjectsLimit(ctx context.Context, orgID snowflake.ID) (int, error) {
	return s.projects, nil
}

type notificationStub struct {
	sent []notificationdomain.CreateRequest
}

func (s *notificationStub) Notify(ctx context.Context, req notificationdomain.CreateRequest) error {
	s.sent = append(s.sent, req)
	return nil
}

func (s *notificationStub) List(ctx context.Context, orgID snowflake.ID, recipientEmail string, unreadOnly bool) ([]notificationdomain.Response, error) {
	return nil, nil
}

func (s *notificationStub) MarkRead(ctx context.Context, orgID, id snowflake.ID, recipientEmail string) error {
	return nil
}

type fixture struct {
	svc      domain.Service
	repo     domain.Repository
	db       *gorm.DB
	node     *snowflake.Node
	orgID    snowflake.ID
	org      domain.Org
	notified *notificationStub
}

func setup(t *testing.T, seats int, registered ...string) *fixture {
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
	if err := db.AutoMigrate(&domain.Membership{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	users := make(map[string]*identitydomain.User, len(registered))
	for _, email := range registered {
		users[email] = &identitydomain.User{ID: node.Generate(), Email: email, Name: "User " + email}
	}

	repo := membershiprepo.NewRepository(db)
	notified := &notificationStub{}
	svc := NewService(
		config.Config{BaseURL: "http://fieldops.test"},
		repo,
		&identityStub{users: users},
		&subscriptionStub{seats: seats, projects: 10},
		notified,
		nil,
		node,
		zap.NewNop(),
	)

	orgID := node.Generate()
	return &fixture{
		svc:      svc,
		repo:     repo,
		db:       db,
		node:     node,
		orgID:    orgID,
		org:      domain.Org{ID: orgID, Slug: "demo"},
		notified: notified,
	}
}

func (f *fixture) seedMember(t *testing.T, email, role, status string) domain.Membership {
	t.Helper()
	m := domain.Membership{
		ID:        f.node.Generate(),
		OrgID:     f.orgID,
		UserEmail: email,
		Role:      role,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.repo.Insert(context.Background(), m); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func (f *fixture) memberRows(t *testing.T) []domain.Membership {
	t.Helper()
	rows, err := f.repo.List(context.Background(), f.orgID, domain.ListFilter{})
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	return rows
}

func TestInviteCreatesInvitedRow(t *testing.T) {
	f := setup(t, 10, "guest@example.com")
	f.seedMember(t, "owner@example.com", domain.RoleOwner, domain.StatusActive)

	res, err := f.svc.Invite(context.Background(), "owner@example.com", f.org, domain.InviteRequest{
		UserEmail: "guest@example.com",
	})
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	if res.Role != domain.RoleExecutor {
		t.Fatalf("expected default role executor, got %s", res.Role)
	}
	if res.InviteURL == "" || res.ExpiresAt.Before(time.Now()) {
		t.Fatalf("bad invite result: %+v", res)
	}

	m, err := f.repo.Get(context.Background(), f.orgID, "guest@example.com")
	if err != nil {
		t.Fatalf("get invited: %v", err)
	}
	if m.Status != domain.StatusInvited || m.InviteToken == nil {
		t.Fatalf("expected invited row with token, got %+v", m)
	}
	if len(f.notified.sent) != 1 || f.notified.sent[0].Kind != notificationdomain.KindMemberInvited {
		t.Fatalf("expected one member.invited notification, got %+v", f.notified.sent)
	}
}

func TestInviteRequiresRegisteredUser(t *testing.T) {
	f := setup(t, 10)
	f.seedMember(t, "owner@example.com", domain.RoleOwner, domain.StatusActive)

	_, err := f.svc.Invite(context.Background(), "owner@example.com", f.org, domain.InviteRequest{
		UserEmail: "stranger@example.com",
	})
	if !errors.Is(err, domain.ErrEmailNotRegistered) {
		t.Fatalf("expected ErrEmailNotRegistered, got %v", err)
	}
}

func TestInviteForbiddenForViewer(t *testing.T) {
	f := setup(t, 10, "guest@example.com")
	f.seedMember(t, "viewer@example.com", domain.RoleViewer, domain.StatusActive)

	_, err := f.svc.Invite(context.Background(), "viewer@example.com", f.org, domain.InviteRequest{
		UserEmail: "guest@example.com",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestInviteTwiceKeepsOneRow(t *testing.T) {
	f := setup(t, 10, "guest@example.com")
	f.seedMember(t, "owner@example.com", domain.RoleOwner, domain.StatusActive)

	first, err := f.svc.Invite(context.Background(), "owner@example.com", f.org, domain.InviteRequest{
		UserEmail: "guest@example.com",
	})
	if err != nil {
		t.Fatalf("first invite: %v", err)
	}
	second, err := f.svc.Invite(context.Background(), "owner@example.com", f.org, domain.InviteRequest{
		UserEmail: "guest@example.com",
		Role:      domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("second invite: %v", err)
	}
	if first.InviteURL == second.InviteURL {
		t.Fatalf("expected the second invite to rotate the token")
	}

	rows := f.memberRows(t)
	if len(rows) != 2 { // owner + the single invited row
		t.Fatalf("expected 2 membership rows, got %d", len(rows))
	}
	m, err := f.repo.Get(context.Background(), f.orgID, "guest@example.com")
	if err != nil {
		t.Fatalf("get invited: %v", err)
	}
	if m.Role != domain.RoleManager {
		t.Fatalf("expected refreshed role manager, got %s", m.Role)
	}
}

func inviteToken(t *testing.T, f *fixture, email string) string {
	t.Helper()
	m, err := f.repo.Get(context.Background(), f.orgID, email)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m.InviteToken == nil {
		t.Fatalf("member %s has no invite token", email)
	}
	return *m.InviteToken
}

func TestAcceptWrongAccountLooksLikeBadToken(t *testing.T) {
	f := setup(t, 10, "guest@example.com")
	f.seedMember(t, "owner@example.com", domain.RoleOwner, domain.StatusActive)
	if _, err := f.svc.Invite(context.Background(), "owner@example.com", f.org, domain.InviteRequest{
		UserEmail: "guest@example.com",
	}); err != nil {
		t.Fatalf("invite: %v", err)
	}

	err := f.svc.Accept(context.Background(), "other@example.com", f.org, inviteToken(t, f, "guest@example.com"))
	if !errors.Is(err, domain.ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound for wrong account, got %v", err)
	}
}

func TestAcceptExpiredToken(t *testing.T) {
	f := setup(t, 10, "guest@example.com")
	f.seedMember(t, "owner@example.com", domain.RoleOwner, domain.StatusActive)
	if _, err := f.svc.Invite(context.Background(), "owner@example.com", f.org, domain.InviteRequest{
		UserEmail: "guest@example.com",
	}); err != nil {
		t.Fatalf("invite: %v", err)
	}

	past := time.Now().UTC().Add(-time.Hour)
	if err := f.db.Model(&domain.Membership{}).
		Where("org_id = ? AND user_email = ?", f.orgID, "guest@example.com").
		Update("invite_expires_at", past).Error; err != nil {
		t.Fatalf("expire invite: %v", err)
	}

	err := f.svc.Accept(context.Background(), "guest@example.com", f.org, inviteToken(t, f, "guest@example.com"))
	if !errors.Is(err, domain.ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound for expired token, got %v", err)
	}
}

func TestAcceptActivatesAndClearsToken(t *testing.T) {
	f := setup(t, 10, "guest@example.com")
	f.seedMember(t, "owner@example.com", domain.RoleOwner, domain.StatusActive)
	if _, err := f.svc.Invite(context.Background(), "owner@example.com", f.org, domain.InviteRequest{
		UserEmail: "guest@example.com",
	}); err != nil {
		t.Fatalf("invite: %v", err)
	}

	token := inviteToken(t, f, "guest@example.com")
	if err := f.svc.Accept(context.Background(), "guest@example.com", f.org, token); err != nil {
		t.Fatalf("accept: %v", err)
	}

	m, err := f.repo.Get(context.Background(), f.orgID, "guest@example.com")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m.Status != domain.StatusActive {
		t.Fatalf("expected active status, got %s", m.Status)
	}
	if m.InviteToken != nil || m.InviteExpiresAt != nil {
		t.Fatalf("expected cleared invite fields, got %+v", m)
	}

	// A used token cannot be replayed.
	err = f.svc.Accept(context.Background(), "guest@example.com", f.org, token)
	if !errors.Is(err, domain.ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound on replay, got %v", err)
	}

	joined := f.notified.sent[len(f.notified.sent)-1]
	if joined.Kind != notificationdomain.KindMemberJoined || joined.RecipientEmail != "owner@example.com" {
		t.Fatalf("expected member.joined for the inviter, got %+v", joined)
	}
}

func TestAcceptSeatLimitKeepsInvitedRow(t *testing.T) {
	f := setup(t, 1, "guest@example.com")
	f.seedMember(t, "owner@example.com", domain.RoleOwner, domain.StatusActive)

	// Inviting past the limit is allowed; only activation claims a seat.
	if _, err := f.svc.Invite(context.Background(), "owner@example.com", f.org, domain.InviteRequest{
		UserEmail: "guest@example.com",
	}); err != nil {
		t.Fatalf("invite: %v", err)
	}

	err := f.svc.Accept(context.Background(), "guest@example.com", f.org, inviteToken(t, f, "guest@example.com"))
	var seatErr *domain.SeatLimitError
	if !errors.As(err, &seatErr) {
		t.Fatalf("expected SeatLimitError, got %v", err)
	}
	if seatErr.Used != 1 || seatErr.Limit != 1 {
		t.Fatalf("expected 1/1, got %d/%d", seatErr.Used, seatErr.Limit)
	}

	m, err := f.repo.Get(context.Background(), f.orgID, "guest@example.com")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m.Status != domain.StatusInvited || m.InviteToken == nil {
		t.Fatalf("seat failure must keep the invited row intact, got %+v", m)
	}
}

func TestDeclineIsPermanent(t *testing.T) {
	f := setup(t, 10, "guest@example.com")
	f.seedMember(t, "owner@example.com", domain.RoleOwner, domain.StatusActive)
	if _, err := f.svc.Invite(context.Background(), "owner@example.com", f.org, domain.InviteRequest{
		UserEmail: "guest@example.com",
	}); err != nil {
		t.Fatalf("invite: %v", err)
	}

	token := inviteToken(t, f, "guest@example.com")
	if err := f.svc.Decline(context.Background(), f.org, token); err != nil {
		t.Fatalf("decline: %v", err)
	}

	if _, err := f.repo.Get(context.Background(), f.orgID, "guest@example.com"); !errors.Is(err, domain.ErrNotMember) {
		t.Fatalf("expected the row gone after decline, got %v", err)
	}
	if err := f.svc.Decline(context.Background(), f.org, token); !errors.Is(err, domain.ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound on second decline, got %v", err)
	}
	if err := f.svc.Accept(context.Background(), "guest@example.com", f.org, token); !errors.Is(err, domain.ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound accepting a declined token, got %v", err)
	}
}

func TestActivateIsIdempotentForActiveMember(t *testing.T) {
	f := setup(t, 10)
	f.seedMember(t, "member@example.com", domain.RoleExecutor, domain.StatusActive)

	alreadyActive, err := f.svc.Activate(context.Background(), "member@example.com", f.org)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !alreadyActive {
		t.Fatalf("expected alreadyActive for an active member")
	}
}

func TestActivateClaimsSeatForInvitedMember(t *testing.T) {
	f := setup(t, 10)
	f.seedMember(t, "invited@example.com", domain.RoleExecutor, domain.StatusInvited)

	alreadyActive, err := f.svc.Activate(context.Background(), "invited@example.com", f.org)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if alreadyActive {
		t.Fatalf("did not expect alreadyActive for an invited member")
	}

	m, err := f.repo.Get(context.Background(), f.orgID, "invited@example.com")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m.Status != domain.StatusActive {
		t.Fatalf("expected active, got %s", m.Status)
	}
}

func TestDirectAddKeepsExistingRowUntouched(t *testing.T) {
	f := setup(t, 10, "member@example.com")
	f.seedMember(t, "admin@example.com", domain.RoleOrgAdmin, domain.StatusActive)
	f.seedMember(t, "member@example.com", domain.RoleViewer, domain.StatusActive)

	resp, err := f.svc.DirectAdd(context.Background(), "admin@example.com", f.org, domain.AddRequest{
		UserEmail: "member@example.com",
		Role:      domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("direct add: %v", err)
	}
	if resp.Role != domain.RoleViewer {
		t.Fatalf("existing row must keep its role, got %s", resp.Role)
	}
}

func TestDirectAddSeatLimit(t *testing.T) {
	f := setup(t, 1, "member@example.com")
	f.seedMember(t, "admin@example.com", domain.RoleOrgAdmin, domain.StatusActive)

	_, err := f.svc.DirectAdd(context.Background(), "admin@example.com", f.org, domain.AddRequest{
		UserEmail: "member@example.com",
	})
	var seatErr *domain.SeatLimitError
	if !errors.As(err, &seatErr) {
		t.Fatalf("expected SeatLimitError, got %v", err)
	}
}

func TestDirectAddRequiresAdmin(t *testing.T) {
	f := setup(t, 10, "member@example.com")
	f.seedMember(t, "manager@example.com", domain.RoleManager, domain.StatusActive)

	_, err := f.svc.DirectAdd(context.Background(), "manager@example.com", f.org, domain.AddRequest{
		UserEmail: "member@example.com",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager, got %v", err)
	}
}

func TestListRejectsUnknownFilters(t *testing.T) {
	f := setup(t, 5)
	f.seedMember(t, "owner@example.com", domain.RoleOwner, domain.StatusActive)

	_, err := f.svc.List(context.Background(), "owner@example.com", f.org, domain.ListFilter{Status: "pending"})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for a bad status filter, got %v", err)
	}

	_, err = f.svc.List(context.Background(), "owner@example.com", f.org, domain.ListFilter{Role: "superuser"})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for a bad role filter, got %v", err)
	}
}
