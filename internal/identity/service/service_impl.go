package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/config"
	"github.com/fieldops-app/fieldops/internal/identity/domain"
	"github.com/fieldops-app/fieldops/pkg/db"
	"github.com/golang-jwt/jwt/v5"
)

const socketTicketTTL = 60 * time.Second

type identityClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type ticketClaims struct {
	Email string `json:"email"`
	Use   string `json:"use"`
	jwt.RegisteredClaims
}

type service struct {
	secret []byte
	repo   domain.Repository
	genID  *snowflake.Node
}

func NewService(cfg config.Config, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{
		secret: []byte(cfg.AuthJWTSecret),
		repo:   repo,
		genID:  genID,
	}
}

func (s *service) Resolve(ctx context.Context, rawToken string) (*domain.User, error) {
	raw := strings.TrimSpace(rawToken)
	if raw == "" || len(s.secret) == 0 {
		return nil, domain.ErrInvalidToken
	}

	var claims identityClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	externalID := strings.TrimSpace(claims.Subject)
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if externalID == "" || email == "" {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	created := domain.User{
		ID:         s.genID.Generate(),
		ExternalID: externalID,
		Email:      email,
		Name:       strings.TrimSpace(claims.Name),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, created); err != nil {
		// Lost a first-sight race with a concurrent request for the same identity.
		if db.IsDuplicateKeyErr(err) {
			return s.repo.GetByExternalID(ctx, externalID)
		}
		return nil, err
	}

	return &created, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.GetByEmail(ctx, normalized)
}

func (s *service) IssueSocketTicket(user *domain.User) (string, time.Time, error) {
	if user == nil || len(s.secret) == 0 {
		return "", time.Time{}, domain.ErrInvalidTicket
	}

	now := time.Now().UTC()
	expiresAt := now.Add(socketTicketTTL)
	claims := &ticketClaims{
		Email: user.Email,
		Use:   "socket",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	ticket, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return ticket, expiresAt, nil
}

func (s *service) VerifySocketTicket(rawTicket string) (string, error) {
	raw := strings.TrimSpace(rawTicket)
	if raw == "" || len(s.secret) == 0 {
		return "", domain.ErrInvalidTicket
	}

	var claims ticketClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Use != "socket" {
		return "", domain.ErrInvalidTicket
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return "", domain.ErrInvalidTicket
	}
	return email, nil
}
