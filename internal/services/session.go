// Package services implements the terminal's command surface: login,
// download and upload synchronization, quick check-in, and local data
// commands. All commands operate on the local store and (for sync) the
// remote client; they never call each other.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/dmoura/eventgate/internal/logging"
	"github.com/dmoura/eventgate/internal/remote"
	"github.com/golang-jwt/jwt/v5"
)

// Session is an explicit admin credential passed into every sync command.
// It replaces any global token holder: callers own the value and may hold
// several concurrently.
type Session struct {
	Token string
	User  remote.User
}

func (s *Session) validate() error {
	if s == nil || s.Token == "" {
		return fmt.Errorf("%w: missing session", common.ErrUnauthorized)
	}
	return nil
}

// AuthService authenticates the terminal operator against the remote server.
type AuthService interface {
	// Login exchanges operator credentials for a Session. Identities
	// without admin scope are rejected.
	Login(ctx context.Context, username, password string) (*Session, error)

	// Ping probes server reachability.
	Ping(ctx context.Context) error
}

type authService struct {
	client remote.Client
	log    logging.Logger
}

func NewAuthService(client remote.Client, log logging.Logger) AuthService {
	return &authService{client: client, log: log}
}

func (a *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	token, user, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: server returned no token", common.ErrUnauthorized)
	}
	if user.Role != "admin" {
		return nil, fmt.Errorf("%w: admin scope required", common.ErrUnauthorized)
	}
	if err := checkTokenExpiry(token, time.Now()); err != nil {
		return nil, err
	}

	a.log.Info(ctx, "operator logged in", "user", user.Email)
	return &Session{Token: token, User: user}, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// checkTokenExpiry inspects the token's registered claims without verifying
// the signature; verification is the server's job, but handing out a session
// that is already expired would only fail later with a worse message.
// Tokens that are not JWTs are accepted as opaque.
func checkTokenExpiry(token string, now time.Time) error {
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return nil
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return fmt.Errorf("%w: token already expired", common.ErrUnauthorized)
	}
	return nil
}
