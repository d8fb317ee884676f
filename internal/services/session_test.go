package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/dmoura/eventgate/internal/remote"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "op",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	s, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestLogin_ReturnsSession(t *testing.T) {
	svc := NewAuthService(&fakeClient{}, nopLog())

	sess, err := svc.Login(context.Background(), "op@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.Token)
	assert.Equal(t, "admin", sess.User.Role)
}

func TestLogin_ValidatesInput(t *testing.T) {
	svc := NewAuthService(&fakeClient{}, nopLog())
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "pw")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Login(ctx, "op@example.org", "")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestLogin_RejectsNonAdmin(t *testing.T) {
	client := &fakeClient{
		loginFn: func(username, password string) (string, remote.User, error) {
			return "tok", remote.User{ID: 2, Email: username, Role: "participant"}, nil
		},
	}
	svc := NewAuthService(client, nopLog())

	_, err := svc.Login(context.Background(), "user@example.org", "pw")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogin_RejectsEmptyToken(t *testing.T) {
	client := &fakeClient{
		loginFn: func(username, password string) (string, remote.User, error) {
			return "", remote.User{Role: "admin"}, nil
		},
	}
	svc := NewAuthService(client, nopLog())

	_, err := svc.Login(context.Background(), "op@example.org", "pw")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogin_PropagatesServerError(t *testing.T) {
	client := &fakeClient{
		loginFn: func(username, password string) (string, remote.User, error) {
			return "", remote.User{}, errors.New("bad credentials")
		},
	}
	svc := NewAuthService(client, nopLog())

	_, err := svc.Login(context.Background(), "op@example.org", "wrong")
	require.Error(t, err)
}

func TestLogin_RejectsExpiredJWT(t *testing.T) {
	expired := signedToken(t, time.Now().Add(-time.Hour))
	client := &fakeClient{
		loginFn: func(username, password string) (string, remote.User, error) {
			return expired, remote.User{Role: "admin"}, nil
		},
	}
	svc := NewAuthService(client, nopLog())

	_, err := svc.Login(context.Background(), "op@example.org", "pw")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogin_AcceptsFreshJWT(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{
		loginFn: func(username, password string) (string, remote.User, error) {
			return fresh, remote.User{Role: "admin"}, nil
		},
	}
	svc := NewAuthService(client, nopLog())

	sess, err := svc.Login(context.Background(), "op@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, fresh, sess.Token)
}

func TestLogin_AcceptsOpaqueToken(t *testing.T) {
	// non-JWT tokens carry no inspectable claims and pass through
	err := checkTokenExpiry("not-a-jwt", time.Now())
	require.NoError(t, err)
}

func TestPing_DelegatesToClient(t *testing.T) {
	svc := NewAuthService(&fakeClient{pingErr: common.ErrUnavailable}, nopLog())
	require.ErrorIs(t, svc.Ping(context.Background()), common.ErrUnavailable)

	svc = NewAuthService(&fakeClient{}, nopLog())
	require.NoError(t, svc.Ping(context.Background()))
}
