package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmoura/eventgate/internal/common"
	"github.com/dmoura/eventgate/internal/logging"
	"github.com/dmoura/eventgate/internal/models"
	"github.com/dmoura/eventgate/internal/repositories/checkins"
	"github.com/dmoura/eventgate/internal/repositories/events"
	"github.com/dmoura/eventgate/internal/repositories/subscriptions"
	"github.com/dmoura/eventgate/internal/repositories/users"
)

// CreateUserRequest registers a participant locally, to be uploaded later.
type CreateUserRequest struct {
	Name   string
	Email  string
	Secret string
}

// CreateSubscriptionRequest links a local user to a mirrored event.
type CreateSubscriptionRequest struct {
	UserLocalID   int64
	EventServerID int64
}

// CreateCheckinRequest marks attendance for a local subscription.
type CreateCheckinRequest struct {
	SubscriptionLocalID int64
}

// LocalData is everything the terminal shows on its local screen.
type LocalData struct {
	Users         []models.User
	Events        []models.Event
	Subscriptions []models.SubscriptionView
	Checkins      []models.Checkin
}

// LocalService creates and lists rows in the local store without touching
// the network.
type LocalService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (int64, error)
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (int64, error)
	CreateCheckin(ctx context.Context, req CreateCheckinRequest) (int64, error)
	FetchLocalData(ctx context.Context) (*LocalData, error)
}

type localService struct {
	db  *sql.DB
	log logging.Logger
}

func NewLocalService(db *sql.DB, log logging.Logger) LocalService {
	return &localService{db: db, log: log}
}

func (s *localService) CreateUser(ctx context.Context, req CreateUserRequest) (int64, error) {
	if strings.TrimSpace(req.Name) == "" {
		return 0, fmt.Errorf("%w: name is required", common.ErrValidation)
	}
	if !strings.Contains(req.Email, "@") {
		return 0, fmt.Errorf("%w: invalid email", common.ErrValidation)
	}
	if req.Secret == "" {
		return 0, fmt.Errorf("%w: secret is required", common.ErrValidation)
	}

	return users.NewSQLiteRepository(s.db).Insert(ctx, &models.User{
		Name:   strings.TrimSpace(req.Name),
		Email:  req.Email,
		Secret: req.Secret,
	})
}

func (s *localService) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (int64, error) {
	if req.UserLocalID <= 0 || req.EventServerID <= 0 {
		return 0, fmt.Errorf("%w: user and event are required", common.ErrValidation)
	}

	if _, err := users.NewSQLiteRepository(s.db).GetByID(ctx, req.UserLocalID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, fmt.Errorf("%w: unknown user %d", common.ErrValidation, req.UserLocalID)
		}
		return 0, err
	}
	if _, err := events.NewSQLiteRepository(s.db).Get(ctx, req.EventServerID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, fmt.Errorf("%w: unknown event %d", common.ErrValidation, req.EventServerID)
		}
		return 0, err
	}

	return subscriptions.NewSQLiteRepository(s.db).Insert(ctx, req.UserLocalID, req.EventServerID)
}

func (s *localService) CreateCheckin(ctx context.Context, req CreateCheckinRequest) (int64, error) {
	if req.SubscriptionLocalID <= 0 {
		return 0, fmt.Errorf("%w: subscription is required", common.ErrValidation)
	}

	if _, err := subscriptions.NewSQLiteRepository(s.db).GetByID(ctx, req.SubscriptionLocalID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, fmt.Errorf("%w: unknown subscription %d", common.ErrValidation, req.SubscriptionLocalID)
		}
		return 0, err
	}

	return checkins.NewSQLiteRepository(s.db).Insert(ctx, req.SubscriptionLocalID)
}

func (s *localService) FetchLocalData(ctx context.Context) (*LocalData, error) {
	data := &LocalData{}
	var err error

	if data.Users, err = users.NewSQLiteRepository(s.db).List(ctx); err != nil {
		return nil, err
	}
	if data.Events, err = events.NewSQLiteRepository(s.db).List(ctx); err != nil {
		return nil, err
	}
	if data.Subscriptions, err = subscriptions.NewSQLiteRepository(s.db).ListViews(ctx); err != nil {
		return nil, err
	}
	if data.Checkins, err = checkins.NewSQLiteRepository(s.db).List(ctx); err != nil {
		return nil, err
	}
	return data, nil
}
