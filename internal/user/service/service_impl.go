package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/M-Haris-27/ZoroPay/internal/clock"
	obslogger "github.com/M-Haris-27/ZoroPay/internal/observability/logger"
	"github.com/M-Haris-27/ZoroPay/internal/user/domain"
	"github.com/M-Haris-27/ZoroPay/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	name, err := normalizeName(req.Name)
	if err != nil {
		return domain.User{}, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return domain.User{}, err
	}
	phoneNo, err := normalizePhoneNo(req.PhoneNo)
	if err != nil {
		return domain.User{}, err
	}

	now := s.clock.Now()
	user := domain.User{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		PhoneNo:   phoneNo,
		Avatar:    domain.DefaultAvatar,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrConflict
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}

	s.log.Info("user created", obslogger.UserID(user.ID.String()))
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		users = append(users, *item)
	}
	return users, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateUserRequest) (domain.User, error) {
	user, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.User{}, err
	}

	if req.Name != nil {
		if user.Name, err = normalizeName(*req.Name); err != nil {
			return domain.User{}, err
		}
	}
	if req.Email != nil {
		if user.Email, err = normalizeEmail(*req.Email); err != nil {
			return domain.User{}, err
		}
	}
	if req.PhoneNo != nil {
		if user.PhoneNo, err = normalizePhoneNo(*req.PhoneNo); err != nil {
			return domain.User{}, err
		}
	}
	if req.Avatar != nil {
		user.Avatar = strings.TrimSpace(*req.Avatar)
		if user.Avatar == "" {
			user.Avatar = domain.DefaultAvatar
		}
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrConflict
		}
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}

	return *user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	userID, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, s.db, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.log.Info("user deleted", obslogger.UserID(userID.String()))
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// parseID treats identifiers that cannot exist as missing records.
func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func normalizeName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" {
		return "", domain.ErrInvalidName
	}
	return name, nil
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if email == "" {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

func normalizePhoneNo(value string) (string, error) {
	phoneNo := strings.TrimSpace(value)
	if phoneNo == "" {
		return "", domain.ErrInvalidPhoneNo
	}
	return phoneNo, nil
}
