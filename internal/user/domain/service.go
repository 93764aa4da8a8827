package domain

import (
	"context"
	"errors"
)

type CreateUserRequest struct {
	Name    string
	Email   string
	PhoneNo string
}

// UpdateUserRequest carries a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	ID      string
	Name    *string
	Email   *string
	PhoneNo *string
	Avatar  *string
}

type Service interface {
	Create(context.Context, CreateUserRequest) (User, error)
	List(context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Update(context.Context, UpdateUserRequest) (User, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidPhoneNo = errors.New("invalid_phone_no")
	ErrNotFound       = errors.New("not_found")
	ErrConflict       = errors.New("user_conflict")
)
