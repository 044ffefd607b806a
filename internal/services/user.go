package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/wellbeam-hq/apiserver/internal/pagination"
	"github.com/wellbeam-hq/apiserver/internal/store"
	"github.com/wellbeam-hq/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	List(ctx context.Context, filter store.UserFilter, offset, limit int) ([]types.User, int, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

// List returns one page of users matching the filter.
func (s *UserService) List(ctx context.Context, filter store.UserFilter, page pagination.Params) (pagination.Page[types.User], error) {
	users, total, err := s.repo.List(ctx, filter, page.Offset(), page.Size)
	if err != nil {
		return pagination.Page[types.User]{}, err
	}
	return pagination.NewPage(users, page, total), nil
}

// SetActive toggles the account's active flag.
func (s *UserService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}
