package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felipenb/go_sales/internal/domain"
	"github.com/felipenb/go_sales/internal/paging"
	"github.com/felipenb/go_sales/internal/repository"
)

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

type UserInput struct {
	Username string
	Email    string
	Name     string
	Status   domain.UserStatus
	Role     domain.UserRole
}

func (s *UserService) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	now := time.Now()
	user := &domain.User{
		ID:        uuid.New(),
		Username:  in.Username,
		Email:     in.Email,
		Name:      in.Name,
		Status:    in.Status,
		Role:      in.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	if user.Role == "" {
		user.Role = domain.UserRoleCustomer
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, in UserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.Email = in.Email
	user.Name = in.Name
	if in.Status != "" {
		user.Status = in.Status
	}
	if in.Role != "" {
		user.Role = in.Role
	}
	user.UpdatedAt = time.Now()

	if e2 := s.users.Update(ctx, user); e2 != nil {
		return nil, e2
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, page, size int, order string) (paging.PagedResult[domain.User], error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return paging.PagedResult[domain.User]{}, err
	}
	return paging.Apply(users, order, page, size, userSortFields)
}
