package service

import (
	"context"
	"sekarnet/domain"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	userRepo domain.UserRepository
}

func NewUserService(userRepo domain.UserRepository) domain.UserUseCase {
	return &userService{userRepo: userRepo}
}

func (s *userService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.userRepo.GetUserByID(ctx, actor.ID)
}

// UpdateProfile edits contact fields only; role and username never change.
func (s *userService) UpdateProfile(ctx context.Context, actor domain.Actor, in domain.ProfileUpdate) (*domain.User, error) {
	if err := require(actor, domain.ActionProfileUpdate); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		if strings.TrimSpace(*in.FullName) == "" {
			return nil, invalid("fullName cannot be empty")
		}
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, invalid("email cannot be empty")
		}
		user.Email = email
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.Address != nil {
		user.Address = in.Address
	}
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetAllUsers(ctx context.Context, role string) ([]domain.User, error) {
	if role != "" && !domain.IsValidRole(role) {
		return nil, invalid("unknown role %q", role)
	}
	return s.userRepo.GetAllUsers(ctx, role)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

// CreateUser lets an admin open accounts of any role.
func (s *userService) CreateUser(ctx context.Context, actor domain.Actor, user *domain.User, password string) (*domain.User, error) {
	if err := require(actor, domain.ActionUserManage); err != nil {
		return nil, err
	}
	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}
	if !domain.IsValidRole(user.Role) {
		return nil, invalid("unknown role %q", user.Role)
	}
	if len(password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.ID = 0
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Password = string(hashed)

	if err := s.userRepo.CreateUser(ctx, user, domain.SideEffects{}); err != nil {
		return nil, err
	}
	return user, nil
}
