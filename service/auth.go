package service

import (
	"context"
	"errors"
	"fmt"
	"sekarnet/domain"
	"sekarnet/notifier"
	"sekarnet/utils"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type authService struct {
	userRepo     domain.UserRepository
	activityRepo domain.ActivityRepository
	accessToken  *utils.JWTManager
}

func NewAuthService(userRepo domain.UserRepository, activityRepo domain.ActivityRepository, jwtManager *utils.JWTManager) domain.AuthUseCase {
	return &authService{
		userRepo:     userRepo,
		activityRepo: activityRepo,
		accessToken:  jwtManager,
	}
}

func (s *authService) GetAccessTokenManager() *utils.JWTManager {
	return s.accessToken
}

// Register always creates a customer and signs them in.
func (s *authService) Register(ctx context.Context, user *domain.User, password string) (*domain.AuthResult, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Username == "" || user.Email == "" || strings.TrimSpace(user.FullName) == "" {
		return nil, invalid("username, email and fullName are required")
	}
	if len(password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.ID = 0
	user.Password = string(hashed)
	user.Role = domain.RoleCustomer

	var fx domain.SideEffects
	fx.Record(0, domain.ActivityRegister, map[string]interface{}{"username": user.Username})
	fx.Enqueue(domain.ChannelEmail, notifier.TemplateWelcome, user.Email, map[string]interface{}{
		"fullName": user.FullName,
		"username": user.Username,
		"email":    user.Email,
	})
	if err := s.userRepo.CreateUser(ctx, user, fx); err != nil {
		return nil, err
	}

	token, err := s.accessToken.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := s.accessToken.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	if err := s.activityRepo.CreateActivity(ctx, &domain.UserActivity{
		UserID:  user.ID,
		Action:  domain.ActivityLogin,
		Details: map[string]interface{}{"at": time.Now().Unix()},
	}); err != nil {
		log.Error().Err(err).Uint("user", user.ID).Msg("record login activity")
	}

	return &domain.AuthResult{User: user, Token: token}, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor domain.Actor, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return invalid("password must be at least %d characters", minPasswordLength)
	}
	user, err := s.userRepo.GetUserByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return invalid("current password is incorrect")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.userRepo.UpdateUser(ctx, user)
}
