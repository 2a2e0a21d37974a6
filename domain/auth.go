package domain

import (
	"context"
	"sekarnet/utils"
)

type AuthUseCase interface {
	GetAccessTokenManager() *utils.JWTManager
	Register(ctx context.Context, user *User, password string) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	ChangePassword(ctx context.Context, actor Actor, oldPassword, newPassword string) error
}

type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
