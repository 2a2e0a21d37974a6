package dto

import (
	"sekarnet/domain"
)

type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6,max=64"`
	FullName string  `json:"fullName" binding:"required,min=1,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,min=9,max=20"`
	Address  *string `json:"address"`
}

func MakeRegisterRequest(req *RegisterRequest) domain.User {
	return domain.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=64"`
}
