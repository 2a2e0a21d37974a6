package dto

import (
	"sekarnet/domain"

	"gorm.io/datatypes"
)

type UpdateProfileRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,min=9,max=20"`
	Address  *string `json:"address"`
}

func MakeProfileUpdate(req *UpdateProfileRequest) domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	}
}

type CreateUserRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6,max=64"`
	FullName string  `json:"fullName" binding:"required,min=1,max=100"`
	Role     string  `json:"role" binding:"required,role"`
	Phone    *string `json:"phone" binding:"omitempty,min=9,max=20"`
	Address  *string `json:"address"`
}

func MakeCreateUserRequest(req *CreateUserRequest) domain.User {
	return domain.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     req.Role,
		Phone:    req.Phone,
		Address:  req.Address,
	}
}

type CreatePackageRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	Description   string   `json:"description"`
	DownloadSpeed int      `json:"speed" binding:"required,gt=0"`
	UploadSpeed   int      `json:"uploadSpeed" binding:"required,gt=0"`
	Price         int64    `json:"price" binding:"required,gt=0"`
	Features      []string `json:"features"`
	IsPopular     bool     `json:"isPopular"`
}

func MakeCreatePackageRequest(req *CreatePackageRequest) domain.Package {
	return domain.Package{
		Name:          req.Name,
		Description:   req.Description,
		DownloadSpeed: req.DownloadSpeed,
		UploadSpeed:   req.UploadSpeed,
		Price:         req.Price,
		Features:      datatypes.NewJSONSlice(req.Features),
		IsPopular:     req.IsPopular,
	}
}

type UpdatePackageRequest struct {
	Name          *string  `json:"name" binding:"omitempty,max=100"`
	Description   *string  `json:"description"`
	DownloadSpeed *int     `json:"speed" binding:"omitempty,gt=0"`
	UploadSpeed   *int     `json:"uploadSpeed" binding:"omitempty,gt=0"`
	Price         *int64   `json:"price" binding:"omitempty,gt=0"`
	Features      []string `json:"features"`
	IsPopular     *bool    `json:"isPopular"`
}

func MakePackageUpdate(req *UpdatePackageRequest) domain.PackageUpdate {
	return domain.PackageUpdate{
		Name:          req.Name,
		Description:   req.Description,
		DownloadSpeed: req.DownloadSpeed,
		UploadSpeed:   req.UploadSpeed,
		Price:         req.Price,
		Features:      req.Features,
		IsPopular:     req.IsPopular,
	}
}
