package domain

import "context"

type UserRepository interface {
	CreateUser(ctx context.Context, user *User, fx SideEffects) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetAllUsers(ctx context.Context, role string) ([]User, error)
	UpdateUser(ctx context.Context, user *User) error
}

type ProfileUpdate struct {
	FullName *string
	Email    *string
	Phone    *string
	Address  *string
}

type UserUseCase interface {
	Me(ctx context.Context, actor Actor) (*User, error)
	UpdateProfile(ctx context.Context, actor Actor, in ProfileUpdate) (*User, error)
	GetAllUsers(ctx context.Context, role string) ([]User, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	CreateUser(ctx context.Context, actor Actor, user *User, password string) (*User, error)
}
