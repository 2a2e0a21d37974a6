package repository

import (
	"context"
	"fmt"
	"sekarnet/domain"
	"sekarnet/utils"
	"time"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &userRepo{db: db}
}

// CreateUser inserts the account and its side effects. Duplicate username or
// email is ErrConflict.
func (r *userRepo) CreateUser(ctx context.Context, user *domain.User, fx domain.SideEffects) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&count).Error; err != nil {
			return dbError(err)
		}
		if count > 0 {
			return fmt.Errorf("%w: username or email already registered", domain.ErrConflict)
		}

		if err := tx.Create(user).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return fmt.Errorf("%w: username or email already registered", domain.ErrConflict)
			}
			return dbError(err)
		}

		for i := range fx.Activities {
			fx.Activities[i].UserID = user.ID
		}
		for i := range fx.Notifications {
			if fx.Notifications[i].UserID == nil {
				fx.Notifications[i].UserID = &user.ID
			}
		}
		return applySideEffects(tx, fx, time.Now().Unix())
	})
}

func (r *userRepo) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (r *userRepo) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// GetAllUsers filters by role when role is non-empty.
func (r *userRepo) GetAllUsers(ctx context.Context, role string) ([]domain.User, error) {
	var users []domain.User
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, dbError(err)
	}
	return users, nil
}

func (r *userRepo) UpdateUser(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", user.ID).
		Select("full_name", "email", "phone", "address", "password").
		Updates(user).Error
	if err != nil {
		if utils.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return dbError(err)
	}
	return nil
}
