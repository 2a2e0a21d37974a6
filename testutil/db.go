// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"sekarnet/config"
	"sekarnet/domain"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps the shared in-memory database alive and serializes
	// transactions the way row locks would
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser inserts a user whose password equals its username.
func SeedUser(t *testing.T, db *gorm.DB, username, role string) *domain.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(username), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &domain.User{
		Username: username,
		Password: string(hashed),
		Email:    username + "@sekar.net",
		FullName: strings.ToUpper(username[:1]) + username[1:],
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func SeedPackage(t *testing.T, db *gorm.DB, name string, price int64) *domain.Package {
	t.Helper()

	pkg := &domain.Package{
		Name:          name,
		DownloadSpeed: 20,
		UploadSpeed:   10,
		Price:         price,
		Features:      datatypes.NewJSONSlice([]string{"Unlimited"}),
	}
	if err := db.Create(pkg).Error; err != nil {
		t.Fatalf("seed package %s: %v", name, err)
	}
	return pkg
}
