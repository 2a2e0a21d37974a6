package config

import (
	"errors"
	"log"
	"sekarnet/domain"
	"sekarnet/utils"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func BootDB(cfg Config) (*gorm.DB, error) {
	var gormLogger logger.Interface
	if cfg.Server.Env == "development" {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		log.Print("❌ Failed to connect to ", utils.ColorText("Database: ", utils.Red), err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Print("❌ Failed to ", utils.ColorText("auto-migrate database schemas", utils.Red), " error: ", err)
		return nil, err
	}

	if err := SeedAdmin(db, cfg.Admin); err != nil {
		return nil, err
	}

	log.Print("✅ Connected to ", utils.ColorText("Database", utils.Green), " successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Package{},
		&domain.Subscription{},
		&domain.InstallationRequest{},
		&domain.Bill{},
		&domain.SupportTicket{},
		&domain.TechnicianJob{},
		&domain.Notification{},
		&domain.UserActivity{},
		&domain.ConnectionStat{},
		&domain.OutboxMessage{},
	)
}

// SeedAdmin creates the first admin account when none exists.
func SeedAdmin(db *gorm.DB, admin AdminConfig) error {
	var count int64
	if err := db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if admin.Email == "" || admin.Password == "" {
		log.Print("⚠️ Skipping admin seeding, missing ADMIN_EMAIL or ADMIN_PASSWORD in env")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	adminUser := domain.User{
		Username: admin.Username,
		Email:    admin.Email,
		FullName: admin.FullName,
		Password: string(hashed),
		Role:     domain.RoleAdmin,
	}
	if err := db.Create(&adminUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	log.Printf("✅ Seeded admin user: %s", admin.Username)
	return nil
}
