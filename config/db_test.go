package config_test

import (
	"sekarnet/config"
	"sekarnet/domain"
	"sekarnet/testutil"
	"testing"
)

func TestSeedAdminOnce(t *testing.T) {
	db := testutil.NewDB(t)

	if err := config.SeedAdmin(db, config.AdminConfig{Username: "admin"}); err != nil {
		t.Fatalf("seed without credentials: %v", err)
	}
	var n int64
	db.Model(&domain.User{}).Count(&n)
	if n != 0 {
		t.Fatalf("missing credentials must skip seeding, got %d users", n)
	}

	admin := config.AdminConfig{Username: "admin", Email: "admin@sekar.net", Password: "secret123", FullName: "Administrator"}
	for i := 0; i < 2; i++ {
		if err := config.SeedAdmin(db, admin); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&n)
	if n != 1 {
		t.Fatalf("expected one admin, got %d", n)
	}
}
