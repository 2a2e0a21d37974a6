package service

import (
	"sekarnet/domain"
	"sekarnet/repository"
	"sekarnet/testutil"
	"testing"

	"gorm.io/gorm"
)

func actorOf(u *domain.User) domain.Actor {
	return domain.Actor{ID: u.ID, Username: u.Username, Role: u.Role}
}

type world struct {
	db       *gorm.DB
	admin    *domain.User
	customer *domain.User
	other    *domain.User
	tech     *domain.User
	pkg      *domain.Package
}

func newWorld(t *testing.T) world {
	t.Helper()
	db := testutil.NewDB(t)
	return world{
		db:       db,
		admin:    testutil.SeedUser(t, db, "admin", domain.RoleAdmin),
		customer: testutil.SeedUser(t, db, "alice", domain.RoleCustomer),
		other:    testutil.SeedUser(t, db, "bob", domain.RoleCustomer),
		tech:     testutil.SeedUser(t, db, "budi", domain.RoleTechnician),
		pkg:      testutil.SeedPackage(t, db, "Home 20", 250000),
	}
}

func (w world) count(t *testing.T, model interface{}, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := w.db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func (w world) users() domain.UserRepository { return repository.NewUserRepository(w.db) }
