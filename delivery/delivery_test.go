package delivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sekarnet/domain"
	"sekarnet/reports"
	"sekarnet/repository"
	"sekarnet/service"
	"sekarnet/storage"
	"sekarnet/testutil"
	"sekarnet/utils"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.RegisterCustomValidations(v)
	}
}

func newTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	app, db, _ := newTestAppWith(t, nil)
	return app, db
}

// newTestAppWith lets wrap swap use cases before routing and returns the
// local upload root as well.
func newTestAppWith(t *testing.T, wrap func(*UseCases)) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	db := testutil.NewDB(t)

	users := repository.NewUserRepository(db)
	activities := repository.NewActivityRepository(db)
	packages := repository.NewPackageRepository(db)
	installations := repository.NewInstallationRepository(db)
	tickets := repository.NewTicketRepository(db)
	bills := repository.NewBillRepository(db)
	notifications := repository.NewNotificationRepository(db)

	uploadDir := t.TempDir()
	uploader, err := storage.New("", uploadDir)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	uc := UseCases{
		Auth:         service.NewAuthService(users, activities, utils.NewJWTManager("test-secret", time.Hour)),
		User:         service.NewUserService(users),
		Package:      service.NewPackageService(packages, nil),
		Subscription: service.NewSubscriptionService(repository.NewSubscriptionRepository(db)),
		Installation: service.NewInstallationService(installations, users, packages),
		Ticket:       service.NewTicketService(tickets, users),
		Job:          service.NewJobService(repository.NewJobRepository(db), installations, tickets),
		Bill:         service.NewBillService(bills, users, notifications),
		Payment:      service.NewPaymentService(bills, service.QRISConfig{MerchantName: "SEKAR NET"}),
		Notification: service.NewNotificationService(notifications, users, nil, 0),
		Activity:     service.NewActivityService(activities, repository.NewConnectionStatRepository(db)),
		Report:       service.NewReportService(repository.NewReportRepository(db), reports.NewGenerator(t.TempDir())),
	}

	if wrap != nil {
		wrap(&uc)
	}

	app := gin.New()
	RegisterRoutes(app, uc, uploader, nil)
	return app, db, uploadDir
}

func doJSON(t *testing.T, app *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, out
}

func login(t *testing.T, app *gin.Engine, username, password string) string {
	t.Helper()
	rec, out := doJSON(t, app, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", username, rec.Code, rec.Body.String())
	}
	return out["token"].(string)
}

func seedWithID(t *testing.T, db *gorm.DB, id uint, username, role string) {
	t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte(username), bcrypt.MinCost)
	u := &domain.User{ID: id, Username: username, Password: string(hashed), Email: username + "@sekar.net", FullName: username, Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
}

func TestAuthRequired(t *testing.T) {
	app, db := newTestApp(t)
	testutil.SeedUser(t, db, "alice", domain.RoleCustomer)

	rec, out := doJSON(t, app, http.MethodGet, "/api/bills", "", nil)
	if rec.Code != http.StatusUnauthorized || out["success"] != false {
		t.Fatalf("expected 401, got %d %v", rec.Code, out)
	}

	rec, _ = doJSON(t, app, http.MethodGet, "/api/bills", "not-a-token", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a bad token, got %d", rec.Code)
	}

	token := login(t, app, "alice", "alice")
	rec, _ = doJSON(t, app, http.MethodGet, "/api/users", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a customer on an admin route, got %d", rec.Code)
	}
	rec, _ = doJSON(t, app, http.MethodPost, "/api/packages", token, gin.H{"name": "x", "speed": 10, "price": 1})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 creating a package, got %d", rec.Code)
	}

	rec, _ = doJSON(t, app, http.MethodGet, "/api/packages", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("packages are public, got %d", rec.Code)
	}
}

func TestRegisterErrors(t *testing.T) {
	app, db := newTestApp(t)
	testutil.SeedUser(t, db, "alice", domain.RoleCustomer)

	rec, out := doJSON(t, app, http.MethodPost, "/api/auth/register", "", gin.H{"username": "dani", "password": "pw123456"})
	if rec.Code != http.StatusBadRequest || out["success"] != false {
		t.Fatalf("expected 400 for missing fields, got %d %v", rec.Code, out)
	}
	rec, _ = doJSON(t, app, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "email": "other@mail.com", "password": "pw123456", "fullName": "Alice",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a duplicate, got %d", rec.Code)
	}
	rec, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a wrong password, got %d", rec.Code)
	}
}

func TestInstallationAssignment(t *testing.T) {
	app, db := newTestApp(t)
	pkg := testutil.SeedPackage(t, db, "Home 20", 250000)
	testutil.SeedUser(t, db, "admin", domain.RoleAdmin)
	seedWithID(t, db, 5, "budi", domain.RoleTechnician)

	rec, out := doJSON(t, app, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "email": "alice@mail.com", "password": "pw123456", "fullName": "Alice Wijaya",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body.String())
	}
	aliceToken := out["token"].(string)
	if role := out["user"].(map[string]interface{})["role"]; role != domain.RoleCustomer {
		t.Fatalf("expected customer role, got %v", role)
	}

	rec, out = doJSON(t, app, http.MethodPost, "/api/installation-requests", aliceToken, gin.H{
		"packageId": pkg.ID,
		"address":   "Jl. Melati 3, Denpasar",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create request: %d %s", rec.Code, rec.Body.String())
	}
	reqID := uint(out["data"].(map[string]interface{})["id"].(float64))

	rec, _ = doJSON(t, app, http.MethodPost, "/api/installation-requests/"+strconv.FormatUint(uint64(reqID), 10)+"/assign", aliceToken, gin.H{"technicianId": 5})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("customers cannot assign, got %d", rec.Code)
	}

	adminToken := login(t, app, "admin", "admin")
	for i := 0; i < 2; i++ {
		rec, out = doJSON(t, app, http.MethodPost, "/api/installation-requests/"+strconv.FormatUint(uint64(reqID), 10)+"/assign", adminToken, gin.H{"technicianId": 5})
		if rec.Code != http.StatusOK {
			t.Fatalf("assign: %d %s", rec.Code, rec.Body.String())
		}
	}
	data := out["data"].(map[string]interface{})
	if status := data["request"].(map[string]interface{})["status"]; status != domain.InstallationScheduled {
		t.Fatalf("expected scheduled, got %v", status)
	}
	if tech := data["job"].(map[string]interface{})["technicianId"]; tech != float64(5) {
		t.Fatalf("expected technician 5 on the job, got %v", tech)
	}

	var jobs int64
	db.Model(&domain.TechnicianJob{}).Where("installation_id = ?", reqID).Count(&jobs)
	if jobs != 1 {
		t.Fatalf("expected exactly one job, got %d", jobs)
	}

	techToken := login(t, app, "budi", "budi")
	rec, out = doJSON(t, app, http.MethodGet, "/api/technician-jobs", techToken, nil)
	if rec.Code != http.StatusOK || len(out["data"].([]interface{})) != 1 {
		t.Fatalf("technician jobs: %d %s", rec.Code, rec.Body.String())
	}
	rec, _ = doJSON(t, app, http.MethodGet, "/api/technician-jobs", aliceToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("customers cannot list jobs, got %d", rec.Code)
	}

	rec, out = doJSON(t, app, http.MethodGet, "/api/notifications", aliceToken, nil)
	if rec.Code != http.StatusOK || len(out["data"].([]interface{})) == 0 {
		t.Fatalf("expected alice to have a schedule notification: %d %s", rec.Code, rec.Body.String())
	}
}

func TestNotFoundAndBadID(t *testing.T) {
	app, db := newTestApp(t)
	testutil.SeedUser(t, db, "admin", domain.RoleAdmin)
	token := login(t, app, "admin", "admin")

	rec, _ := doJSON(t, app, http.MethodGet, "/api/bills/999", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec, _ = doJSON(t, app, http.MethodGet, "/api/bills/abc", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad id, got %d", rec.Code)
	}
}
