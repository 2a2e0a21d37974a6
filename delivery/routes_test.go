package delivery

import (
	"net/http"
	"sekarnet/domain"
	"sekarnet/testutil"
	"strings"
	"testing"
)

var publicRoutes = map[string]bool{
	"GET /ping":               true,
	"POST /api/auth/register": true,
	"POST /api/auth/login":    true,
	"GET /api/packages":       true,
}

// concretePath fills every path parameter with 1.
func concretePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			parts[i] = "1"
		}
	}
	return strings.Join(parts, "/")
}

func TestEveryProtectedRouteRequiresToken(t *testing.T) {
	app, _ := newTestApp(t)

	registered := map[string]bool{}
	for _, r := range app.Routes() {
		key := r.Method + " " + r.Path
		registered[key] = true
		if publicRoutes[key] {
			continue
		}
		rec, out := doJSON(t, app, r.Method, concretePath(r.Path), "", nil)
		if rec.Code != http.StatusUnauthorized || out["success"] != false {
			t.Errorf("%s without a token: expected 401, got %d", key, rec.Code)
		}
	}

	for _, key := range []string{
		"GET /api/installation-requests",
		"POST /api/installation-requests/:id/assign",
		"GET /api/support-tickets",
		"POST /api/support-tickets/:id/assign",
		"GET /api/technician-jobs",
		"PATCH /api/technician-jobs/:id",
		"POST /api/notifications/broadcast",
		"GET /api/payment/statistics",
		"GET /api/reports",
		"POST /api/reports/cleanup",
		"GET /api/connection-stats",
		"POST /api/connection-stats",
		"GET /api/user-activities",
		"GET /api/bills/:id/payment-proof",
	} {
		if !registered[key] {
			t.Errorf("route %s is not registered", key)
		}
	}
}

func TestRoleGateForbidsOtherRoles(t *testing.T) {
	app, db := newTestApp(t)
	testutil.SeedUser(t, db, "alice", domain.RoleCustomer)
	testutil.SeedUser(t, db, "budi", domain.RoleTechnician)
	customer := login(t, app, "alice", "alice")
	technician := login(t, app, "budi", "budi")

	tests := []struct {
		who    string
		token  string
		method string
		path   string
	}{
		{"customer", customer, http.MethodGet, "/api/users"},
		{"customer", customer, http.MethodPost, "/api/users"},
		{"customer", customer, http.MethodGet, "/api/users/1"},
		{"customer", customer, http.MethodPatch, "/api/packages/1"},
		{"customer", customer, http.MethodPatch, "/api/subscriptions/1"},
		{"customer", customer, http.MethodPost, "/api/installation-requests/1/assign"},
		{"customer", customer, http.MethodPost, "/api/bills"},
		{"customer", customer, http.MethodPatch, "/api/bills/1"},
		{"customer", customer, http.MethodPost, "/api/bills/1/confirm"},
		{"customer", customer, http.MethodPost, "/api/bills/1/reminder"},
		{"customer", customer, http.MethodPost, "/api/support-tickets/1/assign"},
		{"customer", customer, http.MethodGet, "/api/technician-jobs"},
		{"customer", customer, http.MethodGet, "/api/technician-jobs/1"},
		{"customer", customer, http.MethodPost, "/api/technician-jobs"},
		{"customer", customer, http.MethodPatch, "/api/technician-jobs/1"},
		{"customer", customer, http.MethodPost, "/api/notifications"},
		{"customer", customer, http.MethodPost, "/api/notifications/broadcast"},
		{"customer", customer, http.MethodGet, "/api/payment/statistics"},
		{"customer", customer, http.MethodGet, "/api/reports"},
		{"customer", customer, http.MethodPost, "/api/reports/generate"},
		{"customer", customer, http.MethodGet, "/api/reports/download/x.xlsx"},
		{"customer", customer, http.MethodPost, "/api/reports/cleanup"},
		{"technician", technician, http.MethodGet, "/api/users"},
		{"technician", technician, http.MethodPost, "/api/subscriptions"},
		{"technician", technician, http.MethodPost, "/api/installation-requests"},
		{"technician", technician, http.MethodPost, "/api/support-tickets"},
		{"technician", technician, http.MethodPost, "/api/technician-jobs"},
		{"technician", technician, http.MethodPatch, "/api/bills/1/payment"},
		{"technician", technician, http.MethodPost, "/api/bills/1/payment-proof"},
		{"technician", technician, http.MethodPost, "/api/payment/qris/1/verify"},
		{"technician", technician, http.MethodPost, "/api/notifications/broadcast"},
		{"technician", technician, http.MethodGet, "/api/payment/statistics"},
		{"technician", technician, http.MethodPost, "/api/reports/generate"},
	}

	for _, tt := range tests {
		t.Run(tt.who+" "+tt.method+" "+tt.path, func(t *testing.T) {
			rec, out := doJSON(t, app, tt.method, tt.path, tt.token, nil)
			if rec.Code != http.StatusForbidden || out["success"] != false {
				t.Fatalf("expected 403, got %d %s", rec.Code, rec.Body.String())
			}
		})
	}
}
