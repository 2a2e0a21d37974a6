package domain

import "testing"

func TestCan(t *testing.T) {
	cases := []struct {
		role   string
		action Action
		want   bool
	}{
		{RoleAdmin, ActionInstallationAssign, true},
		{RoleCustomer, ActionInstallationAssign, false},
		{RoleTechnician, ActionInstallationAssign, false},
		{RoleCustomer, ActionInstallationCreate, true},
		{RoleTechnician, ActionInstallationCreate, false},
		{RoleTechnician, ActionJobUpdate, true},
		{RoleCustomer, ActionJobView, false},
		{RoleCustomer, ActionBillPay, true},
		{RoleCustomer, ActionBillConfirm, false},
		{"guest", ActionProfileUpdate, false},
		{RoleAdmin, Action("unknown"), false},
	}
	for _, tc := range cases {
		if got := Can(tc.role, tc.action); got != tc.want {
			t.Fatalf("Can(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestCanAccess(t *testing.T) {
	admin := Actor{ID: 1, Role: RoleAdmin}
	alice := Actor{ID: 2, Role: RoleCustomer}

	if !CanAccess(admin, 99) {
		t.Fatalf("admin should reach every row")
	}
	if !CanAccess(alice, 2) {
		t.Fatalf("owner should reach own row")
	}
	if CanAccess(alice, 3) {
		t.Fatalf("customer must not reach other rows")
	}
	if CanAccess(Actor{Role: RoleCustomer}, 0) {
		t.Fatalf("zero actor must not match ownerless rows")
	}
}
