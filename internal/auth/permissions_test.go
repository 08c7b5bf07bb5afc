package auth

import (
	"testing"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
)

func TestPermissionsFor(t *testing.T) {
	if got := PermissionsFor(contract.UserTypeAdmin); len(got) != len(constants.Permissions) {
		t.Fatalf("admin should hold every permission, got %d", len(got))
	}
	if got := PermissionsFor(contract.UserTypeRegular); len(got) != 0 {
		t.Fatalf("regular users hold no admin permissions, got %v", got)
	}

	gym := PermissionsFor(contract.UserTypeGymAdmin)
	gym[0] = constants.PermSystemLogs
	if Can(contract.UserTypeGymAdmin, constants.PermSystemLogs) {
		t.Fatalf("PermissionsFor must return a copy")
	}
}

func TestCan(t *testing.T) {
	cases := []struct {
		role contract.UserType
		perm constants.Permission
		want bool
	}{
		{contract.UserTypeAdmin, constants.PermPaymentRefund, true},
		{contract.UserTypeGymAdmin, constants.PermRouteCreate, true},
		{contract.UserTypeGymAdmin, constants.PermPaymentRefund, false},
		{contract.UserTypeGymAdmin, constants.PermUserDelete, false},
		{contract.UserTypeRegular, constants.PermGymView, false},
		{contract.UserType("ROOT"), constants.PermGymView, false},
	}
	for _, tc := range cases {
		if got := Can(tc.role, tc.perm); got != tc.want {
			t.Fatalf("Can(%s, %s) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}
