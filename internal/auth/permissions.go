package auth

import (
	"slices"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
)

var gymAdminPermissions = []constants.Permission{
	constants.PermGymView,
	constants.PermGymUpdate,
	constants.PermRouteView,
	constants.PermRouteCreate,
	constants.PermRouteUpdate,
	constants.PermRouteDelete,
	constants.PermTagView,
	constants.PermPaymentView,
}

// PermissionsFor maps a role to its admin console permissions. Regular users
// have none.
func PermissionsFor(t contract.UserType) []constants.Permission {
	switch t {
	case contract.UserTypeAdmin:
		return slices.Clone(constants.Permissions)
	case contract.UserTypeGymAdmin:
		return slices.Clone(gymAdminPermissions)
	}
	return nil
}

func Can(t contract.UserType, perm constants.Permission) bool {
	switch t {
	case contract.UserTypeAdmin:
		return slices.Contains(constants.Permissions, perm)
	case contract.UserTypeGymAdmin:
		return slices.Contains(gymAdminPermissions, perm)
	}
	return false
}
