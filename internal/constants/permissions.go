package constants

// Permission is an admin console capability in "resource:action" form.
type Permission string

const (
	PermGymView        Permission = "gym:view"
	PermGymCreate      Permission = "gym:create"
	PermGymUpdate      Permission = "gym:update"
	PermGymDelete      Permission = "gym:delete"
	PermRouteView      Permission = "route:view"
	PermRouteCreate    Permission = "route:create"
	PermRouteUpdate    Permission = "route:update"
	PermRouteDelete    Permission = "route:delete"
	PermTagView        Permission = "tag:view"
	PermTagCreate      Permission = "tag:create"
	PermTagUpdate      Permission = "tag:update"
	PermTagDelete      Permission = "tag:delete"
	PermUserView       Permission = "user:view"
	PermUserCreate     Permission = "user:create"
	PermUserUpdate     Permission = "user:update"
	PermUserDelete     Permission = "user:delete"
	PermPaymentView    Permission = "payment:view"
	PermPaymentRefund  Permission = "payment:refund"
	PermSystemSettings Permission = "system:settings"
	PermSystemLogs     Permission = "system:logs"
)

var Permissions = []Permission{
	PermGymView, PermGymCreate, PermGymUpdate, PermGymDelete,
	PermRouteView, PermRouteCreate, PermRouteUpdate, PermRouteDelete,
	PermTagView, PermTagCreate, PermTagUpdate, PermTagDelete,
	PermUserView, PermUserCreate, PermUserUpdate, PermUserDelete,
	PermPaymentView, PermPaymentRefund,
	PermSystemSettings, PermSystemLogs,
}
