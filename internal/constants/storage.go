package constants

// Admin console local storage keys.
const (
	AdminKeyAccessToken      = "routepick_admin_access_token"
	AdminKeyRefreshToken     = "routepick_admin_refresh_token"
	AdminKeyUserInfo         = "routepick_admin_user_info"
	AdminKeyTheme            = "routepick_admin_theme"
	AdminKeySidebarCollapsed = "routepick_admin_sidebar_collapsed"
	AdminKeyTableSettings    = "routepick_admin_table_settings"
	AdminKeyDashboardLayout  = "routepick_admin_dashboard_layout"
)

// Mobile app storage keys. The app keeps both tokens under AppKeyUserToken.
const (
	AppKeyUserToken           = "@RoutePickr:userToken"
	AppKeyUserProfile         = "@RoutePickr:userProfile"
	AppKeyUserPreferences     = "@RoutePickr:userPreferences"
	AppKeySelectedTags        = "@RoutePickr:selectedTags"
	AppKeyRecentSearches      = "@RoutePickr:recentSearches"
	AppKeyAppSettings         = "@RoutePickr:appSettings"
	AppKeyOnboardingCompleted = "@RoutePickr:onboardingCompleted"
)
