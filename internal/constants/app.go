package constants

import "github.com/son-changwook/routepick/internal/contract"

const (
	AppName        = "RoutePickr"
	AppVersion     = "1.0.0"
	AppBuildNumber = "1"
	AppBundleID    = "com.routepick.app"
)

const (
	DefaultAPIBaseURL    = "http://localhost:8080"
	DefaultWSBaseURL     = "ws://localhost:8080"
	ProductionAPIBaseURL = "https://api.routepick.com"
)

// DefaultRegion is centred on Seoul City Hall.
var DefaultRegion = contract.Region{
	Location:       contract.Location{Latitude: 37.5665, Longitude: 126.9780},
	LatitudeDelta:  0.0922,
	LongitudeDelta: 0.0421,
}

const (
	KoreaMinLatitude  = 33.0
	KoreaMaxLatitude  = 38.6
	KoreaMinLongitude = 124.0
	KoreaMaxLongitude = 132.0
)

var (
	KoreaNortheast = contract.Location{Latitude: KoreaMaxLatitude, Longitude: KoreaMaxLongitude}
	KoreaSouthwest = contract.Location{Latitude: KoreaMinLatitude, Longitude: KoreaMinLongitude}
)

// Zoom levels are latitude deltas.
const (
	ZoomCity     = 0.1
	ZoomDistrict = 0.05
	ZoomDetail   = 0.01
)

// Recommendation weights are for display; scoring happens on the backend.
const (
	RecommendationTagWeight   = 0.7
	RecommendationLevelWeight = 0.3
	RecommendationMinScore    = 20
	RecommendationMaxResults  = 50
	RecommendationMaxPerUser  = 100
	RecommendationCacheHours  = 24
	RecentSearchLimit         = 10
)

// App push notification types.
const (
	PushRouteRecommendation = "ROUTE_RECOMMENDATION"
	PushNewRoute            = "NEW_ROUTE"
	PushClimbReminder       = "CLIMB_REMINDER"
	PushSocialFollow        = "SOCIAL_FOLLOW"
	PushSystemNotice        = "SYSTEM_NOTICE"
)

const (
	ScreenLogin           = "Login"
	ScreenRegister        = "Register"
	ScreenForgotPassword  = "ForgotPassword"
	ScreenHome            = "Home"
	ScreenSearch          = "Search"
	ScreenProfile         = "Profile"
	ScreenSettings        = "Settings"
	ScreenGymList         = "GymList"
	ScreenGymDetail       = "GymDetail"
	ScreenGymMap          = "GymMap"
	ScreenRouteList       = "RouteList"
	ScreenRouteDetail     = "RouteDetail"
	ScreenRouteSearch     = "RouteSearch"
	ScreenRecommendations = "Recommendations"
	ScreenTagSelection    = "TagSelection"
	ScreenTagPreferences  = "TagPreferences"
	ScreenClimbingLog     = "ClimbingLog"
	ScreenClimbingStats   = "ClimbingStats"
)

const (
	MinIOSVersion = "12.0"
	MinAndroidSDK = 21
)

var SupportedOrientations = []string{"portrait", "portrait-upside-down"}
