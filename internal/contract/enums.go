package contract

import (
	"encoding/json"
	"fmt"
	"slices"
)

// EnumError reports a value outside an enumeration's closed set.
type EnumError struct {
	Type  string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%s: invalid value %q", e.Type, e.Value)
}

func parseEnum[T ~string](name, raw string, allowed []T) (T, error) {
	v := T(raw)
	if !slices.Contains(allowed, v) {
		return "", &EnumError{Type: name, Value: raw}
	}
	return v, nil
}

func unmarshalEnum[T ~string](name string, data []byte, dst *T, allowed []T) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	v, err := parseEnum(name, raw, allowed)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

type UserType string

const (
	UserTypeRegular  UserType = "REGULAR"
	UserTypeGymAdmin UserType = "GYM_ADMIN"
	UserTypeAdmin    UserType = "ADMIN"
)

var UserTypes = []UserType{UserTypeRegular, UserTypeGymAdmin, UserTypeAdmin}

func ParseUserType(s string) (UserType, error)  { return parseEnum("UserType", s, UserTypes) }
func (t UserType) Valid() bool                   { return slices.Contains(UserTypes, t) }
func (t *UserType) UnmarshalJSON(b []byte) error { return unmarshalEnum("UserType", b, t, UserTypes) }

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

var UserStatuses = []UserStatus{UserStatusActive, UserStatusInactive, UserStatusSuspended}

func ParseUserStatus(s string) (UserStatus, error) { return parseEnum("UserStatus", s, UserStatuses) }
func (s UserStatus) Valid() bool                    { return slices.Contains(UserStatuses, s) }
func (s *UserStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("UserStatus", b, s, UserStatuses)
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

func ParseGender(s string) (Gender, error)     { return parseEnum("Gender", s, Genders) }
func (g Gender) Valid() bool                   { return slices.Contains(Genders, g) }
func (g *Gender) UnmarshalJSON(b []byte) error { return unmarshalEnum("Gender", b, g, Genders) }

// GymStatus is shared by gyms and gym branches.
type GymStatus string

const (
	GymStatusActive   GymStatus = "ACTIVE"
	GymStatusInactive GymStatus = "INACTIVE"
)

var GymStatuses = []GymStatus{GymStatusActive, GymStatusInactive}

func ParseGymStatus(s string) (GymStatus, error)  { return parseEnum("GymStatus", s, GymStatuses) }
func (s GymStatus) Valid() bool                   { return slices.Contains(GymStatuses, s) }
func (s *GymStatus) UnmarshalJSON(b []byte) error { return unmarshalEnum("GymStatus", b, s, GymStatuses) }

type WallStatus string

const (
	WallStatusActive      WallStatus = "ACTIVE"
	WallStatusInactive    WallStatus = "INACTIVE"
	WallStatusMaintenance WallStatus = "MAINTENANCE"
)

var WallStatuses = []WallStatus{WallStatusActive, WallStatusInactive, WallStatusMaintenance}

func ParseWallStatus(s string) (WallStatus, error) { return parseEnum("WallStatus", s, WallStatuses) }
func (s WallStatus) Valid() bool                    { return slices.Contains(WallStatuses, s) }
func (s *WallStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("WallStatus", b, s, WallStatuses)
}

type RouteStatus string

const (
	RouteStatusActive      RouteStatus = "ACTIVE"
	RouteStatusRetired     RouteStatus = "RETIRED"
	RouteStatusMaintenance RouteStatus = "MAINTENANCE"
)

var RouteStatuses = []RouteStatus{RouteStatusActive, RouteStatusRetired, RouteStatusMaintenance}

func ParseRouteStatus(s string) (RouteStatus, error) {
	return parseEnum("RouteStatus", s, RouteStatuses)
}
func (s RouteStatus) Valid() bool { return slices.Contains(RouteStatuses, s) }
func (s *RouteStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("RouteStatus", b, s, RouteStatuses)
}

type SetterType string

const (
	SetterTypeInternal SetterType = "INTERNAL"
	SetterTypeExternal SetterType = "EXTERNAL"
	SetterTypeGuest    SetterType = "GUEST"
)

var SetterTypes = []SetterType{SetterTypeInternal, SetterTypeExternal, SetterTypeGuest}

func ParseSetterType(s string) (SetterType, error) { return parseEnum("SetterType", s, SetterTypes) }
func (t SetterType) Valid() bool                    { return slices.Contains(SetterTypes, t) }
func (t *SetterType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("SetterType", b, t, SetterTypes)
}

type TagType string

const (
	TagTypeStyle      TagType = "STYLE"
	TagTypeFeature    TagType = "FEATURE"
	TagTypeTechnique  TagType = "TECHNIQUE"
	TagTypeDifficulty TagType = "DIFFICULTY"
	TagTypeMovement   TagType = "MOVEMENT"
	TagTypeHoldType   TagType = "HOLD_TYPE"
	TagTypeWallAngle  TagType = "WALL_ANGLE"
	TagTypeOther      TagType = "OTHER"
)

var TagTypes = []TagType{
	TagTypeStyle, TagTypeFeature, TagTypeTechnique, TagTypeDifficulty,
	TagTypeMovement, TagTypeHoldType, TagTypeWallAngle, TagTypeOther,
}

func ParseTagType(s string) (TagType, error)    { return parseEnum("TagType", s, TagTypes) }
func (t TagType) Valid() bool                   { return slices.Contains(TagTypes, t) }
func (t *TagType) UnmarshalJSON(b []byte) error { return unmarshalEnum("TagType", b, t, TagTypes) }

// PreferenceLevel weights a user's tag preference.
type PreferenceLevel string

const (
	PreferenceLow    PreferenceLevel = "LOW"
	PreferenceMedium PreferenceLevel = "MEDIUM"
	PreferenceHigh   PreferenceLevel = "HIGH"
)

var PreferenceLevels = []PreferenceLevel{PreferenceLow, PreferenceMedium, PreferenceHigh}

func ParsePreferenceLevel(s string) (PreferenceLevel, error) {
	return parseEnum("PreferenceLevel", s, PreferenceLevels)
}
func (p PreferenceLevel) Valid() bool { return slices.Contains(PreferenceLevels, p) }
func (p *PreferenceLevel) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("PreferenceLevel", b, p, PreferenceLevels)
}

// Weight returns the recommendation weight published with the level.
func (p PreferenceLevel) Weight() float64 {
	switch p {
	case PreferenceLow:
		return 0.3
	case PreferenceMedium:
		return 0.7
	case PreferenceHigh:
		return 1.0
	}
	return 0
}

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillExpert       SkillLevel = "EXPERT"
)

var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert}

func ParseSkillLevel(s string) (SkillLevel, error) { return parseEnum("SkillLevel", s, SkillLevels) }
func (l SkillLevel) Valid() bool                    { return slices.Contains(SkillLevels, l) }
func (l *SkillLevel) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("SkillLevel", b, l, SkillLevels)
}

// Rank is 1 for BEGINNER up to 4 for EXPERT, 0 when unset.
func (l SkillLevel) Rank() int {
	return slices.Index(SkillLevels, l) + 1
}

type ClimbingCategory string

const (
	CategoryBouldering ClimbingCategory = "BOULDERING"
	CategorySport      ClimbingCategory = "SPORT"
	CategoryTrad       ClimbingCategory = "TRAD"
)

var ClimbingCategories = []ClimbingCategory{CategoryBouldering, CategorySport, CategoryTrad}

func ParseClimbingCategory(s string) (ClimbingCategory, error) {
	return parseEnum("ClimbingCategory", s, ClimbingCategories)
}
func (c ClimbingCategory) Valid() bool { return slices.Contains(ClimbingCategories, c) }
func (c *ClimbingCategory) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("ClimbingCategory", b, c, ClimbingCategories)
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

var PaymentStatuses = []PaymentStatus{
	PaymentPending, PaymentCompleted, PaymentFailed, PaymentCancelled, PaymentRefunded,
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	return parseEnum("PaymentStatus", s, PaymentStatuses)
}
func (s PaymentStatus) Valid() bool { return slices.Contains(PaymentStatuses, s) }
func (s *PaymentStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("PaymentStatus", b, s, PaymentStatuses)
}

type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "CARD"
	PaymentVirtualAccount PaymentMethod = "VIRTUAL_ACCOUNT"
	PaymentBankTransfer   PaymentMethod = "BANK_TRANSFER"
)

var PaymentMethods = []PaymentMethod{PaymentCard, PaymentVirtualAccount, PaymentBankTransfer}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	return parseEnum("PaymentMethod", s, PaymentMethods)
}
func (m PaymentMethod) Valid() bool { return slices.Contains(PaymentMethods, m) }
func (m *PaymentMethod) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("PaymentMethod", b, m, PaymentMethods)
}

type RefundStatus string

const (
	RefundPending   RefundStatus = "PENDING"
	RefundCompleted RefundStatus = "COMPLETED"
	RefundFailed    RefundStatus = "FAILED"
)

var RefundStatuses = []RefundStatus{RefundPending, RefundCompleted, RefundFailed}

func ParseRefundStatus(s string) (RefundStatus, error) {
	return parseEnum("RefundStatus", s, RefundStatuses)
}
func (s RefundStatus) Valid() bool { return slices.Contains(RefundStatuses, s) }
func (s *RefundStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("RefundStatus", b, s, RefundStatuses)
}

type SocialProvider string

const (
	ProviderGoogle   SocialProvider = "GOOGLE"
	ProviderKakao    SocialProvider = "KAKAO"
	ProviderNaver    SocialProvider = "NAVER"
	ProviderFacebook SocialProvider = "FACEBOOK"
)

var SocialProviders = []SocialProvider{ProviderGoogle, ProviderKakao, ProviderNaver, ProviderFacebook}

func ParseSocialProvider(s string) (SocialProvider, error) {
	return parseEnum("SocialProvider", s, SocialProviders)
}
func (p SocialProvider) Valid() bool { return slices.Contains(SocialProviders, p) }
func (p *SocialProvider) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("SocialProvider", b, p, SocialProviders)
}

// ProviderID is the lowercase identifier used in OAuth redirect paths.
func (p SocialProvider) ProviderID() string {
	switch p {
	case ProviderGoogle:
		return "google"
	case ProviderKakao:
		return "kakao"
	case ProviderNaver:
		return "naver"
	case ProviderFacebook:
		return "facebook"
	}
	return ""
}

type RealtimeUpdateType string

const (
	UpdateUserActivity RealtimeUpdateType = "USER_ACTIVITY"
	UpdateRoute        RealtimeUpdateType = "ROUTE_UPDATE"
	UpdatePayment      RealtimeUpdateType = "PAYMENT_UPDATE"
	UpdateSystemAlert  RealtimeUpdateType = "SYSTEM_ALERT"
)

var RealtimeUpdateTypes = []RealtimeUpdateType{UpdateUserActivity, UpdateRoute, UpdatePayment, UpdateSystemAlert}

func ParseRealtimeUpdateType(s string) (RealtimeUpdateType, error) {
	return parseEnum("RealtimeUpdateType", s, RealtimeUpdateTypes)
}
func (t RealtimeUpdateType) Valid() bool { return slices.Contains(RealtimeUpdateTypes, t) }
func (t *RealtimeUpdateType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("RealtimeUpdateType", b, t, RealtimeUpdateTypes)
}

// NotificationLevel is the severity of an in-console notification.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelWarning NotificationLevel = "warning"
	LevelInfo    NotificationLevel = "info"
)

var NotificationLevels = []NotificationLevel{LevelSuccess, LevelError, LevelWarning, LevelInfo}

func ParseNotificationLevel(s string) (NotificationLevel, error) {
	return parseEnum("NotificationLevel", s, NotificationLevels)
}
func (l NotificationLevel) Valid() bool { return slices.Contains(NotificationLevels, l) }
func (l *NotificationLevel) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("NotificationLevel", b, l, NotificationLevels)
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

var SortDirections = []SortDirection{SortAsc, SortDesc}

func ParseSortDirection(s string) (SortDirection, error) {
	return parseEnum("SortDirection", s, SortDirections)
}
func (d SortDirection) Valid() bool { return slices.Contains(SortDirections, d) }
func (d *SortDirection) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("SortDirection", b, d, SortDirections)
}

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatPDF  ExportFormat = "pdf"
)

var ExportFormats = []ExportFormat{FormatCSV, FormatXLSX, FormatPDF}

func ParseExportFormat(s string) (ExportFormat, error) {
	return parseEnum("ExportFormat", s, ExportFormats)
}
func (f ExportFormat) Valid() bool { return slices.Contains(ExportFormats, f) }
func (f *ExportFormat) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("ExportFormat", b, f, ExportFormats)
}

type SearchResultType string

const (
	ResultGym   SearchResultType = "gym"
	ResultRoute SearchResultType = "route"
)

var SearchResultTypes = []SearchResultType{ResultGym, ResultRoute}

func (t SearchResultType) Valid() bool { return slices.Contains(SearchResultTypes, t) }
func (t *SearchResultType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("SearchResultType", b, t, SearchResultTypes)
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

var Themes = []Theme{ThemeLight, ThemeDark, ThemeAuto}

func ParseTheme(s string) (Theme, error)      { return parseEnum("Theme", s, Themes) }
func (t Theme) Valid() bool                   { return slices.Contains(Themes, t) }
func (t *Theme) UnmarshalJSON(b []byte) error { return unmarshalEnum("Theme", b, t, Themes) }

type Language string

const (
	LanguageKorean  Language = "ko"
	LanguageEnglish Language = "en"
)

var Languages = []Language{LanguageKorean, LanguageEnglish}

func ParseLanguage(s string) (Language, error)   { return parseEnum("Language", s, Languages) }
func (l Language) Valid() bool                   { return slices.Contains(Languages, l) }
func (l *Language) UnmarshalJSON(b []byte) error { return unmarshalEnum("Language", b, l, Languages) }

// NotificationType is the backend category of a push notification.
type NotificationType string

const (
	NotificationSystem      NotificationType = "SYSTEM"
	NotificationComment     NotificationType = "COMMENT"
	NotificationLike        NotificationType = "LIKE"
	NotificationFollow      NotificationType = "FOLLOW"
	NotificationClimb       NotificationType = "CLIMB"
	NotificationRouteUpdate NotificationType = "ROUTE_UPDATE"
	NotificationPayment     NotificationType = "PAYMENT"
)

var NotificationTypes = []NotificationType{
	NotificationSystem, NotificationComment, NotificationLike, NotificationFollow,
	NotificationClimb, NotificationRouteUpdate, NotificationPayment,
}

func ParseNotificationType(s string) (NotificationType, error) {
	return parseEnum("NotificationType", s, NotificationTypes)
}
func (t NotificationType) Valid() bool { return slices.Contains(NotificationTypes, t) }
func (t *NotificationType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum("NotificationType", b, t, NotificationTypes)
}
