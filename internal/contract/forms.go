package contract

import "encoding/json"

type RegisterFormData struct {
	Email            string `json:"email" validate:"required,email,max=100"`
	Password         string `json:"password" validate:"required,password"`
	ConfirmPassword  string `json:"confirmPassword" validate:"required,eqfield=Password"`
	NickName         string `json:"nickName" validate:"required,nickname"`
	AgreeToTerms     bool   `json:"agreeToTerms" validate:"required"`
	AgreeToPrivacy   bool   `json:"agreeToPrivacy" validate:"required"`
	AgreeToMarketing *bool  `json:"agreeToMarketing,omitempty"`
}

type ProfileUpdateFormData struct {
	NickName string   `json:"nickName" validate:"required,nickname"`
	Bio      string   `json:"bio,omitempty" validate:"max=500"`
	Height   *float64 `json:"height,omitempty" validate:"omitempty,gt=0,lt=300"`
	Weight   *float64 `json:"weight,omitempty" validate:"omitempty,gt=0,lt=500"`
	LevelID  *int64   `json:"levelId,omitempty"`
}

type GymFormData struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	GymAdminID  int64  `json:"gymAdminId" validate:"required"`
}

// GymBranchFormData only accepts coordinates inside South Korea.
type GymBranchFormData struct {
	BranchName    string          `json:"branchName" validate:"required,max=100"`
	Address       string          `json:"address" validate:"required"`
	DetailAddress string          `json:"detailAddress,omitempty"`
	ContactPhone  string          `json:"contactPhone,omitempty" validate:"max=20"`
	Latitude      float64         `json:"latitude" validate:"min=33,max=38.6"`
	Longitude     float64         `json:"longitude" validate:"min=124,max=132"`
	BusinessHours json.RawMessage `json:"businessHours,omitempty"`
	Amenities     []string        `json:"amenities,omitempty"`
}

type RouteFormData struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description,omitempty"`
	LevelID     int64   `json:"levelId" validate:"required"`
	Color       string  `json:"color,omitempty"`
	Angle       *int    `json:"angle,omitempty" validate:"omitempty,min=0,max=90"`
	SetterID    *int64  `json:"setterId,omitempty"`
	SetDate     *Date   `json:"setDate,omitempty"`
	TagIDs      []int64 `json:"tagIds" validate:"dive,gt=0"`
}

type TagFormData struct {
	TagName          string  `json:"tagName" validate:"required,max=50"`
	TagType          TagType `json:"tagType" validate:"required,enum"`
	TagCategory      string  `json:"tagCategory,omitempty"`
	Description      string  `json:"description,omitempty"`
	IsUserSelectable bool    `json:"isUserSelectable"`
	IsRouteTaggable  bool    `json:"isRouteTaggable"`
	DisplayOrder     int     `json:"displayOrder" validate:"min=0"`
}

type UserFormData struct {
	Email    string   `json:"email" validate:"required,email,max=100"`
	NickName string   `json:"nickName" validate:"required,nickname"`
	UserType UserType `json:"userType" validate:"required,enum"`
	Password string   `json:"password,omitempty" validate:"omitempty,password"`
}

type RouteStatusRequest struct {
	RouteStatus RouteStatus `json:"routeStatus" validate:"required,enum"`
}

type RefundRequest struct {
	RefundAmount int64  `json:"refundAmount" validate:"gt=0"`
	RefundReason string `json:"refundReason" validate:"required,max=500"`
}

type ClimbLogRequest struct {
	RouteID     int64  `json:"routeId" validate:"required"`
	ClimbDate   Date   `json:"climbDate"`
	Attempts    int    `json:"attempts" validate:"min=1"`
	IsCompleted bool   `json:"isCompleted"`
	Rating      *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Notes       string `json:"notes,omitempty" validate:"max=1000"`
}

type PreferredTagRequest struct {
	TagID           int64           `json:"tagId" validate:"required"`
	PreferenceLevel PreferenceLevel `json:"preferenceLevel" validate:"required,enum"`
	SkillLevel      SkillLevel      `json:"skillLevel" validate:"required,enum"`
}
