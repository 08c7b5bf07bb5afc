package contract

type Tag struct {
	TagID            int64   `json:"tagId" validate:"required"`
	TagName          string  `json:"tagName" validate:"required,max=50"`
	TagType          TagType `json:"tagType" validate:"required,enum"`
	TagCategory      string  `json:"tagCategory,omitempty"`
	Description      string  `json:"description,omitempty"`
	IsUserSelectable bool    `json:"isUserSelectable"`
	IsRouteTaggable  bool    `json:"isRouteTaggable"`
	DisplayOrder     int     `json:"displayOrder"`
	UsageCount       *int64  `json:"usageCount,omitempty"`
	Audit
}

// RouteTag links a tag to a route with a relevance in [0, 1].
// Its createdBy is the numeric id of the tagging user and shadows Audit.CreatedBy.
type RouteTag struct {
	RouteTagID     int64   `json:"routeTagId"`
	RouteID        int64   `json:"routeId"`
	TagID          int64   `json:"tagId" validate:"required"`
	RelevanceScore float64 `json:"relevanceScore" validate:"min=0,max=1"`
	CreatedBy      *int64  `json:"createdBy,omitempty"`
	Tag            *Tag    `json:"tag,omitempty"`
	Audit
}

type UserPreferredTag struct {
	UserTagID       int64           `json:"userTagId"`
	UserID          int64           `json:"userId"`
	TagID           int64           `json:"tagId" validate:"required"`
	PreferenceLevel PreferenceLevel `json:"preferenceLevel" validate:"required,enum"`
	SkillLevel      SkillLevel      `json:"skillLevel" validate:"required,enum"`
	Tag             *Tag            `json:"tag,omitempty"`
	Audit
}
