package contract

type Route struct {
	RouteID     int64          `json:"routeId" validate:"required"`
	BranchID    int64          `json:"branchId"`
	WallID      int64          `json:"wallId"`
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description,omitempty"`
	LevelID     int64          `json:"levelId"`
	Color       string         `json:"color,omitempty"`
	Angle       *int           `json:"angle,omitempty" validate:"omitempty,min=0,max=90"`
	SetterID    *int64         `json:"setterId,omitempty"`
	SetDate     *Date          `json:"setDate,omitempty"`
	RetireDate  *Date          `json:"retireDate,omitempty"`
	RouteStatus RouteStatus    `json:"routeStatus" validate:"required,enum"`
	Wall        *Wall          `json:"wall,omitempty"`
	Level       *ClimbingLevel `json:"level,omitempty"`
	Setter      *RouteSetter   `json:"setter,omitempty"`
	RouteImages []RouteImage   `json:"routeImages,omitempty" validate:"dive"`
	RouteVideos []RouteVideo   `json:"routeVideos,omitempty" validate:"dive"`
	RouteTags   []RouteTag     `json:"routeTags,omitempty" validate:"dive"`
	Audit
}

// MainImage returns the image flagged as main, else the first by display order.
func (r Route) MainImage() (RouteImage, bool) {
	var best RouteImage
	found := false
	for _, img := range r.RouteImages {
		if img.IsMain {
			return img, true
		}
		if !found || img.DisplayOrder < best.DisplayOrder {
			best, found = img, true
		}
	}
	return best, found
}

type RouteSetter struct {
	SetterID        int64      `json:"setterId" validate:"required"`
	Name            string     `json:"name" validate:"required"`
	SetterType      SetterType `json:"setterType" validate:"required,enum"`
	Bio             string     `json:"bio,omitempty"`
	ProfileImageURL string     `json:"profileImageUrl,omitempty"`
	Audit
}

type RouteImage struct {
	ImageID      int64  `json:"imageId"`
	RouteID      int64  `json:"routeId"`
	ImageURL     string `json:"imageUrl" validate:"required"`
	IsMain       bool   `json:"isMain"`
	DisplayOrder int    `json:"displayOrder" validate:"min=0"`
	Audit
}

type RouteVideo struct {
	VideoID      int64    `json:"videoId"`
	RouteID      int64    `json:"routeId"`
	VideoURL     string   `json:"videoUrl" validate:"required"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	Duration     *float64 `json:"duration,omitempty" validate:"omitempty,min=0"`
	Audit
}

// ClimbingLevel is a grade such as V0 or 5.10a.
type ClimbingLevel struct {
	LevelID      int64            `json:"levelId" validate:"required"`
	LevelName    string           `json:"levelName" validate:"required"`
	Difficulty   float64          `json:"difficulty"`
	Category     ClimbingCategory `json:"category" validate:"required,enum"`
	DisplayOrder int              `json:"displayOrder"`
}
