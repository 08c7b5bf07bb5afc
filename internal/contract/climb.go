package contract

type UserClimb struct {
	ClimbID     int64  `json:"climbId"`
	UserID      int64  `json:"userId"`
	RouteID     int64  `json:"routeId" validate:"required"`
	ClimbDate   Date   `json:"climbDate"`
	Attempts    int    `json:"attempts" validate:"min=1"`
	IsCompleted bool   `json:"isCompleted"`
	Rating      *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Notes       string `json:"notes,omitempty"`
	User        *User  `json:"user,omitempty"`
	Route       *Route `json:"route,omitempty"`
	Audit
}

// RouteRecommendation is a backend-computed suggestion. Scores are in [0, 100].
type RouteRecommendation struct {
	RecommendationID    int64        `json:"recommendationId"`
	UserID              int64        `json:"userId"`
	RouteID             int64        `json:"routeId" validate:"required"`
	RecommendationScore float64      `json:"recommendationScore" validate:"min=0,max=100"`
	TagMatchScore       *float64     `json:"tagMatchScore,omitempty" validate:"omitempty,min=0,max=100"`
	LevelMatchScore     *float64     `json:"levelMatchScore,omitempty" validate:"omitempty,min=0,max=100"`
	CalculatedAt        Timestamp    `json:"calculatedAt"`
	IsActive            bool         `json:"isActive"`
	Route               *Route       `json:"route,omitempty"`
	RouteImages         []RouteImage `json:"routeImages,omitempty" validate:"dive"`
	RouteTags           []RouteTag   `json:"routeTags,omitempty" validate:"dive"`
}
