package contract

import (
	"net/url"
	"strconv"
)

// BaseFilter pages and sorts a list request. A nil Page or Size means the default.
type BaseFilter struct {
	Page      *int          `json:"page,omitempty"`
	Size      *int          `json:"size,omitempty"`
	Sort      string        `json:"sort,omitempty"`
	Direction SortDirection `json:"direction,omitempty" validate:"omitempty,enum"`
}

func (f BaseFilter) PageRequest() PageRequest {
	var r PageRequest
	if f.Page != nil {
		r.Page = *f.Page
	}
	if f.Size != nil {
		r.Size = *f.Size
	}
	r.Sort = f.Sort
	r.Direction = f.Direction
	return r.Normalize()
}

// WithPage returns a copy addressing page n.
func (f BaseFilter) WithPage(n int) BaseFilter {
	f.Page = &n
	return f
}

func (f BaseFilter) Values() url.Values {
	v := url.Values{}
	pageValues(f.PageRequest(), v.Set)
	return v
}

type GymFilter struct {
	BaseFilter
	Name       string    `json:"name,omitempty"`
	GymAdminID *int64    `json:"gymAdminId,omitempty"`
	Status     GymStatus `json:"status,omitempty" validate:"omitempty,enum"`
}

func (f GymFilter) Values() url.Values {
	v := f.BaseFilter.Values()
	setString(v, "name", f.Name)
	setID(v, "gymAdminId", f.GymAdminID)
	setString(v, "status", string(f.Status))
	return v
}

type RouteFilter struct {
	BaseFilter
	Name     string      `json:"name,omitempty"`
	BranchID *int64      `json:"branchId,omitempty"`
	LevelID  *int64      `json:"levelId,omitempty"`
	Status   RouteStatus `json:"status,omitempty" validate:"omitempty,enum"`
	TagIDs   []int64     `json:"tagIds,omitempty"`
	SetterID *int64      `json:"setterId,omitempty"`
}

func (f RouteFilter) Values() url.Values {
	v := f.BaseFilter.Values()
	setString(v, "name", f.Name)
	setID(v, "branchId", f.BranchID)
	setID(v, "levelId", f.LevelID)
	setString(v, "status", string(f.Status))
	addIDs(v, "tagIds", f.TagIDs)
	setID(v, "setterId", f.SetterID)
	return v
}

type TagFilter struct {
	BaseFilter
	Name    string  `json:"name,omitempty"`
	TagType TagType `json:"tagType,omitempty" validate:"omitempty,enum"`
}

func (f TagFilter) Values() url.Values {
	v := f.BaseFilter.Values()
	setString(v, "name", f.Name)
	setString(v, "tagType", string(f.TagType))
	return v
}

type UserFilter struct {
	BaseFilter
	Email    string     `json:"email,omitempty"`
	NickName string     `json:"nickName,omitempty"`
	UserType UserType   `json:"userType,omitempty" validate:"omitempty,enum"`
	Status   UserStatus `json:"status,omitempty" validate:"omitempty,enum"`
}

func (f UserFilter) Values() url.Values {
	v := f.BaseFilter.Values()
	setString(v, "email", f.Email)
	setString(v, "nickName", f.NickName)
	setString(v, "userType", string(f.UserType))
	setString(v, "status", string(f.Status))
	return v
}

type PaymentFilter struct {
	BaseFilter
	UserID        *int64        `json:"userId,omitempty"`
	Status        PaymentStatus `json:"status,omitempty" validate:"omitempty,enum"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty" validate:"omitempty,enum"`
	StartDate     *Date         `json:"startDate,omitempty"`
	EndDate       *Date         `json:"endDate,omitempty"`
}

func (f PaymentFilter) Values() url.Values {
	v := f.BaseFilter.Values()
	setID(v, "userId", f.UserID)
	setString(v, "status", string(f.Status))
	setString(v, "paymentMethod", string(f.PaymentMethod))
	if f.StartDate != nil {
		v.Set("startDate", f.StartDate.String())
	}
	if f.EndDate != nil {
		v.Set("endDate", f.EndDate.String())
	}
	return v
}

type DifficultyRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

type SearchArea struct {
	Center Location `json:"center"`
	Radius float64  `json:"radius" validate:"gt=0"`
}

// SearchFilters narrow a gym/route search. Radius is in kilometres.
type SearchFilters struct {
	Query      string           `json:"query,omitempty"`
	BranchIDs  []int64          `json:"branchIds,omitempty"`
	LevelIDs   []int64          `json:"levelIds,omitempty"`
	TagIDs     []int64          `json:"tagIds,omitempty"`
	Difficulty *DifficultyRange `json:"difficulty,omitempty"`
	Location   *SearchArea      `json:"location,omitempty"`
}

func (f SearchFilters) Values() url.Values {
	v := url.Values{}
	setString(v, "query", f.Query)
	addIDs(v, "branchIds", f.BranchIDs)
	addIDs(v, "levelIds", f.LevelIDs)
	addIDs(v, "tagIds", f.TagIDs)
	if d := f.Difficulty; d != nil {
		v.Set("minDifficulty", formatFloat(d.Min))
		v.Set("maxDifficulty", formatFloat(d.Max))
	}
	if l := f.Location; l != nil {
		v.Set("latitude", formatFloat(l.Center.Latitude))
		v.Set("longitude", formatFloat(l.Center.Longitude))
		v.Set("radius", formatFloat(l.Radius))
	}
	return v
}

func setString(v url.Values, k, s string) {
	if s != "" {
		v.Set(k, s)
	}
}

func setID(v url.Values, k string, id *int64) {
	if id != nil {
		v.Set(k, strconv.FormatInt(*id, 10))
	}
}

func addIDs(v url.Values, k string, ids []int64) {
	for _, id := range ids {
		v.Add(k, strconv.FormatInt(id, 10))
	}
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
