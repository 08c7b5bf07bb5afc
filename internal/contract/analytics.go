package contract

import (
	"bytes"
	"encoding/json"
)

type DashboardStats struct {
	TotalUsers       int64   `json:"totalUsers"`
	ActiveUsers      int64   `json:"activeUsers"`
	TotalGyms        int64   `json:"totalGyms"`
	TotalRoutes      int64   `json:"totalRoutes"`
	TotalClimbs      int64   `json:"totalClimbs"`
	RevenueThisMonth int64   `json:"revenueThisMonth"`
	UserGrowthRate   float64 `json:"userGrowthRate"`
	RouteGrowthRate  float64 `json:"routeGrowthRate"`
}

type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor *Colors   `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BorderWidth     *float64  `json:"borderWidth,omitempty"`
}

// Colors is either a single colour or one colour per data point.
type Colors struct {
	Values []string
	List   bool
}

func SingleColor(c string) *Colors   { return &Colors{Values: []string{c}} }
func ColorList(cs ...string) *Colors { return &Colors{Values: cs, List: true} }

func (c Colors) MarshalJSON() ([]byte, error) {
	if !c.List && len(c.Values) == 1 {
		return json.Marshal(c.Values[0])
	}
	if c.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Values)
}

func (c *Colors) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var vs []string
		if err := json.Unmarshal(b, &vs); err != nil {
			return err
		}
		*c = Colors{Values: vs, List: true}
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = Colors{Values: []string{v}}
	return nil
}

type TimeSeriesData struct {
	Date     Date    `json:"date"`
	Value    float64 `json:"value"`
	Category string  `json:"category,omitempty"`
}
