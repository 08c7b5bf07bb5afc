package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/son-changwook/routepick/internal/contract"
)

type DashboardService struct{ c *Client }

func (s *DashboardService) Stats(ctx context.Context) (*contract.DashboardStats, error) {
	var stats contract.DashboardStats
	if err := s.c.do(ctx, call{op: "dashboard.stats", method: http.MethodGet, path: "/api/dashboard/stats"}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// TimeSeries returns daily values of metric between from and to inclusive.
func (s *DashboardService) TimeSeries(ctx context.Context, metric string, from, to contract.Date) ([]contract.TimeSeriesData, error) {
	q := url.Values{"metric": {metric}, "from": {from.String()}, "to": {to.String()}}
	var series []contract.TimeSeriesData
	if err := s.c.do(ctx, call{op: "dashboard.timeseries", method: http.MethodGet, path: "/api/dashboard/timeseries", query: q}, &series); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *DashboardService) Chart(ctx context.Context, name string) (*contract.ChartData, error) {
	var chart contract.ChartData
	if err := s.c.do(ctx, call{op: "dashboard.chart", method: http.MethodGet, path: "/api/dashboard/charts/" + url.PathEscape(name)}, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

type NotificationService struct{ c *Client }

func (s *NotificationService) List(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.PushNotification], error) {
	var page contract.PageResponse[contract.PushNotification]
	if err := s.c.do(ctx, call{op: "notifications.list", method: http.MethodGet, path: "/api/notifications", query: f.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.c.do(ctx, call{op: "notifications.read", method: http.MethodPut, path: idPath("/api/notifications/%d/read", id)}, nil)
}
