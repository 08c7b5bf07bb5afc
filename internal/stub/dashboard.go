package stub

import (
	"time"

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultSeriesDays = 7
	maxSeriesDays     = 366
)

func registerDashboard(r fiber.Router, s *Server, jwt fiber.Handler) {
	guard := auth.RequirePermission(constants.PermGymView)
	r.Get("/stats", jwt, guard, s.dashboardStats)
	r.Get("/timeseries", jwt, guard, s.timeSeries)
	r.Get("/charts/:name", jwt, guard, s.chart)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// growth is the percentage change from prev to cur, rounded to one decimal.
func growth(prev, cur int64) float64 {
	if prev == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	pct := float64(cur-prev) / float64(prev) * 100
	return float64(int64(pct*10+0.5*sign(pct))) / 10
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// revenue is completed payments minus completed refunds created in [from, to).
func (d *dataset) revenue(from, to time.Time) int64 {
	var total int64
	for _, p := range d.payments {
		at := p.CreatedAt.UTC()
		if p.PaymentStatus != contract.PaymentCompleted || at.Before(from) || !at.Before(to) {
			continue
		}
		total += p.Amount - p.Refunded()
	}
	return total
}

func (s *Server) dashboardStats(c *fiber.Ctx) error {
	var stats contract.DashboardStats
	_ = s.Fixtures.do(func(d *dataset) error {
		now := d.now().UTC()
		thisMonth := monthStart(now)
		lastMonth := thisMonth.AddDate(0, -1, 0)
		var usersNow, usersPrev, routesNow, routesPrev int64
		for _, a := range d.accounts {
			stats.TotalUsers++
			if a.user.UserStatus == contract.UserStatusActive {
				stats.ActiveUsers++
			}
			switch at := a.user.CreatedAt.UTC(); {
			case !at.Before(thisMonth):
				usersNow++
			case !at.Before(lastMonth):
				usersPrev++
			}
		}
		for _, r := range d.routes {
			stats.TotalRoutes++
			switch at := r.CreatedAt.UTC(); {
			case !at.Before(thisMonth):
				routesNow++
			case !at.Before(lastMonth):
				routesPrev++
			}
		}
		stats.TotalGyms = int64(len(d.gyms))
		stats.TotalClimbs = int64(len(d.climbs))
		stats.RevenueThisMonth = d.revenue(thisMonth, thisMonth.AddDate(0, 1, 0))
		stats.UserGrowthRate = growth(usersPrev, usersNow)
		stats.RouteGrowthRate = growth(routesPrev, routesNow)
		return nil
	})
	return ok(c, stats)
}

// timeSeries returns one point per day between from and to inclusive.
func (s *Server) timeSeries(c *fiber.Ctx) error {
	metric := c.Query("metric", "users")
	from, err := queryDate(c, "from")
	if err != nil {
		return err
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return err
	}

	var series []contract.TimeSeriesData
	err = s.Fixtures.do(func(d *dataset) error {
		end := d.today()
		if to != nil {
			end = *to
		}
		start := contract.Date{Time: end.AddDate(0, 0, -(defaultSeriesDays - 1))}
		if from != nil {
			start = *from
		}
		if end.Before(start.Time) {
			return invalid("to", "before from")
		}
		days := int(end.Sub(start.Time).Hours()/24) + 1
		if days > maxSeriesDays {
			return invalid("from", "range longer than a year")
		}
		counts, err := d.daily(metric)
		if err != nil {
			return err
		}
		series = make([]contract.TimeSeriesData, 0, days)
		for i := 0; i < days; i++ {
			day := contract.Date{Time: start.AddDate(0, 0, i)}
			series = append(series, contract.TimeSeriesData{Date: day, Value: counts[day.String()], Category: metric})
		}
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, series)
}

// daily buckets a metric by calendar day.
func (d *dataset) daily(metric string) (map[string]float64, error) {
	out := map[string]float64{}
	day := func(t time.Time) string { return t.UTC().Format(time.DateOnly) }
	switch metric {
	case "users":
		for _, a := range d.accounts {
			out[day(a.user.CreatedAt.Time)]++
		}
	case "routes":
		for _, r := range d.routes {
			out[day(r.CreatedAt.Time)]++
		}
	case "climbs":
		for _, cl := range d.climbs {
			out[cl.ClimbDate.String()]++
		}
	case "revenue":
		for _, p := range d.payments {
			if p.PaymentStatus == contract.PaymentCompleted {
				out[day(p.CreatedAt.Time)] += float64(p.Amount - p.Refunded())
			}
		}
	default:
		return nil, invalid("metric", "unknown metric "+metric)
	}
	return out, nil
}

func (s *Server) chart(c *fiber.Ctx) error {
	name := c.Params("name")
	var chart contract.ChartData
	err := s.Fixtures.do(func(d *dataset) error {
		switch name {
		case "routes-by-status":
			counts := map[contract.RouteStatus]float64{}
			for _, r := range d.routes {
				counts[r.RouteStatus]++
			}
			chart = pie("루트 상태", contract.RouteStatuses, counts, constants.RouteStatusLabels)
		case "routes-by-level":
			counts := map[int64]float64{}
			for _, r := range d.routes {
				counts[r.LevelID]++
			}
			ds := contract.ChartDataset{Label: "레벨별 루트", BackgroundColor: contract.SingleColor(constants.ChartColors["PRIMARY"])}
			for _, id := range sortedIDs(d.levels) {
				chart.Labels = append(chart.Labels, d.levels[id].LevelName)
				ds.Data = append(ds.Data, counts[id])
			}
			chart.Datasets = []contract.ChartDataset{ds}
		case "payments-by-method":
			sums := map[contract.PaymentMethod]float64{}
			for _, p := range d.payments {
				if p.PaymentStatus == contract.PaymentCompleted {
					sums[p.PaymentMethod] += float64(p.Amount - p.Refunded())
				}
			}
			chart = pie("결제 수단", contract.PaymentMethods, sums, nil)
		case "users-by-type":
			counts := map[contract.UserType]float64{}
			for _, a := range d.accounts {
				counts[a.user.UserType]++
			}
			chart = pie("사용자 유형", contract.UserTypes, counts, constants.UserTypeLabels)
		default:
			return &Error{Status: fiber.StatusNotFound, Code: "CHART_NOT_FOUND", Message: "unknown chart " + name}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, chart)
}

// pie builds a single-series chart over every value of an enumeration,
// one palette colour per slice.
func pie[T ~string](label string, values []T, counts map[T]float64, labels map[T]string) contract.ChartData {
	chart := contract.ChartData{}
	ds := contract.ChartDataset{Label: label}
	colors := make([]string, 0, len(values))
	for i, v := range values {
		chart.Labels = append(chart.Labels, constants.Label(labels, v))
		ds.Data = append(ds.Data, counts[v])
		colors = append(colors, constants.ChartPalette[i%len(constants.ChartPalette)])
	}
	ds.BackgroundColor = contract.ColorList(colors...)
	chart.Datasets = []contract.ChartDataset{ds}
	return chart
}
