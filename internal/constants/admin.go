package constants

import (
	"fmt"
	"strings"
)

const (
	AdminAppName     = "RoutePickr Admin"
	AdminAppVersion  = "1.0.0"
	AdminDescription = "RoutePickr 관리자 웹 애플리케이션"
	AdminCopyright   = "© 2025 RoutePickr. All rights reserved."
)

// Admin console page paths. ":id" is substituted by Path.
const (
	RouteLogin         = "/login"
	RouteDashboard     = "/dashboard"
	RouteGymList       = "/gym"
	RouteGymDetail     = "/gym/:id"
	RouteGymCreate     = "/gym/create"
	RouteGymEdit       = "/gym/:id/edit"
	RouteRouteList     = "/route"
	RouteRouteDetail   = "/route/:id"
	RouteRouteCreate   = "/route/create"
	RouteRouteEdit     = "/route/:id/edit"
	RouteTagList       = "/tags"
	RouteTagCreate     = "/tags/create"
	RouteTagEdit       = "/tags/:id/edit"
	RouteUserList      = "/users"
	RouteUserDetail    = "/users/:id"
	RoutePaymentList   = "/payments"
	RoutePaymentDetail = "/payments/:id"
	RouteSettings      = "/settings"
	RouteProfile       = "/profile"
)

// Path fills the ":id" placeholder of an admin route.
func Path(route string, id int64) string {
	return strings.Replace(route, ":id", fmt.Sprint(id), 1)
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var PageSizeOptions = []int{10, 20, 50, 100}

// ShowTotal renders the table footer, e.g. "1-20 of 135 items".
func ShowTotal(total, from, to int) string {
	return fmt.Sprintf("%d-%d of %d items", from, to, total)
}

// PageRange returns the 1-based item range shown on a 0-based page.
func PageRange(page, size, total int) (from, to int) {
	if total == 0 {
		return 0, 0
	}
	from = page*size + 1
	to = min(from+size-1, total)
	return from, to
}

type TableSettings struct {
	ScrollY          string `json:"scrollY"`
	RowSelectionType string `json:"rowSelectionType"`
	Size             string `json:"size"`
	Bordered         bool   `json:"bordered"`
	ShowQuickJumper  bool   `json:"showQuickJumper"`
	ShowSizeChanger  bool   `json:"showSizeChanger"`
}

var DefaultTableSettings = TableSettings{
	ScrollY:          "calc(100vh - 320px)",
	RowSelectionType: "checkbox",
	Size:             "middle",
	Bordered:         true,
	ShowQuickJumper:  true,
	ShowSizeChanger:  true,
}

var ChartColors = map[string]string{
	"PRIMARY":   "#1890ff",
	"SUCCESS":   "#52c41a",
	"WARNING":   "#faad14",
	"ERROR":     "#ff4d4f",
	"INFO":      "#13c2c2",
	"PURPLE":    "#722ed1",
	"MAGENTA":   "#eb2f96",
	"VOLCANO":   "#fa541c",
	"ORANGE":    "#fa8c16",
	"GOLD":      "#fadb14",
	"LIME":      "#a0d911",
	"GREEN":     "#52c41a",
	"CYAN":      "#13c2c2",
	"BLUE":      "#1890ff",
	"GEEK_BLUE": "#2f54eb",
	"PURPLE_2":  "#722ed1",
}

// ChartPalette is the order series colours are assigned in.
var ChartPalette = []string{
	"#1890ff", "#52c41a", "#faad14", "#ff4d4f", "#13c2c2", "#722ed1",
	"#eb2f96", "#fa541c", "#fa8c16", "#fadb14", "#a0d911", "#2f54eb",
}

const MaxUploadBytes = 50 << 20

var (
	AllowedImageTypes    = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	AllowedVideoTypes    = []string{"video/mp4", "video/webm", "video/ogg"}
	AllowedDocumentTypes = []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}
)

// Admin notification types.
const (
	AdminNotifySystem      = "SYSTEM"
	AdminNotifyUserAction  = "USER_ACTION"
	AdminNotifyPayment     = "PAYMENT"
	AdminNotifyRouteUpdate = "ROUTE_UPDATE"
	AdminNotifyGymUpdate   = "GYM_UPDATE"
)

const (
	WidgetStatCard     = "STAT_CARD"
	WidgetLineChart    = "LINE_CHART"
	WidgetBarChart     = "BAR_CHART"
	WidgetPieChart     = "PIE_CHART"
	WidgetTable        = "TABLE"
	WidgetMap          = "MAP"
	WidgetActivityFeed = "ACTIVITY_FEED"
)

const (
	ChartLine     = "line"
	ChartBar      = "bar"
	ChartPie      = "pie"
	ChartDoughnut = "doughnut"
	ChartArea     = "area"
	ChartScatter  = "scatter"
)

// Date formats as Go layouts.
const (
	FormatDate            = "2006-01-02"
	FormatDateTime        = "2006-01-02 15:04:05"
	FormatTime            = "15:04:05"
	FormatMonth           = "2006-01"
	FormatYear            = "2006"
	FormatDisplayDate     = "2006년 01월 02일"
	FormatDisplayDateTime = "2006년 01월 02일 15:04"
)
