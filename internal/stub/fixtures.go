package stub

import (
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/son-changwook/routepick/internal/contract"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "routepick1!"

// Seeded account emails.
const (
	AdminEmail     = "admin@routepick.kr"
	GymAdminEmail  = "gym@routepick.kr"
	ClimberEmail   = "climber@routepick.kr"
	SuspendedEmail = "suspended@routepick.kr"
)

var bcryptCost = bcrypt.DefaultCost

type account struct {
	user         contract.User
	profile      contract.UserProfile
	passwordHash []byte
	socialKey    string
}

type verification struct {
	email     string
	code      string
	expiresAt time.Time
	failures  int
}

type registration struct {
	email     string
	expiresAt time.Time
}

// dataset is the mutable fixture state. It is only touched through
// Fixtures.do, which holds the lock.
type dataset struct {
	seq             int64
	now             func() time.Time
	accounts        map[int64]*account
	gyms            map[int64]*contract.Gym
	branches        map[int64]*contract.GymBranch
	walls           map[int64]*contract.Wall
	levels          map[int64]contract.ClimbingLevel
	setters         map[int64]contract.RouteSetter
	routes          map[int64]*contract.Route
	tags            map[int64]*contract.Tag
	routeTags       map[int64][]contract.RouteTag
	images          map[int64][]contract.RouteImage
	videos          map[int64][]contract.RouteVideo
	preferred       map[int64][]contract.UserPreferredTag
	payments        map[int64]*contract.PaymentRecord
	climbs          map[int64]*contract.UserClimb
	recommendations map[int64][]contract.RouteRecommendation
	notifications   map[int64]*contract.PushNotification
	verifications   map[string]verification
	registrations   map[string]registration
	refreshTokens   map[string]int64
}

// Fixtures is the stub's in-memory backend state.
type Fixtures struct {
	mu   sync.Mutex
	data dataset
}

func (f *Fixtures) do(fn func(d *dataset) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(&f.data)
}

func (d *dataset) nextID() int64 {
	d.seq++
	return d.seq
}

func (d *dataset) stamp() contract.Audit {
	return contract.Audit{CreatedAt: contract.NewTimestamp(d.now().UTC()), CreatedBy: "stub"}
}

func (d *dataset) touch(a *contract.Audit, by string) {
	ts := contract.NewTimestamp(d.now().UTC())
	a.UpdatedAt = &ts
	a.ModifiedBy = by
}

func (d *dataset) today() contract.Date {
	y, m, day := d.now().UTC().Date()
	return contract.NewDate(y, m, day)
}

func (d *dataset) accountByEmail(email string) *account {
	for _, a := range d.accounts {
		if strings.EqualFold(a.user.Email, email) {
			return a
		}
	}
	return nil
}

func (d *dataset) addAccount(u contract.User, password string) (*account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	if u.UserID == 0 {
		u.UserID = d.nextID()
	}
	if u.UserStatus == "" {
		u.UserStatus = contract.UserStatusActive
	}
	if u.CreatedAt.IsZero() {
		u.Audit = d.stamp()
	}
	a := &account{
		user:         u,
		profile:      contract.UserProfile{ProfileID: u.UserID, UserID: u.UserID, NickName: u.NickName, Audit: u.Audit},
		passwordHash: hash,
	}
	d.accounts[u.UserID] = a
	return a, nil
}

// route returns a copy of a route with its level, setter, wall, tags and media attached.
func (d *dataset) route(id int64) (contract.Route, bool) {
	r, ok := d.routes[id]
	if !ok {
		return contract.Route{}, false
	}
	out := *r
	if lvl, ok := d.levels[r.LevelID]; ok {
		out.Level = &lvl
	}
	if r.SetterID != nil {
		if s, ok := d.setters[*r.SetterID]; ok {
			out.Setter = &s
		}
	}
	if w, ok := d.walls[r.WallID]; ok {
		wall := *w
		wall.Routes = nil
		out.Wall = &wall
	}
	out.RouteTags = d.tagsOf(id)
	out.RouteImages = slices.Clone(d.images[id])
	out.RouteVideos = slices.Clone(d.videos[id])
	return out, true
}

func (d *dataset) tagsOf(routeID int64) []contract.RouteTag {
	links := d.routeTags[routeID]
	out := make([]contract.RouteTag, 0, len(links))
	for _, rt := range links {
		if t, ok := d.tags[rt.TagID]; ok {
			tag := *t
			rt.Tag = &tag
		}
		out = append(out, rt)
	}
	return out
}

func (d *dataset) tag(id int64) (contract.Tag, bool) {
	t, ok := d.tags[id]
	if !ok {
		return contract.Tag{}, false
	}
	out := *t
	var n int64
	for _, links := range d.routeTags {
		for _, rt := range links {
			if rt.TagID == id {
				n++
			}
		}
	}
	out.UsageCount = &n
	return out, true
}

func (d *dataset) gym(id int64) (contract.Gym, bool) {
	g, ok := d.gyms[id]
	if !ok {
		return contract.Gym{}, false
	}
	out := *g
	out.Branches = d.branchesOf(id)
	return out, true
}

func (d *dataset) branchesOf(gymID int64) []contract.GymBranch {
	out := []contract.GymBranch{}
	for _, b := range d.branches {
		if b.GymID == gymID {
			out = append(out, *b)
		}
	}
	slices.SortFunc(out, func(a, b contract.GymBranch) int { return int(a.BranchID - b.BranchID) })
	return out
}

func (d *dataset) wallsOf(branchID int64) []contract.Wall {
	out := []contract.Wall{}
	for _, w := range d.walls {
		if w.BranchID == branchID {
			out = append(out, *w)
		}
	}
	slices.SortFunc(out, func(a, b contract.Wall) int { return int(a.WallID - b.WallID) })
	return out
}

// linkTags replaces a route's tags. Every id must name a route-taggable tag.
func (d *dataset) linkTags(routeID int64, tagIDs []int64, by *int64) error {
	links := make([]contract.RouteTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		t, ok := d.tags[id]
		if !ok {
			return notFound("TAG", id)
		}
		if !t.IsRouteTaggable {
			return invalid("tagIds", "tag "+t.TagName+" cannot be attached to routes")
		}
		links = append(links, contract.RouteTag{
			RouteTagID:     d.nextID(),
			RouteID:        routeID,
			TagID:          id,
			RelevanceScore: 1,
			CreatedBy:      by,
			Audit:          d.stamp(),
		})
	}
	d.routeTags[routeID] = links
	return nil
}

// NewFixtures seeds the dataset. now is the clock every record is stamped with.
func NewFixtures(now func() time.Time) (*Fixtures, error) {
	if now == nil {
		now = time.Now
	}
	d := dataset{
		now:             now,
		accounts:        map[int64]*account{},
		gyms:            map[int64]*contract.Gym{},
		branches:        map[int64]*contract.GymBranch{},
		walls:           map[int64]*contract.Wall{},
		levels:          map[int64]contract.ClimbingLevel{},
		setters:         map[int64]contract.RouteSetter{},
		routes:          map[int64]*contract.Route{},
		tags:            map[int64]*contract.Tag{},
		routeTags:       map[int64][]contract.RouteTag{},
		images:          map[int64][]contract.RouteImage{},
		videos:          map[int64][]contract.RouteVideo{},
		preferred:       map[int64][]contract.UserPreferredTag{},
		payments:        map[int64]*contract.PaymentRecord{},
		climbs:          map[int64]*contract.UserClimb{},
		recommendations: map[int64][]contract.RouteRecommendation{},
		notifications:   map[int64]*contract.PushNotification{},
		verifications:   map[string]verification{},
		registrations:   map[string]registration{},
		refreshTokens:   map[string]int64{},
	}
	if err := seed(&d); err != nil {
		return nil, err
	}
	return &Fixtures{data: d}, nil
}

func seed(d *dataset) error {
	users := []contract.User{
		{UserID: 1, Email: AdminEmail, NickName: "관리자", UserType: contract.UserTypeAdmin},
		{UserID: 2, Email: GymAdminEmail, NickName: "더클라임", UserType: contract.UserTypeGymAdmin},
		{UserID: 3, Email: ClimberEmail, NickName: "클라이머", UserType: contract.UserTypeRegular},
		{UserID: 4, Email: SuspendedEmail, NickName: "정지회원", UserType: contract.UserTypeRegular, UserStatus: contract.UserStatusSuspended},
	}
	for _, u := range users {
		if _, err := d.addAccount(u, DemoPassword); err != nil {
			return err
		}
	}

	levels := []contract.ClimbingLevel{
		{LevelID: 1, LevelName: "V0", Difficulty: 0, Category: contract.CategoryBouldering, DisplayOrder: 1},
		{LevelID: 2, LevelName: "V1", Difficulty: 1, Category: contract.CategoryBouldering, DisplayOrder: 2},
		{LevelID: 3, LevelName: "V2", Difficulty: 2, Category: contract.CategoryBouldering, DisplayOrder: 3},
		{LevelID: 4, LevelName: "V3", Difficulty: 3, Category: contract.CategoryBouldering, DisplayOrder: 4},
		{LevelID: 5, LevelName: "V4", Difficulty: 4, Category: contract.CategoryBouldering, DisplayOrder: 5},
		{LevelID: 6, LevelName: "V5", Difficulty: 5, Category: contract.CategoryBouldering, DisplayOrder: 6},
		{LevelID: 7, LevelName: "5.10a", Difficulty: 10.1, Category: contract.CategorySport, DisplayOrder: 7},
	}
	for _, l := range levels {
		d.levels[l.LevelID] = l
	}
	d.setters[1] = contract.RouteSetter{SetterID: 1, Name: "김세터", SetterType: contract.SetterTypeInternal, Audit: d.stamp()}

	hours := json.RawMessage(`{"weekday":"10:00-23:00","weekend":"10:00-20:00"}`)
	d.gyms[1] = &contract.Gym{GymID: 1, Name: "더클라임", Description: "서울 볼더링 전문 암장", GymAdminID: 2, GymStatus: contract.GymStatusActive, Audit: d.stamp()}
	d.gyms[2] = &contract.Gym{GymID: 2, Name: "클라이밍파크", Description: "리드와 볼더링", GymAdminID: 1, GymStatus: contract.GymStatusActive, Audit: d.stamp()}
	branches := []contract.GymBranch{
		{BranchID: 1, GymID: 1, BranchName: "강남점", Address: "서울 강남구 테헤란로 8", Latitude: 37.4979, Longitude: 127.0276},
		{BranchID: 2, GymID: 1, BranchName: "신림점", Address: "서울 관악구 신림로 330", Latitude: 37.4842, Longitude: 126.9297},
		{BranchID: 3, GymID: 2, BranchName: "서면점", Address: "부산 부산진구 중앙대로 692", Latitude: 35.1577, Longitude: 129.0600},
	}
	for _, b := range branches {
		b.BusinessHours = hours
		b.Amenities = json.RawMessage(`["샤워실","주차"]`)
		b.BranchStatus = contract.GymStatusActive
		b.Audit = d.stamp()
		d.branches[b.BranchID] = &b
	}
	setDate := d.today()
	walls := []contract.Wall{
		{WallID: 1, BranchID: 1, WallName: "메인월"},
		{WallID: 2, BranchID: 1, WallName: "동굴벽"},
		{WallID: 3, BranchID: 2, WallName: "A월"},
		{WallID: 4, BranchID: 3, WallName: "리드월"},
	}
	for _, w := range walls {
		w.WallStatus = contract.WallStatusActive
		w.SetDate = &setDate
		w.Audit = d.stamp()
		d.walls[w.WallID] = &w
	}

	tags := []contract.Tag{
		{TagID: 1, TagName: "다이노", TagType: contract.TagTypeMovement},
		{TagID: 2, TagName: "크림프", TagType: contract.TagTypeHoldType},
		{TagID: 3, TagName: "슬로퍼", TagType: contract.TagTypeHoldType},
		{TagID: 4, TagName: "오버행", TagType: contract.TagTypeWallAngle},
		{TagID: 5, TagName: "밸런스", TagType: contract.TagTypeTechnique},
		{TagID: 6, TagName: "파워풀", TagType: contract.TagTypeStyle},
		{TagID: 7, TagName: "초보추천", TagType: contract.TagTypeDifficulty},
	}
	for i, t := range tags {
		t.IsUserSelectable = true
		t.IsRouteTaggable = true
		t.DisplayOrder = i + 1
		t.Audit = d.stamp()
		d.tags[t.TagID] = &t
	}

	setter := int64(1)
	angle := 30
	routes := []struct {
		route contract.Route
		tags  []int64
	}{
		{contract.Route{RouteID: 1, WallID: 1, Name: "빨강 다이노", LevelID: 4, Color: "red", Angle: &angle}, []int64{1, 6}},
		{contract.Route{RouteID: 2, WallID: 1, Name: "노랑 크림프", LevelID: 2, Color: "yellow"}, []int64{2, 5}},
		{contract.Route{RouteID: 3, WallID: 2, Name: "오버행 파워", LevelID: 6, Color: "black"}, []int64{4, 6}},
		{contract.Route{RouteID: 4, WallID: 3, Name: "초록 밸런스", LevelID: 1, Color: "green"}, []int64{5, 7}},
		{contract.Route{RouteID: 5, WallID: 4, Name: "리드 입문", LevelID: 7, Color: "blue", RouteStatus: contract.RouteStatusRetired}, nil},
	}
	d.seq = 100
	for _, r := range routes {
		rt := r.route
		rt.BranchID = d.walls[rt.WallID].BranchID
		rt.SetterID = &setter
		rt.SetDate = &setDate
		if rt.RouteStatus == "" {
			rt.RouteStatus = contract.RouteStatusActive
		}
		rt.Audit = d.stamp()
		d.routes[rt.RouteID] = &rt
		if err := d.linkTags(rt.RouteID, r.tags, &setter); err != nil {
			return err
		}
	}
	d.images[1] = []contract.RouteImage{{ImageID: d.nextID(), RouteID: 1, ImageURL: "https://cdn.routepick.kr/routes/1/main.jpg", IsMain: true, Audit: d.stamp()}}

	d.preferred[3] = []contract.UserPreferredTag{
		{UserTagID: d.nextID(), UserID: 3, TagID: 1, PreferenceLevel: contract.PreferenceHigh, SkillLevel: contract.SkillIntermediate, Audit: d.stamp()},
		{UserTagID: d.nextID(), UserID: 3, TagID: 5, PreferenceLevel: contract.PreferenceMedium, SkillLevel: contract.SkillBeginner, Audit: d.stamp()},
	}

	quota := 0
	payments := []contract.PaymentRecord{
		{PaymentID: 1, UserID: 3, Amount: 33000, PaymentStatus: contract.PaymentCompleted, PaymentMethod: contract.PaymentCard, TransactionID: "T-0001",
			PaymentDetails: []contract.PaymentDetail{{DetailID: d.nextID(), PaymentID: 1, CardName: "신한카드", CardNumber: "1234-****-****-5678", CardQuota: &quota}},
			PaymentItems:   []contract.PaymentItem{{ItemID: d.nextID(), PaymentID: 1, ItemName: "일일 이용권", ItemAmount: 33000, Quantity: 1}}},
		{PaymentID: 2, UserID: 3, Amount: 150000, PaymentStatus: contract.PaymentCompleted, PaymentMethod: contract.PaymentVirtualAccount, TransactionID: "T-0002",
			PaymentItems: []contract.PaymentItem{{ItemID: d.nextID(), PaymentID: 2, ItemName: "10회권", ItemAmount: 150000, Quantity: 1}}},
		{PaymentID: 3, UserID: 3, Amount: 99000, PaymentStatus: contract.PaymentPending, PaymentMethod: contract.PaymentBankTransfer, TransactionID: "T-0003",
			PaymentItems: []contract.PaymentItem{{ItemID: d.nextID(), PaymentID: 3, ItemName: "월 이용권", ItemAmount: 99000, Quantity: 1}}},
	}
	for _, p := range payments {
		p.Audit = d.stamp()
		d.payments[p.PaymentID] = &p
	}

	rating := 4
	d.climbs[1] = &contract.UserClimb{ClimbID: 1, UserID: 3, RouteID: 1, ClimbDate: d.today(), Attempts: 3, IsCompleted: true, Rating: &rating, Audit: d.stamp()}
	d.climbs[2] = &contract.UserClimb{ClimbID: 2, UserID: 3, RouteID: 2, ClimbDate: d.today(), Attempts: 1, IsCompleted: true, Audit: d.stamp()}

	calculated := contract.NewTimestamp(d.now().UTC())
	for i, rec := range []struct {
		routeID      int64
		score, tag   float64
		levelMatches float64
	}{{1, 92, 95, 85}, {4, 75, 80, 63}, {3, 45, 50, 33}} {
		tag, lvl := rec.tag, rec.levelMatches
		d.recommendations[3] = append(d.recommendations[3], contract.RouteRecommendation{
			RecommendationID:    int64(i + 1),
			UserID:              3,
			RouteID:             rec.routeID,
			RecommendationScore: rec.score,
			TagMatchScore:       &tag,
			LevelMatchScore:     &lvl,
			CalculatedAt:        calculated,
			IsActive:            true,
		})
	}

	ref := int64(1)
	d.notifications[1] = &contract.PushNotification{NotificationID: 1, UserID: 3, Type: "ROUTE_RECOMMENDATION", Title: "추천 루트", Body: "빨강 다이노를 추천합니다", ReferenceID: &ref, ReferenceType: "ROUTE", CreatedAt: calculated}
	d.notifications[2] = &contract.PushNotification{NotificationID: 2, UserID: 3, Type: "NEW_ROUTE", Title: "새 루트", Body: "강남점에 새 루트가 등록되었습니다", CreatedAt: calculated}
	return nil
}
