package session

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/son-changwook/routepick/internal/config"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, "routepick"), mr
}

func TestAdminTokensUseSeparateKeys(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	s := New(store, AdminKeys())

	pair := contract.TokenPair{AccessToken: "a1", RefreshToken: "r1"}
	if err := s.SaveTokens(ctx, pair); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, _ := mr.Get("routepick:" + constants.AdminKeyAccessToken); got != "a1" {
		t.Fatalf("access token stored as %q", got)
	}
	if got, _ := mr.Get("routepick:" + constants.AdminKeyRefreshToken); got != "r1" {
		t.Fatalf("refresh token stored as %q", got)
	}

	got, err := s.Tokens(ctx)
	if err != nil || got != pair {
		t.Fatalf("tokens: %+v %v", got, err)
	}

	if err := s.ClearTokens(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = s.Tokens(ctx)
	if err != nil || !got.Empty() {
		t.Fatalf("expected empty pair after clear, got %+v %v", got, err)
	}
}

func TestAppTokensShareOneSlot(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	s := New(store, KeysFor(config.ProfileApp))

	pair := contract.TokenPair{AccessToken: "a2", RefreshToken: "r2"}
	if err := s.SaveTokens(ctx, pair); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := mr.Get("routepick:" + constants.AppKeyUserToken)
	if err != nil {
		t.Fatalf("slot missing: %v", err)
	}
	if raw != `{"accessToken":"a2","refreshToken":"r2"}` {
		t.Fatalf("unexpected slot %s", raw)
	}
	got, err := s.Tokens(ctx)
	if err != nil || got != pair {
		t.Fatalf("tokens: %+v %v", got, err)
	}
}

func TestRecentSearchesDedupAndCap(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore(), AppKeys())

	for i := 0; i < 12; i++ {
		if _, err := s.AddRecentSearch(ctx, fmt.Sprintf("gym %d", i)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	list, err := s.AddRecentSearch(ctx, "  gym 5 ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(list) != constants.RecentSearchLimit {
		t.Fatalf("expected %d entries, got %d", constants.RecentSearchLimit, len(list))
	}
	if list[0] != "gym 5" || list[1] != "gym 11" {
		t.Fatalf("unexpected order %v", list)
	}
	count := 0
	for _, q := range list {
		if q == "gym 5" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("duplicate kept: %v", list)
	}
	if slices.Contains(list, "gym 0") {
		t.Fatalf("oldest entry should be dropped: %v", list)
	}

	same, _ := s.AddRecentSearch(ctx, "   ")
	if !slices.Equal(same, list) {
		t.Fatalf("blank query changed the list")
	}
}

func TestThemeLayouts(t *testing.T) {
	ctx := context.Background()

	admin := New(NewMemoryStore(), AdminKeys())
	if th, err := admin.Theme(ctx); err != nil || th != contract.ThemeAuto {
		t.Fatalf("default theme %s %v", th, err)
	}
	if err := admin.SetTheme(ctx, contract.ThemeDark); err != nil {
		t.Fatalf("set: %v", err)
	}
	if th, _ := admin.Theme(ctx); th != contract.ThemeDark {
		t.Fatalf("theme %s", th)
	}
	if err := admin.SetTheme(ctx, contract.Theme("neon")); err == nil {
		t.Fatalf("expected invalid theme error")
	}

	appStore := NewMemoryStore()
	app := New(appStore, AppKeys())
	if err := app.SetTheme(ctx, contract.ThemeLight); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, _ := appStore.Get(ctx, constants.AppKeyAppSettings)
	if raw != `{"theme":"light"}` {
		t.Fatalf("settings %s", raw)
	}
}

func TestLayoutSpecificKeys(t *testing.T) {
	ctx := context.Background()
	app := New(NewMemoryStore(), AppKeys())
	if err := app.SetSidebarCollapsed(ctx, true); err != ErrUnsupported {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if done, _ := app.OnboardingCompleted(ctx); done {
		t.Fatalf("onboarding should start incomplete")
	}
	_ = app.SetOnboardingCompleted(ctx, true)
	if done, _ := app.OnboardingCompleted(ctx); !done {
		t.Fatalf("onboarding flag not persisted")
	}

	admin := New(NewMemoryStore(), AdminKeys())
	_ = admin.SetSidebarCollapsed(ctx, true)
	if c, err := admin.SidebarCollapsed(ctx); err != nil || !c {
		t.Fatalf("sidebar %v %v", c, err)
	}
	ts, err := admin.TableSettings(ctx)
	if err != nil || ts != constants.DefaultTableSettings {
		t.Fatalf("default table settings %+v %v", ts, err)
	}
}

func TestUserAndSelectedTags(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore(), AdminKeys())
	if u, err := s.User(ctx); u != nil || err != nil {
		t.Fatalf("expected no user, got %+v %v", u, err)
	}
	user := contract.User{UserID: 9, Email: "a@routepick.kr", NickName: "관리자", UserType: contract.UserTypeAdmin}
	if err := s.SaveUser(ctx, user); err != nil {
		t.Fatalf("save user: %v", err)
	}
	u, err := s.User(ctx)
	if err != nil || u.UserID != 9 || u.NickName != "관리자" {
		t.Fatalf("user %+v %v", u, err)
	}

	_ = s.SetSelectedTags(ctx, []int64{4, 2})
	ids, _ := s.SelectedTags(ctx)
	if !slices.Equal(ids, []int64{4, 2}) {
		t.Fatalf("tags %v", ids)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Now()
	m.now = func() time.Time { return now }
	_ = m.Set(ctx, "k", "v", time.Minute)
	if v, err := m.Get(ctx, "k"); err != nil || v != "v" {
		t.Fatalf("get: %q %v", v, err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	_ = store.Set(ctx, "otp", "123456", time.Minute)
	if ttl := mr.TTL("routepick:otp"); ttl != time.Minute {
		t.Fatalf("ttl %v", ttl)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(ctx, "otp"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
