package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/son-changwook/routepick/internal/config"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
)

// Keys is a storage key layout. When AccessToken and RefreshToken name the
// same key, both tokens are stored together as one JSON pair.
type Keys struct {
	AccessToken    string
	RefreshToken   string
	User           string
	Theme          string
	Sidebar        string
	TableSettings  string
	SelectedTags   string
	RecentSearches string
	Onboarding     string
}

func AdminKeys() Keys {
	return Keys{
		AccessToken:    constants.AdminKeyAccessToken,
		RefreshToken:   constants.AdminKeyRefreshToken,
		User:           constants.AdminKeyUserInfo,
		Theme:          constants.AdminKeyTheme,
		Sidebar:        constants.AdminKeySidebarCollapsed,
		TableSettings:  constants.AdminKeyTableSettings,
		SelectedTags:   "routepick_admin_selected_tags",
		RecentSearches: "routepick_admin_recent_searches",
	}
}

func AppKeys() Keys {
	return Keys{
		AccessToken:    constants.AppKeyUserToken,
		RefreshToken:   constants.AppKeyUserToken,
		User:           constants.AppKeyUserProfile,
		Theme:          constants.AppKeyAppSettings,
		SelectedTags:   constants.AppKeySelectedTags,
		RecentSearches: constants.AppKeyRecentSearches,
		Onboarding:     constants.AppKeyOnboardingCompleted,
	}
}

func KeysFor(p config.Profile) Keys {
	if p == config.ProfileApp {
		return AppKeys()
	}
	return AdminKeys()
}

func (k Keys) sharedTokens() bool { return k.AccessToken == k.RefreshToken }

var ErrUnsupported = errors.New("not stored by this layout")

// Session reads and writes client state through a Store using one key layout.
type Session struct {
	store Store
	keys  Keys
}

func New(store Store, keys Keys) *Session {
	return &Session{store: store, keys: keys}
}

func (s *Session) Keys() Keys { return s.keys }

// Tokens returns an empty pair when nothing is stored.
func (s *Session) Tokens(ctx context.Context) (contract.TokenPair, error) {
	if s.keys.sharedTokens() {
		var pair contract.TokenPair
		_, err := s.getJSON(ctx, s.keys.AccessToken, &pair)
		return pair, err
	}
	access, err := s.getString(ctx, s.keys.AccessToken)
	if err != nil {
		return contract.TokenPair{}, err
	}
	refresh, err := s.getString(ctx, s.keys.RefreshToken)
	if err != nil {
		return contract.TokenPair{}, err
	}
	return contract.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Session) SaveTokens(ctx context.Context, pair contract.TokenPair) error {
	if s.keys.sharedTokens() {
		return s.setJSON(ctx, s.keys.AccessToken, pair)
	}
	if err := s.store.Set(ctx, s.keys.AccessToken, pair.AccessToken, 0); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if err := s.store.Set(ctx, s.keys.RefreshToken, pair.RefreshToken, 0); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// ClearTokens logs the session out: tokens and the cached user are removed.
func (s *Session) ClearTokens(ctx context.Context) error {
	keys := []string{s.keys.AccessToken, s.keys.User}
	if !s.keys.sharedTokens() {
		keys = append(keys, s.keys.RefreshToken)
	}
	return s.store.Delete(ctx, keys...)
}

func (s *Session) User(ctx context.Context) (*contract.User, error) {
	var u contract.User
	ok, err := s.getJSON(ctx, s.keys.User, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (s *Session) SaveUser(ctx context.Context, u contract.User) error {
	return s.setJSON(ctx, s.keys.User, u)
}

type appSettings struct {
	Theme contract.Theme `json:"theme"`
}

// Theme defaults to auto. The app layout keeps it inside its settings object.
func (s *Session) Theme(ctx context.Context) (contract.Theme, error) {
	var raw string
	if s.keys.Theme == constants.AppKeyAppSettings {
		var settings appSettings
		if _, err := s.getJSON(ctx, s.keys.Theme, &settings); err != nil {
			return contract.ThemeAuto, err
		}
		raw = string(settings.Theme)
	} else {
		v, err := s.getString(ctx, s.keys.Theme)
		if err != nil {
			return contract.ThemeAuto, err
		}
		raw = v
	}
	if raw == "" {
		return contract.ThemeAuto, nil
	}
	return contract.ParseTheme(raw)
}

func (s *Session) SetTheme(ctx context.Context, t contract.Theme) error {
	if !t.Valid() {
		return &contract.EnumError{Type: "Theme", Value: string(t)}
	}
	if s.keys.Theme == constants.AppKeyAppSettings {
		return s.setJSON(ctx, s.keys.Theme, appSettings{Theme: t})
	}
	return s.store.Set(ctx, s.keys.Theme, string(t), 0)
}

func (s *Session) SidebarCollapsed(ctx context.Context) (bool, error) {
	if s.keys.Sidebar == "" {
		return false, ErrUnsupported
	}
	v, err := s.getString(ctx, s.keys.Sidebar)
	if err != nil || v == "" {
		return false, err
	}
	return strconv.ParseBool(v)
}

func (s *Session) SetSidebarCollapsed(ctx context.Context, collapsed bool) error {
	if s.keys.Sidebar == "" {
		return ErrUnsupported
	}
	return s.store.Set(ctx, s.keys.Sidebar, strconv.FormatBool(collapsed), 0)
}

func (s *Session) TableSettings(ctx context.Context) (constants.TableSettings, error) {
	settings := constants.DefaultTableSettings
	if s.keys.TableSettings == "" {
		return settings, ErrUnsupported
	}
	_, err := s.getJSON(ctx, s.keys.TableSettings, &settings)
	return settings, err
}

func (s *Session) SetTableSettings(ctx context.Context, settings constants.TableSettings) error {
	if s.keys.TableSettings == "" {
		return ErrUnsupported
	}
	return s.setJSON(ctx, s.keys.TableSettings, settings)
}

func (s *Session) SelectedTags(ctx context.Context) ([]int64, error) {
	var ids []int64
	_, err := s.getJSON(ctx, s.keys.SelectedTags, &ids)
	return ids, err
}

func (s *Session) SetSelectedTags(ctx context.Context, ids []int64) error {
	return s.setJSON(ctx, s.keys.SelectedTags, ids)
}

// RecentSearches is most recent first.
func (s *Session) RecentSearches(ctx context.Context) ([]string, error) {
	var list []string
	_, err := s.getJSON(ctx, s.keys.RecentSearches, &list)
	return list, err
}

// AddRecentSearch moves query to the front, dropping any earlier copy and
// anything past RecentSearchLimit. Blank queries are ignored.
func (s *Session) AddRecentSearch(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	list, err := s.RecentSearches(ctx)
	if err != nil || query == "" {
		return list, err
	}
	list = slices.DeleteFunc(list, func(q string) bool { return q == query })
	list = append([]string{query}, list...)
	if len(list) > constants.RecentSearchLimit {
		list = list[:constants.RecentSearchLimit]
	}
	return list, s.setJSON(ctx, s.keys.RecentSearches, list)
}

func (s *Session) ClearRecentSearches(ctx context.Context) error {
	return s.store.Delete(ctx, s.keys.RecentSearches)
}

func (s *Session) OnboardingCompleted(ctx context.Context) (bool, error) {
	if s.keys.Onboarding == "" {
		return true, nil
	}
	v, err := s.getString(ctx, s.keys.Onboarding)
	if err != nil || v == "" {
		return false, err
	}
	return strconv.ParseBool(v)
}

func (s *Session) SetOnboardingCompleted(ctx context.Context, done bool) error {
	if s.keys.Onboarding == "" {
		return ErrUnsupported
	}
	return s.store.Set(ctx, s.keys.Onboarding, strconv.FormatBool(done), 0)
}

func (s *Session) getString(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

func (s *Session) getJSON(ctx context.Context, key string, out any) (bool, error) {
	v, err := s.getString(ctx, key)
	if err != nil || v == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(v), out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Session) setJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, key, string(b), 0); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
