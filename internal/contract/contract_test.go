package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestampLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2025-01-02T15:04:05Z":        time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
		"2025-01-02T15:04:05.5+09:00": time.Date(2025, 1, 2, 6, 4, 5, 5e8, time.UTC),
		"2025-01-02T15:04:05":         time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
		"2025-01-02T15:04:05.123456":  time.Date(2025, 1, 2, 15, 4, 5, 123456000, time.UTC),
		"2025-01-02 15:04:05":         time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
	}
	for in, want := range cases {
		ts, err := ParseTimestamp(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if !ts.Equal(want) {
			t.Fatalf("parse %q: got %v want %v", in, ts.Time, want)
		}
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTimestampNullAndZero(t *testing.T) {
	var v struct {
		At  Timestamp  `json:"at"`
		Opt *Timestamp `json:"opt,omitempty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":null}`), &v))
	require.True(t, v.At.IsZero())
	out, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `{"at":null}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"at":""}`), &v))
	require.True(t, v.At.IsZero())
}

func TestDateAcceptsTimestamp(t *testing.T) {
	d, err := ParseDate("2025-03-05T23:10:00")
	require.NoError(t, err)
	require.Equal(t, "2025-03-05", d.String())

	out, err := json.Marshal(NewDate(2025, time.March, 5))
	require.NoError(t, err)
	require.Equal(t, `"2025-03-05"`, string(out))
}

func TestEnumHelpers(t *testing.T) {
	require.InDelta(t, 0.3, PreferenceLow.Weight(), 1e-9)
	require.InDelta(t, 0.7, PreferenceMedium.Weight(), 1e-9)
	require.InDelta(t, 1.0, PreferenceHigh.Weight(), 1e-9)
	require.Equal(t, 1, SkillBeginner.Rank())
	require.Equal(t, 4, SkillExpert.Rank())
	require.Equal(t, "kakao", ProviderKakao.ProviderID())

	_, err := ParseUserType("SUPERUSER")
	var enumErr *EnumError
	require.ErrorAs(t, err, &enumErr)
	require.Equal(t, "UserType", enumErr.Type)

	ut, err := ParseUserType("ADMIN")
	require.NoError(t, err)
	require.Equal(t, UserTypeAdmin, ut)
}

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		server string
		status int
		want   ErrorCode
	}{
		{"UNAUTHORIZED", 401, CodeUnauthorized},
		{"INTERNAL_SERVER_ERROR", 500, CodeServer},
		{"VALIDATION_FAILED", 400, CodeValidation},
		{"USER_NOT_FOUND", 404, CodeNotFound},
		{"GYM_NOT_FOUND", 400, CodeNotFound},
		{"INVALID_CREDENTIALS", 401, CodeUnauthorized},
		{"EXPIRED_TOKEN", 401, CodeUnauthorized},
		{"DUPLICATE_EMAIL", 409, CodeConflict},
		{"FILE_UPLOAD_FAILED", 500, CodeFileUpload},
		{"RATE_LIMIT_EXCEEDED", 429, CodeRateLimited},
		{"SOMETHING_NEW", 403, CodeForbidden},
		{"", 418, CodeValidation},
		{"", 502, CodeServer},
		{"", 429, CodeRateLimited},
		{"", 0, CodeNetwork},
	}
	for _, tc := range cases {
		got := NormalizeCode(tc.server, tc.status)
		if got != tc.want {
			t.Fatalf("NormalizeCode(%q, %d) = %s, want %s", tc.server, tc.status, got, tc.want)
		}
		if !got.Valid() {
			t.Fatalf("%s is outside the closed set", got)
		}
	}
}

func TestAPIErrorMatchesSentinels(t *testing.T) {
	err := fmt.Errorf("list gyms: %w", &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: "missing"})
	require.True(t, errors.Is(err, ErrNotFound))
	require.False(t, errors.Is(err, ErrUnauthorized))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "NOT_FOUND (404): missing", apiErr.Error())

	cause := errors.New("dial tcp: refused")
	netErr := &APIError{Code: CodeNetwork, Err: cause}
	require.True(t, errors.Is(netErr, cause))
	require.True(t, errors.Is(netErr, ErrNetwork))
}

func TestStatusForCodeRoundTrips(t *testing.T) {
	for _, code := range []ErrorCode{CodeUnauthorized, CodeForbidden, CodeNotFound, CodeValidation, CodeRateLimited, CodeConflict, CodeServer} {
		if got := CodeForStatus(StatusForCode(code)); got != code {
			t.Fatalf("%s -> %d -> %s", code, StatusForCode(code), got)
		}
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}
	p := Paginate(items, PageRequest{Page: 2, Size: 20})
	require.Equal(t, []int{40, 41, 42, 43, 44}, p.Content)
	require.EqualValues(t, 45, p.TotalElements)
	require.Equal(t, 3, p.TotalPages)
	require.True(t, p.Last)
	require.False(t, p.HasNext())

	p = Paginate(items, PageRequest{Size: 500})
	require.Equal(t, MaxPageSize, p.Size)
	require.True(t, p.First)

	p = Paginate(items, PageRequest{Page: 9})
	require.Empty(t, p.Content)
	require.NotNil(t, p.Content)

	for _, page := range []int{500000000000000000, 922337203685477581, math.MaxInt} {
		p = Paginate(items, PageRequest{Page: page, Size: 20})
		require.Empty(t, p.Content, "page %d", page)
		require.Equal(t, page, p.Number)
		require.True(t, p.Last)
		require.False(t, p.HasNext())
	}

	empty := Paginate([]int{}, PageRequest{})
	require.Equal(t, 0, empty.TotalPages)
	require.True(t, empty.First)
	require.True(t, empty.Last)
}

func TestFilterValues(t *testing.T) {
	branch := int64(2)
	size := 500
	f := RouteFilter{
		BaseFilter: BaseFilter{Size: &size, Sort: "name", Direction: SortAsc},
		BranchID:   &branch,
		Status:     RouteStatusActive,
		TagIDs:     []int64{3, 5},
	}
	v := f.Values()
	require.Equal(t, "0", v.Get("page"))
	require.Equal(t, "100", v.Get("size"))
	require.Equal(t, "name,ASC", v.Get("sort"))
	require.Equal(t, "2", v.Get("branchId"))
	require.Equal(t, "ACTIVE", v.Get("status"))
	require.Equal(t, []string{"3", "5"}, v["tagIds"])
	require.False(t, v.Has("name"))

	def := BaseFilter{}.Values()
	require.Equal(t, "20", def.Get("size"))
	require.Equal(t, "createdAt,DESC", def.Get("sort"))

	start := NewDate(2025, time.March, 1)
	pv := PaymentFilter{StartDate: &start, Status: PaymentCompleted}.Values()
	require.Equal(t, "2025-03-01", pv.Get("startDate"))
	require.Equal(t, "COMPLETED", pv.Get("status"))

	sv := SearchFilters{Query: "v3", Location: &SearchArea{Center: Location{Latitude: 37.5, Longitude: 127}, Radius: 2.5}}.Values()
	require.Equal(t, "2.5", sv.Get("radius"))
	require.Equal(t, "37.5", sv.Get("latitude"))
}

func TestParseSortParam(t *testing.T) {
	field, dir := ParseSortParam("name,asc")
	require.Equal(t, "name", field)
	require.Equal(t, SortAsc, dir)

	field, dir = ParseSortParam("createdAt")
	require.Equal(t, "createdAt", field)
	require.Equal(t, SortDesc, dir)
}

func TestSignupValidation(t *testing.T) {
	ok := SignupRequest{
		Email:             "new@routepick.kr",
		Password:          "abc123!@",
		UserName:          "새클라이머",
		Phone:             "010-1234-5678",
		RegistrationToken: "reg",
		AgreeTerms:        true,
		AgreePrivacy:      true,
	}
	require.NoError(t, Validate(ok))

	bad := ok
	bad.Password = "abcdefgh"
	bad.Phone = "02-123-4567"
	bad.UserName = "a"
	bad.AgreePrivacy = false
	err := Validate(bad)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, f := range []string{"password", "phone", "userName", "agreePrivacy"} {
		if !verr.Has(f) {
			t.Fatalf("expected %s to fail: %v", f, verr)
		}
	}
}

func TestPasswordRules(t *testing.T) {
	cases := map[string]bool{
		"abc123!@":              true,
		"Abcdefg1$":             true,
		"abcdefgh":              false,
		"12345678!":             false,
		"abc12!":                false,
		"abc123!@abc123!@abc12": false,
		"abc123!@ ":             false,
		"abc123#@":              false,
		"abc123##":              false,
	}
	for pw, want := range cases {
		if got := ValidPassword(pw); got != want {
			t.Fatalf("ValidPassword(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestBranchFormKoreanBounds(t *testing.T) {
	form := GymBranchFormData{BranchName: "부산점", Address: "부산", Latitude: 35.1796, Longitude: 129.0756}
	require.NoError(t, Validate(form))

	form.Latitude = 40.0
	err := Validate(form)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has("latitude"))
}

func TestRegisterFormPasswordsMustMatch(t *testing.T) {
	form := RegisterFormData{
		Email:           "a@b.kr",
		Password:        "abc123!@",
		ConfirmPassword: "abc123!!",
		NickName:        "climber",
		AgreeToTerms:    true,
		AgreeToPrivacy:  true,
	}
	err := Validate(form)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.True(t, verr.Has("confirmPassword"))
}
