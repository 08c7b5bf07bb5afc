package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
)

func TestJWTMiddleware(t *testing.T) {
	issuer := NewIssuer("secret")
	app := fiber.New()
	app.Get("/private", JWTMiddleware(issuer), func(c *fiber.Ctx) error {
		if ClaimsFrom(c) == nil {
			return fiber.NewError(fiber.StatusUnauthorized)
		}
		return c.SendStatus(http.StatusOK)
	})

	// missing token
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}

	// valid token
	token, _ := issuer.Sign(contract.User{UserID: 1, UserType: contract.UserTypeAdmin}, constants.AccessTokenTTL)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ok")
	}

	// signed with another key
	other, _ := NewIssuer("other").Sign(contract.User{UserID: 1}, constants.AccessTokenTTL)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for foreign signature")
	}

	// refresh token presented as bearer
	pair, _ := issuer.Pair(contract.User{UserID: 1, UserType: contract.UserTypeAdmin})
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized for refresh token")
	}
}

func TestRequirePermission(t *testing.T) {
	issuer := NewIssuer("secret")
	app := fiber.New()
	app.Delete("/tags/:id", JWTMiddleware(issuer), RequirePermission(constants.PermTagDelete), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	cases := map[contract.UserType]int{
		contract.UserTypeAdmin:    http.StatusNoContent,
		contract.UserTypeGymAdmin: http.StatusForbidden,
		contract.UserTypeRegular:  http.StatusForbidden,
	}
	for role, want := range cases {
		token, _ := issuer.Sign(contract.User{UserID: 7, UserType: role}, constants.AccessTokenTTL)
		req := httptest.NewRequest(http.MethodDelete, "/tags/3", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if resp.StatusCode != want {
			t.Fatalf("%s: expected %d got %d", role, want, resp.StatusCode)
		}
	}
}

func TestParseBearer(t *testing.T) {
	if got := ParseBearer("Bearer abc"); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := ParseBearer("bearer  abc "); got != "abc" {
		t.Fatalf("got %q", got)
	}
	if got := ParseBearer("Basic abc"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := ParseBearer("abc"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
