package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
)

type AuthService struct{ c *Client }

// Login validates the credentials locally, signs in and stores the tokens.
func (s *AuthService) Login(ctx context.Context, req contract.LoginRequest) (*contract.LoginResponse, error) {
	if err := contract.Validate(req); err != nil {
		return nil, err
	}
	var res contract.LoginResponse
	err := s.c.do(ctx, call{op: "auth.login", method: http.MethodPost, path: "/api/auth/login", body: req, anonymous: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, s.store(ctx, res.Tokens())
}

func (s *AuthService) SocialLogin(ctx context.Context, req contract.SocialLoginRequest) (*contract.LoginResponse, error) {
	if err := contract.Validate(req); err != nil {
		return nil, err
	}
	var res contract.LoginResponse
	err := s.c.do(ctx, call{op: "auth.social_login", method: http.MethodPost, path: "/api/auth/social-login", body: req, anonymous: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, s.store(ctx, res.Tokens())
}

// Refresh exchanges a refresh token. It does not touch the token source.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*contract.TokenRefreshResponse, error) {
	var res contract.TokenRefreshResponse
	req := contract.TokenRefreshRequest{RefreshToken: refreshToken}
	err := s.c.do(ctx, call{op: "auth.refresh", method: http.MethodPost, path: "/api/auth/refresh", body: req, anonymous: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout tells the server and always clears local tokens.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.c.do(ctx, call{op: "auth.logout", method: http.MethodPost, path: "/api/auth/logout"}, nil)
	if s.c.tokens != nil {
		if cerr := s.c.tokens.ClearTokens(ctx); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *AuthService) Me(ctx context.Context) (*contract.User, error) {
	var u contract.User
	if err := s.c.do(ctx, call{op: "auth.me", method: http.MethodGet, path: "/api/auth/me"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) CheckEmail(ctx context.Context, email string) (*contract.EmailCheckResponse, error) {
	var res contract.EmailCheckResponse
	q := url.Values{"email": {email}}
	err := s.c.do(ctx, call{op: "auth.check_email", method: http.MethodGet, path: "/api/auth/check-email", query: q, anonymous: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *AuthService) RequestVerification(ctx context.Context, req contract.EmailVerificationRequest) (*contract.EmailVerificationResponse, error) {
	if err := contract.Validate(req); err != nil {
		return nil, err
	}
	var res contract.EmailVerificationResponse
	err := s.c.do(ctx, call{op: "auth.request_verification", method: http.MethodPost, path: "/api/auth/email/verification", body: req, anonymous: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *AuthService) VerifyCode(ctx context.Context, req contract.VerifyCodeRequest) (*contract.VerifyCodeResponse, error) {
	if err := contract.Validate(req); err != nil {
		return nil, err
	}
	var res contract.VerifyCodeResponse
	err := s.c.do(ctx, call{op: "auth.verify_code", method: http.MethodPost, path: "/api/auth/email/verify", body: req, anonymous: true}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Signup posts the form as a "userData" JSON part with an optional
// "profileImage" file part.
func (s *AuthService) Signup(ctx context.Context, req contract.SignupRequest, profileImage *File) (*contract.User, error) {
	if err := contract.Validate(req); err != nil {
		return nil, err
	}
	parts := []part{{field: "userData", json: req}}
	if profileImage != nil {
		if err := profileImage.check(constants.AllowedImageTypes); err != nil {
			return nil, err
		}
		parts = append(parts, part{field: "profileImage", file: profileImage})
	}
	raw, contentType, err := encodeMultipart(parts...)
	if err != nil {
		return nil, err
	}
	var u contract.User
	err = s.c.do(ctx, call{op: "auth.signup", method: http.MethodPost, path: "/api/auth/signup", raw: raw, contentType: contentType, anonymous: true}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) store(ctx context.Context, pair contract.TokenPair) error {
	if s.c.tokens == nil || pair.Empty() {
		return nil
	}
	return s.c.tokens.SaveTokens(ctx, pair)
}
