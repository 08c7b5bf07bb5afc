package stub

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	verificationTTL = 5 * time.Minute
	registrationTTL = 30 * time.Minute
)

func registerAuth(r fiber.Router, s *Server, jwt fiber.Handler) {
	r.Post("/login", s.login)
	r.Post("/social-login", s.socialLogin)
	r.Post("/refresh", s.refresh)
	r.Post("/logout", jwt, s.logout)
	r.Get("/me", jwt, s.me)
	r.Get("/check-email", s.checkEmail)
	r.Post("/email/verification", s.requestVerification)
	r.Post("/email/verify", s.verifyCode)
	r.Post("/signup", s.signup)
}

func (s *Server) login(c *fiber.Ctx) error {
	var req contract.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	key := "login:" + strings.ToLower(req.Email)
	allowed, err := s.logins.Take(c.Context(), key)
	if err != nil {
		return err
	}
	if !allowed {
		return errRateLimited
	}

	var acct account
	err = s.Fixtures.do(func(d *dataset) error {
		a := d.accountByEmail(req.Email)
		if a == nil || bcrypt.CompareHashAndPassword(a.passwordHash, []byte(req.Password)) != nil {
			return errInvalidCredentials
		}
		if a.user.UserStatus == contract.UserStatusSuspended {
			return &Error{Status: fiber.StatusForbidden, Code: string(contract.CodeForbidden), Message: "suspended account"}
		}
		ts := contract.NewTimestamp(d.now().UTC())
		a.user.LastLoginAt = &ts
		acct = *a
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.logins.Reset(c.Context(), key); err != nil {
		return err
	}
	res, err := s.issue(acct)
	if err != nil {
		return err
	}
	return c.JSON(contract.OK(res, constants.MessageLoginSuccess))
}

// socialLogin trusts the provider token and signs in or registers by email,
// falling back to the provider id.
func (s *Server) socialLogin(c *fiber.Ctx) error {
	var req contract.SocialLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	socialKey := string(req.Provider) + ":" + req.SocialID

	var acct account
	err := s.Fixtures.do(func(d *dataset) error {
		var a *account
		for _, cand := range d.accounts {
			if cand.socialKey == socialKey {
				a = cand
				break
			}
		}
		if a == nil && req.Email != "" {
			a = d.accountByEmail(req.Email)
		}
		if a == nil {
			email := req.Email
			if email == "" {
				email = fmt.Sprintf("%s@%s.social", req.SocialID, req.Provider.ProviderID())
			}
			name := req.Name
			if !contract.ValidNickname(name) {
				name = req.Provider.ProviderID() + "_" + req.SocialID
			}
			created, err := d.addAccount(contract.User{Email: email, NickName: name, UserType: contract.UserTypeRegular}, uuid.NewString())
			if err != nil {
				return err
			}
			created.profile.ProfileImageURL = req.ProfileImage
			a = created
		}
		if a.user.UserStatus == contract.UserStatusSuspended {
			return errForbidden
		}
		a.socialKey = socialKey
		ts := contract.NewTimestamp(d.now().UTC())
		a.user.LastLoginAt = &ts
		acct = *a
		return nil
	})
	if err != nil {
		return err
	}
	res, err := s.issue(acct)
	if err != nil {
		return err
	}
	return c.JSON(contract.OK(res, constants.MessageLoginSuccess))
}

// issue signs a token pair and remembers the refresh token.
func (s *Server) issue(a account) (contract.LoginResponse, error) {
	pair, err := s.Issuer.Pair(a.user)
	if err != nil {
		return contract.LoginResponse{}, err
	}
	err = s.Fixtures.do(func(d *dataset) error {
		d.refreshTokens[pair.RefreshToken] = a.user.UserID
		return nil
	})
	if err != nil {
		return contract.LoginResponse{}, err
	}
	user, profile := a.user, a.profile
	return contract.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
		User:         &user,
		Profile:      &profile,
		UserInfo: &contract.LoginUserInfo{
			UserID:          user.UserID,
			Email:           user.Email,
			UserName:        user.NickName,
			ProfileImageURL: profile.ProfileImageURL,
		},
	}, nil
}

// refresh rotates the pair: the presented refresh token is revoked.
func (s *Server) refresh(c *fiber.Ctx) error {
	var req contract.TokenRefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if _, err := s.Issuer.VerifyAs(req.RefreshToken, auth.TokenRefresh); err != nil {
		return errExpiredToken
	}
	var user contract.User
	err := s.Fixtures.do(func(d *dataset) error {
		id, ok := d.refreshTokens[req.RefreshToken]
		if !ok {
			return errExpiredToken
		}
		delete(d.refreshTokens, req.RefreshToken)
		a, ok := d.accounts[id]
		if !ok {
			return errExpiredToken
		}
		user = a.user
		return nil
	})
	if err != nil {
		return err
	}
	pair, err := s.Issuer.Pair(user)
	if err != nil {
		return err
	}
	err = s.Fixtures.do(func(d *dataset) error {
		d.refreshTokens[pair.RefreshToken] = user.UserID
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, pair)
}

// logout revokes every refresh token of the caller.
func (s *Server) logout(c *fiber.Ctx) error {
	id := callerID(c)
	_ = s.Fixtures.do(func(d *dataset) error {
		for tok, owner := range d.refreshTokens {
			if owner == id {
				delete(d.refreshTokens, tok)
			}
		}
		return nil
	})
	return done(c, constants.MessageLogoutSuccess)
}

func (s *Server) me(c *fiber.Ctx) error {
	id := callerID(c)
	var user contract.User
	err := s.Fixtures.do(func(d *dataset) error {
		a, ok := d.accounts[id]
		if !ok {
			return notFound("USER", id)
		}
		user = a.user
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, user)
}

func (s *Server) checkEmail(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if err := contract.Validate(contract.EmailVerificationRequest{Email: email}); err != nil {
		return err
	}
	var taken bool
	_ = s.Fixtures.do(func(d *dataset) error {
		taken = d.accountByEmail(email) != nil
		return nil
	})
	res := contract.EmailCheckResponse{Available: !taken, VerificationRequired: !taken, Message: "사용 가능한 이메일입니다."}
	if taken {
		res.Message = "이미 사용 중인 이메일입니다."
	}
	return ok(c, res)
}

// requestVerification issues a six digit code. The stub returns the code in
// the response since it sends no mail.
func (s *Server) requestVerification(c *fiber.Ctx) error {
	var req contract.EmailVerificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	allowed, err := s.verifications.Take(c.Context(), "verify:"+strings.ToLower(req.Email))
	if err != nil {
		return err
	}
	if !allowed {
		return errRateLimited
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	token := uuid.NewString()

	var expires time.Time
	err = s.Fixtures.do(func(d *dataset) error {
		if d.accountByEmail(req.Email) != nil {
			return conflict("DUPLICATE_EMAIL", "이미 사용 중인 이메일입니다.")
		}
		expires = d.now().Add(verificationTTL).UTC()
		d.verifications[token] = verification{email: strings.ToLower(req.Email), code: code, expiresAt: expires}
		return nil
	})
	if err != nil {
		return err
	}
	exp := contract.NewTimestamp(expires)
	return ok(c, contract.EmailVerificationResponse{
		Message:          "인증 코드가 발송되었습니다.",
		VerificationCode: code,
		ExpiresAt:        &exp,
		SessionToken:     token,
	})
}

// verifyCode drops the session after VerifyCodeMaxAttempts wrong codes.
func (s *Server) verifyCode(c *fiber.Ctx) error {
	var req contract.VerifyCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	regToken := uuid.NewString()
	var expires time.Time
	err := s.Fixtures.do(func(d *dataset) error {
		v, ok := d.verifications[req.SessionToken]
		if !ok || v.email != strings.ToLower(req.Email) {
			return invalid("sessionToken", "unknown verification session")
		}
		if d.now().After(v.expiresAt) {
			delete(d.verifications, req.SessionToken)
			return invalid("verificationCode", "code expired")
		}
		if v.code != req.VerificationCode {
			v.failures++
			if v.failures >= constants.VerifyCodeMaxAttempts {
				delete(d.verifications, req.SessionToken)
				return invalid("verificationCode", "too many wrong codes, request a new one")
			}
			d.verifications[req.SessionToken] = v
			return invalid("verificationCode", "code does not match")
		}
		delete(d.verifications, req.SessionToken)
		expires = d.now().Add(registrationTTL).UTC()
		d.registrations[regToken] = registration{email: v.email, expiresAt: expires}
		return nil
	})
	if err != nil {
		return err
	}
	exp := contract.NewTimestamp(expires)
	return ok(c, contract.VerifyCodeResponse{
		Message:           "이메일 인증이 완료되었습니다.",
		VerifiedEmail:     strings.ToLower(req.Email),
		RegistrationToken: regToken,
		TokenExpiresAt:    &exp,
	})
}

// signup reads a multipart form: "userData" JSON and an optional
// "profileImage" file.
func (s *Server) signup(c *fiber.Ctx) error {
	raw := c.FormValue("userData")
	if raw == "" {
		return invalid("userData", "required")
	}
	var req contract.SignupRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return invalid("userData", err.Error())
	}
	if err := contract.Validate(req); err != nil {
		return err
	}
	fh, contentType, err := receive(c, "profileImage", constants.AllowedImageTypes, false)
	if err != nil {
		return err
	}

	var user contract.User
	err = s.Fixtures.do(func(d *dataset) error {
		reg, ok := d.registrations[req.RegistrationToken]
		if !ok || reg.email != strings.ToLower(req.Email) || d.now().After(reg.expiresAt) {
			return invalid("registrationToken", "email is not verified")
		}
		if d.accountByEmail(req.Email) != nil {
			return conflict("DUPLICATE_EMAIL", "이미 사용 중인 이메일입니다.")
		}
		a, err := d.addAccount(contract.User{Email: req.Email, NickName: req.UserName, UserType: contract.UserTypeRegular}, req.Password)
		if err != nil {
			return err
		}
		delete(d.registrations, req.RegistrationToken)
		user = a.user
		return nil
	})
	if err != nil {
		return err
	}
	if fh != nil {
		up, err := s.Uploads.Save(c.Context(), user.UserID, "profiles", fh, contentType)
		if err != nil {
			return err
		}
		_ = s.Fixtures.do(func(d *dataset) error {
			if a, ok := d.accounts[user.UserID]; ok {
				a.profile.ProfileImageURL = up.URL
			}
			return nil
		})
	}
	return created(c, user, constants.MessageUserCreated)
}

// requireSelfOr lets the caller act on their own record, or anyone with perm.
func requireSelfOr(c *fiber.Ctx, id int64, perm constants.Permission) error {
	claims := auth.ClaimsFrom(c)
	if claims == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "missing claims")
	}
	if claims.UserID == id || auth.Can(claims.UserType, perm) {
		return nil
	}
	return errForbidden
}
