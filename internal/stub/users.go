package stub

import (
	"cmp"

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var userOrder = orderings[contract.User]{
	"id":        func(a, b contract.User) int { return cmp.Compare(a.UserID, b.UserID) },
	"userId":    func(a, b contract.User) int { return cmp.Compare(a.UserID, b.UserID) },
	"email":     func(a, b contract.User) int { return byText(a.Email, b.Email) },
	"nickName":  func(a, b contract.User) int { return byText(a.NickName, b.NickName) },
	"createdAt": func(a, b contract.User) int { return byTime(a.CreatedAt, b.CreatedAt) },
}

func registerUsers(api fiber.Router, s *Server, jwt fiber.Handler) {
	api.Put("/users/me/profile", jwt, s.updateProfile)
	api.Get("/users", jwt, auth.RequirePermission(constants.PermUserView), s.listUsers)
	api.Get("/users/:id", jwt, s.getUser)
	api.Post("/users", jwt, auth.RequirePermission(constants.PermUserCreate), s.createUser)
	api.Put("/users/:id", jwt, auth.RequirePermission(constants.PermUserUpdate), s.updateUser)
	api.Delete("/users/:id", jwt, auth.RequirePermission(constants.PermUserDelete), s.deleteUser)
	api.Get("/users/:id/profile", jwt, s.getProfile)
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	email, nick := c.Query("email"), c.Query("nickName")
	userType, err := queryEnum(c, "userType", contract.ParseUserType)
	if err != nil {
		return err
	}
	status, err := queryEnum(c, "status", contract.ParseUserStatus)
	if err != nil {
		return err
	}
	var users []contract.User
	_ = s.Fixtures.do(func(d *dataset) error {
		for _, id := range sortedIDs(d.accounts) {
			u := d.accounts[id].user
			if contains(u.Email, email) && contains(u.NickName, nick) &&
				(userType == "" || u.UserType == userType) &&
				(status == "" || u.UserStatus == status) {
				users = append(users, u)
			}
		}
		return nil
	})
	return ok(c, paginate(c, users, userOrder))
}

func (s *Server) getUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := requireSelfOr(c, id, constants.PermUserView); err != nil {
		return err
	}
	var user contract.User
	err = s.Fixtures.do(func(d *dataset) error {
		a, found := d.accounts[id]
		if !found {
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

// checkEmailFree rejects an email used by another account.
func (d *dataset) checkEmailFree(email string, self int64) error {
	if a := d.accountByEmail(email); a != nil && a.user.UserID != self {
		return conflict("DUPLICATE_EMAIL", "이미 사용 중인 이메일입니다.")
	}
	return nil
}

// createUser registers an account for an admin. Without a password the
// account gets a random one and can only sign in socially.
func (s *Server) createUser(c *fiber.Ctx) error {
	var form contract.UserFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	password := form.Password
	if password == "" {
		password = uuid.NewString()
	}
	var user contract.User
	err := s.Fixtures.do(func(d *dataset) error {
		if err := d.checkEmailFree(form.Email, 0); err != nil {
			return err
		}
		a, err := d.addAccount(contract.User{Email: form.Email, NickName: form.NickName, UserType: form.UserType}, password)
		if err != nil {
			return err
		}
		a.user.CreatedBy = actor(c)
		user = a.user
		return nil
	})
	if err != nil {
		return err
	}
	return created(c, user, constants.MessageUserCreated)
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form contract.UserFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	var hash []byte
	if form.Password != "" {
		if hash, err = bcrypt.GenerateFromPassword([]byte(form.Password), bcryptCost); err != nil {
			return err
		}
	}
	var user contract.User
	err = s.Fixtures.do(func(d *dataset) error {
		a, found := d.accounts[id]
		if !found {
			return notFound("USER", id)
		}
		if err := d.checkEmailFree(form.Email, id); err != nil {
			return err
		}
		a.user.Email, a.user.NickName, a.user.UserType = form.Email, form.NickName, form.UserType
		a.profile.NickName = form.NickName
		if hash != nil {
			a.passwordHash = hash
		}
		d.touch(&a.user.Audit, actor(c))
		user = a.user
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, user)
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if id == callerID(c) {
		return invalid("id", "cannot delete the signed-in account")
	}
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.accounts[id]; !found {
			return notFound("USER", id)
		}
		delete(d.accounts, id)
		delete(d.preferred, id)
		delete(d.recommendations, id)
		for tok, owner := range d.refreshTokens {
			if owner == id {
				delete(d.refreshTokens, tok)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return done(c, constants.MessageSuccess)
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var profile contract.UserProfile
	err = s.Fixtures.do(func(d *dataset) error {
		a, found := d.accounts[id]
		if !found {
			return notFound("USER", id)
		}
		profile = a.profile
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, profile)
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var form contract.ProfileUpdateFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	id := callerID(c)
	var profile contract.UserProfile
	err := s.Fixtures.do(func(d *dataset) error {
		a, found := d.accounts[id]
		if !found {
			return notFound("USER", id)
		}
		if form.LevelID != nil {
			if _, found := d.levels[*form.LevelID]; !found {
				return notFound("LEVEL", *form.LevelID)
			}
		}
		a.profile.NickName = form.NickName
		a.profile.Bio = form.Bio
		a.profile.Height = form.Height
		a.profile.Weight = form.Weight
		a.profile.LevelID = form.LevelID
		a.user.NickName = form.NickName
		d.touch(&a.profile.Audit, actor(c))
		profile = a.profile
		return nil
	})
	if err != nil {
		return err
	}
	return c.JSON(contract.OK(profile, constants.MessageProfileUpdated))
}
