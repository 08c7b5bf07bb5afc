package stub

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
	"github.com/son-changwook/routepick/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

const defaultNearbyRadiusKm = 5.0

var gymOrder = orderings[contract.Gym]{
	"id":        func(a, b contract.Gym) int { return cmp.Compare(a.GymID, b.GymID) },
	"gymId":     func(a, b contract.Gym) int { return cmp.Compare(a.GymID, b.GymID) },
	"name":      func(a, b contract.Gym) int { return byText(a.Name, b.Name) },
	"createdAt": func(a, b contract.Gym) int { return byTime(a.CreatedAt, b.CreatedAt) },
}

func registerGyms(api fiber.Router, s *Server, jwt fiber.Handler) {
	api.Get("/gyms/nearby", s.nearbyBranches)
	api.Get("/gyms", jwt, s.listGyms)
	api.Get("/gyms/:id", jwt, s.getGym)
	api.Post("/gyms", jwt, auth.RequirePermission(constants.PermGymCreate), s.createGym)
	api.Put("/gyms/:id", jwt, auth.RequirePermission(constants.PermGymUpdate), s.updateGym)
	api.Delete("/gyms/:id", jwt, auth.RequirePermission(constants.PermGymDelete), s.deleteGym)
	api.Get("/gyms/:id/branches", jwt, s.listBranches)
	api.Post("/gyms/:id/branches", jwt, auth.RequirePermission(constants.PermGymUpdate), s.createBranch)
	api.Get("/branches/:id/walls", jwt, s.listWalls)
}

func (s *Server) listGyms(c *fiber.Ctx) error {
	name := c.Query("name")
	adminID, err := queryID(c, "gymAdminId")
	if err != nil {
		return err
	}
	status, err := queryEnum(c, "status", contract.ParseGymStatus)
	if err != nil {
		return err
	}
	var gyms []contract.Gym
	_ = s.Fixtures.do(func(d *dataset) error {
		for _, id := range sortedIDs(d.gyms) {
			g, _ := d.gym(id)
			if !contains(g.Name, name) ||
				(adminID != nil && g.GymAdminID != *adminID) ||
				(status != "" && g.GymStatus != status) {
				continue
			}
			gyms = append(gyms, g)
		}
		return nil
	})
	return ok(c, paginate(c, gyms, gymOrder))
}

func (s *Server) getGym(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var gym contract.Gym
	err = s.Fixtures.do(func(d *dataset) error {
		g, found := d.gym(id)
		if !found {
			return notFound("GYM", id)
		}
		if a, found := d.accounts[g.GymAdminID]; found {
			admin := a.user
			g.GymAdmin = &admin
		}
		gym = g
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, gym)
}

func (s *Server) createGym(c *fiber.Ctx) error {
	var form contract.GymFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	var gym contract.Gym
	err := s.Fixtures.do(func(d *dataset) error {
		if _, found := d.accounts[form.GymAdminID]; !found {
			return notFound("USER", form.GymAdminID)
		}
		g := &contract.Gym{
			GymID:       d.nextID(),
			Name:        form.Name,
			Description: form.Description,
			GymAdminID:  form.GymAdminID,
			GymStatus:   contract.GymStatusActive,
			Audit:       d.stamp(),
		}
		g.CreatedBy = actor(c)
		d.gyms[g.GymID] = g
		gym, _ = d.gym(g.GymID)
		return nil
	})
	if err != nil {
		return err
	}
	return created(c, gym, constants.MessageSuccess)
}

// ownsGym lets a gym admin manage only the gyms assigned to them.
func ownsGym(c *fiber.Ctx, g *contract.Gym) error {
	claims := auth.ClaimsFrom(c)
	if claims != nil && claims.UserType == contract.UserTypeGymAdmin && g.GymAdminID != claims.UserID {
		return errForbidden
	}
	return nil
}

func (s *Server) updateGym(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form contract.GymFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	var gym contract.Gym
	err = s.Fixtures.do(func(d *dataset) error {
		g, found := d.gyms[id]
		if !found {
			return notFound("GYM", id)
		}
		if err := ownsGym(c, g); err != nil {
			return err
		}
		if _, found := d.accounts[form.GymAdminID]; !found {
			return notFound("USER", form.GymAdminID)
		}
		g.Name, g.Description, g.GymAdminID = form.Name, form.Description, form.GymAdminID
		d.touch(&g.Audit, actor(c))
		gym, _ = d.gym(id)
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, gym)
}

// deleteGym removes the gym with its branches, walls and routes.
func (s *Server) deleteGym(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.gyms[id]; !found {
			return notFound("GYM", id)
		}
		delete(d.gyms, id)
		for bid, b := range d.branches {
			if b.GymID != id {
				continue
			}
			delete(d.branches, bid)
			for wid, w := range d.walls {
				if w.BranchID == bid {
					delete(d.walls, wid)
				}
			}
			for rid, r := range d.routes {
				if r.BranchID == bid {
					d.dropRoute(rid)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return done(c, constants.MessageSuccess)
}

func (s *Server) listBranches(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var branches []contract.GymBranch
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.gyms[id]; !found {
			return notFound("GYM", id)
		}
		branches = d.branchesOf(id)
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, branches)
}

func (s *Server) createBranch(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form contract.GymBranchFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	var amenities json.RawMessage
	if form.Amenities != nil {
		if amenities, err = json.Marshal(form.Amenities); err != nil {
			return err
		}
	}
	var branch contract.GymBranch
	err = s.Fixtures.do(func(d *dataset) error {
		g, found := d.gyms[id]
		if !found {
			return notFound("GYM", id)
		}
		if err := ownsGym(c, g); err != nil {
			return err
		}
		b := &contract.GymBranch{
			BranchID:      d.nextID(),
			GymID:         id,
			BranchName:    form.BranchName,
			Address:       form.Address,
			DetailAddress: form.DetailAddress,
			ContactPhone:  form.ContactPhone,
			Latitude:      form.Latitude,
			Longitude:     form.Longitude,
			BusinessHours: form.BusinessHours,
			Amenities:     amenities,
			BranchStatus:  contract.GymStatusActive,
			Audit:         d.stamp(),
		}
		b.CreatedBy = actor(c)
		d.branches[b.BranchID] = b
		branch = *b
		return nil
	})
	if err != nil {
		return err
	}
	return created(c, branch, constants.MessageSuccess)
}

// nearbyBranches lists active branches within radius km, nearest first.
func (s *Server) nearbyBranches(c *fiber.Ctx) error {
	lat, err := queryFloat(c, "latitude")
	if err != nil {
		return err
	}
	lng, err := queryFloat(c, "longitude")
	if err != nil {
		return err
	}
	if lat == nil || lng == nil {
		return invalid("latitude", "latitude and longitude are required")
	}
	radius := defaultNearbyRadiusKm
	if r, err := queryFloat(c, "radius"); err != nil {
		return err
	} else if r != nil {
		if *r <= 0 {
			return invalid("radius", "must be positive")
		}
		radius = *r
	}

	type hit struct {
		branch contract.GymBranch
		km     float64
	}
	var hits []hit
	_ = s.Fixtures.do(func(d *dataset) error {
		for _, b := range d.branches {
			if b.BranchStatus == contract.GymStatusInactive {
				continue
			}
			km := geo.HaversineKm(*lat, *lng, b.Latitude, b.Longitude)
			if km <= radius {
				hits = append(hits, hit{branch: *b, km: km})
			}
		}
		return nil
	})
	slices.SortFunc(hits, func(a, b hit) int { return cmp.Compare(a.km, b.km) })
	branches := make([]contract.GymBranch, 0, len(hits))
	for _, h := range hits {
		branches = append(branches, h.branch)
	}
	return ok(c, branches)
}

func (s *Server) listWalls(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var walls []contract.Wall
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.branches[id]; !found {
			return notFound("BRANCH", id)
		}
		walls = d.wallsOf(id)
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, walls)
}
