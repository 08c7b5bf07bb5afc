package stub

import (
	"cmp"
	"slices"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
)

var climbOrder = orderings[contract.UserClimb]{
	"id":        func(a, b contract.UserClimb) int { return cmp.Compare(a.ClimbID, b.ClimbID) },
	"climbDate": func(a, b contract.UserClimb) int { return a.ClimbDate.Compare(b.ClimbDate.Time) },
	"createdAt": func(a, b contract.UserClimb) int { return byTime(a.CreatedAt, b.CreatedAt) },
}

var notificationOrder = orderings[contract.PushNotification]{
	"id":        func(a, b contract.PushNotification) int { return cmp.Compare(a.NotificationID, b.NotificationID) },
	"createdAt": func(a, b contract.PushNotification) int { return byTime(a.CreatedAt, b.CreatedAt) },
}

// registerActivity mounts the per-user endpoints: climbs, recommendations
// and notifications. Callers only ever see their own records.
func registerActivity(api fiber.Router, s *Server, jwt fiber.Handler) {
	api.Get("/climbs", jwt, s.listClimbs)
	api.Post("/climbs", jwt, s.logClimb)
	api.Delete("/climbs/:id", jwt, s.deleteClimb)
	api.Get("/recommendations", jwt, s.recommendations)
	api.Get("/notifications", jwt, s.listNotifications)
	api.Put("/notifications/:id/read", jwt, s.markNotificationRead)
}

func (s *Server) listClimbs(c *fiber.Ctx) error {
	userID := callerID(c)
	var climbs []contract.UserClimb
	_ = s.Fixtures.do(func(d *dataset) error {
		for _, id := range sortedIDs(d.climbs) {
			cl := *d.climbs[id]
			if cl.UserID != userID {
				continue
			}
			if r, found := d.route(cl.RouteID); found {
				cl.Route = &r
			}
			climbs = append(climbs, cl)
		}
		return nil
	})
	return ok(c, paginate(c, climbs, climbOrder))
}

func (s *Server) logClimb(c *fiber.Ctx) error {
	var req contract.ClimbLogRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	userID := callerID(c)
	var climb contract.UserClimb
	err := s.Fixtures.do(func(d *dataset) error {
		r, found := d.route(req.RouteID)
		if !found {
			return notFound("ROUTE", req.RouteID)
		}
		day := req.ClimbDate
		if day.IsZero() {
			day = d.today()
		}
		cl := &contract.UserClimb{
			ClimbID:     d.nextID(),
			UserID:      userID,
			RouteID:     req.RouteID,
			ClimbDate:   day,
			Attempts:    req.Attempts,
			IsCompleted: req.IsCompleted,
			Rating:      req.Rating,
			Notes:       req.Notes,
			Audit:       d.stamp(),
		}
		cl.CreatedBy = actor(c)
		d.climbs[cl.ClimbID] = cl
		climb = *cl
		climb.Route = &r
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(contract.UpdateUserActivity, "climb_logged", climb.ClimbID, climb)
	return created(c, climb, constants.MessageSuccess)
}

func (s *Server) deleteClimb(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	userID := callerID(c)
	err = s.Fixtures.do(func(d *dataset) error {
		cl, found := d.climbs[id]
		if !found || cl.UserID != userID {
			return notFound("CLIMB", id)
		}
		delete(d.climbs, id)
		return nil
	})
	if err != nil {
		return err
	}
	return done(c, constants.MessageSuccess)
}

// recommendations returns the caller's stored recommendations, best first.
// Scores come from the fixtures; nothing is computed here.
func (s *Server) recommendations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", constants.RecommendationMaxResults)
	if limit <= 0 || limit > constants.RecommendationMaxResults {
		limit = constants.RecommendationMaxResults
	}
	userID := callerID(c)
	recs := []contract.RouteRecommendation{}
	_ = s.Fixtures.do(func(d *dataset) error {
		for _, rec := range d.recommendations[userID] {
			if !rec.IsActive || rec.RecommendationScore < constants.RecommendationMinScore {
				continue
			}
			if r, found := d.route(rec.RouteID); found {
				rec.Route = &r
				rec.RouteImages = r.RouteImages
				rec.RouteTags = r.RouteTags
			}
			recs = append(recs, rec)
		}
		return nil
	})
	slices.SortStableFunc(recs, func(a, b contract.RouteRecommendation) int {
		return cmp.Compare(b.RecommendationScore, a.RecommendationScore)
	})
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return ok(c, recs)
}

func (s *Server) listNotifications(c *fiber.Ctx) error {
	userID := callerID(c)
	var notes []contract.PushNotification
	_ = s.Fixtures.do(func(d *dataset) error {
		for _, id := range sortedIDs(d.notifications) {
			if n := d.notifications[id]; n.UserID == userID {
				notes = append(notes, *n)
			}
		}
		return nil
	})
	return ok(c, paginate(c, notes, notificationOrder))
}

func (s *Server) markNotificationRead(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	userID := callerID(c)
	err = s.Fixtures.do(func(d *dataset) error {
		n, found := d.notifications[id]
		if !found || n.UserID != userID {
			return notFound("NOTIFICATION", id)
		}
		next := *n
		next.IsRead = true
		d.notifications[id] = &next
		return nil
	})
	if err != nil {
		return err
	}
	return done(c, constants.MessageSuccess)
}
