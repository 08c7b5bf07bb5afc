package stub

import (
	"cmp"
	"slices"
	"strings"

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
	"github.com/son-changwook/routepick/internal/shared/geo"

	"github.com/gofiber/fiber/v2"
)

var routeOrder = orderings[contract.Route]{
	"id":        func(a, b contract.Route) int { return cmp.Compare(a.RouteID, b.RouteID) },
	"routeId":   func(a, b contract.Route) int { return cmp.Compare(a.RouteID, b.RouteID) },
	"name":      func(a, b contract.Route) int { return byText(a.Name, b.Name) },
	"levelId":   func(a, b contract.Route) int { return cmp.Compare(a.LevelID, b.LevelID) },
	"createdAt": func(a, b contract.Route) int { return byTime(a.CreatedAt, b.CreatedAt) },
}

func registerRoutesAPI(api fiber.Router, s *Server, jwt fiber.Handler) {
	api.Get("/routes", jwt, s.listRoutes)
	api.Get("/routes/:id", jwt, s.getRoute)
	api.Post("/walls/:id/routes", jwt, auth.RequirePermission(constants.PermRouteCreate), s.createRoute)
	api.Put("/routes/:id", jwt, auth.RequirePermission(constants.PermRouteUpdate), s.updateRoute)
	api.Delete("/routes/:id", jwt, auth.RequirePermission(constants.PermRouteDelete), s.deleteRoute)
	api.Put("/routes/:id/status", jwt, auth.RequirePermission(constants.PermRouteUpdate), s.setRouteStatus)
	api.Get("/routes/:id/tags", jwt, s.routeTags)
	api.Get("/routes/:id/images", jwt, s.routeImages)
	api.Post("/routes/:id/images", jwt, auth.RequirePermission(constants.PermRouteUpdate), s.uploadRouteImage)
	api.Post("/routes/:id/videos", jwt, auth.RequirePermission(constants.PermRouteUpdate), s.uploadRouteVideo)
	api.Get("/search", jwt, s.search)
}

func (d *dataset) dropRoute(id int64) {
	delete(d.routes, id)
	delete(d.routeTags, id)
	delete(d.images, id)
	delete(d.videos, id)
	for uid, recs := range d.recommendations {
		d.recommendations[uid] = slices.DeleteFunc(slices.Clone(recs), func(r contract.RouteRecommendation) bool {
			return r.RouteID == id
		})
	}
}

func hasTags(links []contract.RouteTag, want []int64) bool {
	for _, id := range want {
		if !slices.ContainsFunc(links, func(rt contract.RouteTag) bool { return rt.TagID == id }) {
			return false
		}
	}
	return true
}

func (s *Server) listRoutes(c *fiber.Ctx) error {
	name := c.Query("name")
	branchID, err := queryID(c, "branchId")
	if err != nil {
		return err
	}
	levelID, err := queryID(c, "levelId")
	if err != nil {
		return err
	}
	setterID, err := queryID(c, "setterId")
	if err != nil {
		return err
	}
	tagIDs, err := queryIDs(c, "tagIds")
	if err != nil {
		return err
	}
	status, err := queryEnum(c, "status", contract.ParseRouteStatus)
	if err != nil {
		return err
	}

	var routes []contract.Route
	_ = s.Fixtures.do(func(d *dataset) error {
		for _, id := range sortedIDs(d.routes) {
			r := d.routes[id]
			switch {
			case !contains(r.Name, name),
				branchID != nil && r.BranchID != *branchID,
				levelID != nil && r.LevelID != *levelID,
				setterID != nil && (r.SetterID == nil || *r.SetterID != *setterID),
				status != "" && r.RouteStatus != status,
				!hasTags(d.routeTags[id], tagIDs):
				continue
			}
			route, _ := d.route(id)
			routes = append(routes, route)
		}
		return nil
	})
	return ok(c, paginate(c, routes, routeOrder))
}

func (s *Server) getRoute(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var route contract.Route
	err = s.Fixtures.do(func(d *dataset) error {
		r, found := d.route(id)
		if !found {
			return notFound("ROUTE", id)
		}
		route = r
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, route)
}

// applyRouteForm copies the form onto r after checking its references.
func (d *dataset) applyRouteForm(r *contract.Route, form contract.RouteFormData) error {
	if _, found := d.levels[form.LevelID]; !found {
		return notFound("LEVEL", form.LevelID)
	}
	if form.SetterID != nil {
		if _, found := d.setters[*form.SetterID]; !found {
			return notFound("SETTER", *form.SetterID)
		}
	}
	r.Name = form.Name
	r.Description = form.Description
	r.LevelID = form.LevelID
	r.Color = form.Color
	r.Angle = form.Angle
	r.SetterID = form.SetterID
	r.SetDate = form.SetDate
	return nil
}

func (s *Server) createRoute(c *fiber.Ctx) error {
	wallID, err := idParam(c)
	if err != nil {
		return err
	}
	var form contract.RouteFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	by := callerID(c)
	var route contract.Route
	err = s.Fixtures.do(func(d *dataset) error {
		w, found := d.walls[wallID]
		if !found {
			return notFound("WALL", wallID)
		}
		r := &contract.Route{
			RouteID:     d.nextID(),
			BranchID:    w.BranchID,
			WallID:      wallID,
			RouteStatus: contract.RouteStatusActive,
			Audit:       d.stamp(),
		}
		r.CreatedBy = actor(c)
		if err := d.applyRouteForm(r, form); err != nil {
			return err
		}
		if r.SetDate == nil {
			today := d.today()
			r.SetDate = &today
		}
		if err := d.linkTags(r.RouteID, form.TagIDs, &by); err != nil {
			return err
		}
		d.routes[r.RouteID] = r
		route, _ = d.route(r.RouteID)
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(contract.UpdateRoute, "created", route.RouteID, route)
	return created(c, route, constants.MessageRouteCreated)
}

func (s *Server) updateRoute(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form contract.RouteFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	by := callerID(c)
	var route contract.Route
	err = s.Fixtures.do(func(d *dataset) error {
		existing, found := d.routes[id]
		if !found {
			return notFound("ROUTE", id)
		}
		r := *existing
		if err := d.applyRouteForm(&r, form); err != nil {
			return err
		}
		if err := d.linkTags(id, form.TagIDs, &by); err != nil {
			return err
		}
		d.touch(&r.Audit, actor(c))
		d.routes[id] = &r
		route, _ = d.route(id)
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(contract.UpdateRoute, "updated", id, route)
	return c.JSON(contract.OK(route, constants.MessageRouteUpdated))
}

func (s *Server) deleteRoute(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.routes[id]; !found {
			return notFound("ROUTE", id)
		}
		d.dropRoute(id)
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(contract.UpdateRoute, "deleted", id, nil)
	return done(c, constants.MessageRouteDeleted)
}

// setRouteStatus stamps the retire date when a route is retired.
func (s *Server) setRouteStatus(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req contract.RouteStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	var route contract.Route
	err = s.Fixtures.do(func(d *dataset) error {
		existing, found := d.routes[id]
		if !found {
			return notFound("ROUTE", id)
		}
		r := *existing
		r.RouteStatus = req.RouteStatus
		r.RetireDate = nil
		if req.RouteStatus == contract.RouteStatusRetired {
			today := d.today()
			r.RetireDate = &today
		}
		d.touch(&r.Audit, actor(c))
		d.routes[id] = &r
		route, _ = d.route(id)
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(contract.UpdateRoute, "status", id, route)
	return c.JSON(contract.OK(route, constants.MessageRouteUpdated))
}

func (s *Server) routeTags(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var tags []contract.RouteTag
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.routes[id]; !found {
			return notFound("ROUTE", id)
		}
		tags = d.tagsOf(id)
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, tags)
}

func (s *Server) routeImages(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var images []contract.RouteImage
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.routes[id]; !found {
			return notFound("ROUTE", id)
		}
		images = slices.Clone(d.images[id])
		if images == nil {
			images = []contract.RouteImage{}
		}
		slices.SortFunc(images, func(a, b contract.RouteImage) int { return cmp.Compare(a.DisplayOrder, b.DisplayOrder) })
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, images)
}

// uploadRouteImage appends an image. The first image of a route becomes its main image.
func (s *Server) uploadRouteImage(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := s.routeExists(id); err != nil {
		return err
	}
	fh, contentType, err := receive(c, "file", constants.AllowedImageTypes, true)
	if err != nil {
		return err
	}
	up, err := s.Uploads.Save(c.Context(), callerID(c), "routes", fh, contentType)
	if err != nil {
		return err
	}
	var img contract.RouteImage
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.routes[id]; !found {
			return notFound("ROUTE", id)
		}
		existing := d.images[id]
		img = contract.RouteImage{
			ImageID:      d.nextID(),
			RouteID:      id,
			ImageURL:     up.URL,
			IsMain:       len(existing) == 0,
			DisplayOrder: len(existing),
			Audit:        d.stamp(),
		}
		d.images[id] = append(slices.Clone(existing), img)
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(contract.UpdateRoute, "image", id, img)
	return created(c, img, constants.MessageSuccess)
}

func (s *Server) uploadRouteVideo(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := s.routeExists(id); err != nil {
		return err
	}
	fh, contentType, err := receive(c, "file", constants.AllowedVideoTypes, true)
	if err != nil {
		return err
	}
	up, err := s.Uploads.Save(c.Context(), callerID(c), "videos", fh, contentType)
	if err != nil {
		return err
	}
	var video contract.RouteVideo
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.routes[id]; !found {
			return notFound("ROUTE", id)
		}
		video = contract.RouteVideo{VideoID: d.nextID(), RouteID: id, VideoURL: up.URL, Audit: d.stamp()}
		d.videos[id] = append(slices.Clone(d.videos[id]), video)
		return nil
	})
	if err != nil {
		return err
	}
	s.publish(contract.UpdateRoute, "video", id, video)
	return created(c, video, constants.MessageSuccess)
}

func (s *Server) routeExists(id int64) error {
	return s.Fixtures.do(func(d *dataset) error {
		if _, found := d.routes[id]; !found {
			return notFound("ROUTE", id)
		}
		return nil
	})
}

// search matches gyms and routes by name or description. With a location
// only results within the radius are returned, nearest first.
func (s *Server) search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	branchIDs, err := queryIDs(c, "branchIds")
	if err != nil {
		return err
	}
	levelIDs, err := queryIDs(c, "levelIds")
	if err != nil {
		return err
	}
	tagIDs, err := queryIDs(c, "tagIds")
	if err != nil {
		return err
	}
	minDiff, err := queryFloat(c, "minDifficulty")
	if err != nil {
		return err
	}
	maxDiff, err := queryFloat(c, "maxDifficulty")
	if err != nil {
		return err
	}
	lat, err := queryFloat(c, "latitude")
	if err != nil {
		return err
	}
	lng, err := queryFloat(c, "longitude")
	if err != nil {
		return err
	}
	radius, err := queryFloat(c, "radius")
	if err != nil {
		return err
	}
	located := lat != nil && lng != nil
	if located && radius == nil {
		r := defaultNearbyRadiusKm
		radius = &r
	}
	routeFilters := len(branchIDs) > 0 || len(levelIDs) > 0 || len(tagIDs) > 0 || minDiff != nil || maxDiff != nil

	var results []contract.SearchResult
	_ = s.Fixtures.do(func(d *dataset) error {
		distanceTo := func(branchID int64) (float64, bool) {
			b, found := d.branches[branchID]
			if !found {
				return 0, false
			}
			return geo.HaversineKm(*lat, *lng, b.Latitude, b.Longitude), true
		}
		if !routeFilters {
			for _, id := range sortedIDs(d.gyms) {
				g, _ := d.gym(id)
				if !contains(g.Name, query) && !contains(g.Description, query) {
					continue
				}
				var dist *float64
				if located {
					for _, b := range g.Branches {
						km := geo.HaversineKm(*lat, *lng, b.Latitude, b.Longitude)
						if km <= *radius && (dist == nil || km < *dist) {
							dist = &km
						}
					}
					if dist == nil {
						continue
					}
				}
				results = append(results, contract.SearchResult{Type: contract.ResultGym, Item: &g, Distance: dist})
			}
		}

		for _, id := range sortedIDs(d.routes) {
			r, _ := d.route(id)
			if !contains(r.Name, query) && !contains(r.Description, query) {
				continue
			}
			if len(branchIDs) > 0 && !slices.Contains(branchIDs, r.BranchID) ||
				len(levelIDs) > 0 && !slices.Contains(levelIDs, r.LevelID) ||
				!hasTags(r.RouteTags, tagIDs) {
				continue
			}
			if r.Level != nil && (minDiff != nil && r.Level.Difficulty < *minDiff || maxDiff != nil && r.Level.Difficulty > *maxDiff) {
				continue
			}
			var dist *float64
			if located {
				km, found := distanceTo(r.BranchID)
				if !found || km > *radius {
					continue
				}
				dist = &km
			}
			results = append(results, contract.SearchResult{Type: contract.ResultRoute, Item: &r, Distance: dist})
		}
		return nil
	})
	if located {
		slices.SortStableFunc(results, func(a, b contract.SearchResult) int { return cmp.Compare(*a.Distance, *b.Distance) })
	}
	return ok(c, contract.Paginate(results, pageRequest(c)))
}
