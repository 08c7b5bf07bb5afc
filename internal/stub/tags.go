package stub

import (
	"cmp"
	"slices"
	"strings"

	"github.com/son-changwook/routepick/internal/auth"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/gofiber/fiber/v2"
)

var tagOrder = orderings[contract.Tag]{
	"id":           func(a, b contract.Tag) int { return cmp.Compare(a.TagID, b.TagID) },
	"tagId":        func(a, b contract.Tag) int { return cmp.Compare(a.TagID, b.TagID) },
	"tagName":      func(a, b contract.Tag) int { return byText(a.TagName, b.TagName) },
	"tagType":      func(a, b contract.Tag) int { return cmp.Compare(a.TagType, b.TagType) },
	"displayOrder": func(a, b contract.Tag) int { return cmp.Compare(a.DisplayOrder, b.DisplayOrder) },
	"createdAt":    func(a, b contract.Tag) int { return byTime(a.CreatedAt, b.CreatedAt) },
}

func registerTags(api fiber.Router, s *Server, jwt fiber.Handler) {
	api.Get("/users/me/preferred-tags", jwt, s.preferredTags)
	api.Put("/users/me/preferred-tags", jwt, s.setPreferredTags)
	api.Get("/tags", jwt, s.listTags)
	api.Get("/tags/:id", jwt, s.getTag)
	api.Post("/tags", jwt, auth.RequirePermission(constants.PermTagCreate), s.createTag)
	api.Put("/tags/:id", jwt, auth.RequirePermission(constants.PermTagUpdate), s.updateTag)
	api.Delete("/tags/:id", jwt, auth.RequirePermission(constants.PermTagDelete), s.deleteTag)
}

func (s *Server) listTags(c *fiber.Ctx) error {
	name := c.Query("name")
	tagType, err := queryEnum(c, "tagType", contract.ParseTagType)
	if err != nil {
		return err
	}
	var tags []contract.Tag
	_ = s.Fixtures.do(func(d *dataset) error {
		for _, id := range sortedIDs(d.tags) {
			t, _ := d.tag(id)
			if contains(t.TagName, name) && (tagType == "" || t.TagType == tagType) {
				tags = append(tags, t)
			}
		}
		return nil
	})
	return ok(c, paginate(c, tags, tagOrder))
}

func (s *Server) getTag(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var tag contract.Tag
	err = s.Fixtures.do(func(d *dataset) error {
		t, found := d.tag(id)
		if !found {
			return notFound("TAG", id)
		}
		tag = t
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, tag)
}

// checkTagName rejects a name already used by another tag.
func (d *dataset) checkTagName(name string, self int64) error {
	for id, t := range d.tags {
		if id != self && strings.EqualFold(t.TagName, name) {
			return conflict("DUPLICATE_RESOURCE", "tag "+name+" already exists")
		}
	}
	return nil
}

func applyTagForm(t *contract.Tag, form contract.TagFormData) {
	t.TagName = form.TagName
	t.TagType = form.TagType
	t.TagCategory = form.TagCategory
	t.Description = form.Description
	t.IsUserSelectable = form.IsUserSelectable
	t.IsRouteTaggable = form.IsRouteTaggable
	t.DisplayOrder = form.DisplayOrder
}

func (s *Server) createTag(c *fiber.Ctx) error {
	var form contract.TagFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	var tag contract.Tag
	err := s.Fixtures.do(func(d *dataset) error {
		if err := d.checkTagName(form.TagName, 0); err != nil {
			return err
		}
		t := &contract.Tag{TagID: d.nextID(), Audit: d.stamp()}
		t.CreatedBy = actor(c)
		applyTagForm(t, form)
		d.tags[t.TagID] = t
		tag, _ = d.tag(t.TagID)
		return nil
	})
	if err != nil {
		return err
	}
	return created(c, tag, constants.MessageSuccess)
}

func (s *Server) updateTag(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var form contract.TagFormData
	if err := bind(c, &form); err != nil {
		return err
	}
	var tag contract.Tag
	err = s.Fixtures.do(func(d *dataset) error {
		existing, found := d.tags[id]
		if !found {
			return notFound("TAG", id)
		}
		if err := d.checkTagName(form.TagName, id); err != nil {
			return err
		}
		t := *existing
		applyTagForm(&t, form)
		d.touch(&t.Audit, actor(c))
		d.tags[id] = &t
		tag, _ = d.tag(id)
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, tag)
}

// deleteTag also detaches the tag from routes and preferences.
func (s *Server) deleteTag(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	err = s.Fixtures.do(func(d *dataset) error {
		if _, found := d.tags[id]; !found {
			return notFound("TAG", id)
		}
		delete(d.tags, id)
		for rid, links := range d.routeTags {
			d.routeTags[rid] = slices.DeleteFunc(slices.Clone(links), func(rt contract.RouteTag) bool { return rt.TagID == id })
		}
		for uid, prefs := range d.preferred {
			d.preferred[uid] = slices.DeleteFunc(slices.Clone(prefs), func(p contract.UserPreferredTag) bool { return p.TagID == id })
		}
		return nil
	})
	if err != nil {
		return err
	}
	return done(c, constants.MessageSuccess)
}

func (d *dataset) preferencesOf(userID int64) []contract.UserPreferredTag {
	prefs := d.preferred[userID]
	out := make([]contract.UserPreferredTag, 0, len(prefs))
	for _, p := range prefs {
		if t, found := d.tags[p.TagID]; found {
			tag := *t
			p.Tag = &tag
		}
		out = append(out, p)
	}
	return out
}

func (s *Server) preferredTags(c *fiber.Ctx) error {
	id := callerID(c)
	var prefs []contract.UserPreferredTag
	_ = s.Fixtures.do(func(d *dataset) error {
		prefs = d.preferencesOf(id)
		return nil
	})
	return ok(c, prefs)
}

// setPreferredTags replaces the caller's preferences. Tags must be user selectable.
func (s *Server) setPreferredTags(c *fiber.Ctx) error {
	var reqs []contract.PreferredTagRequest
	if err := c.BodyParser(&reqs); err != nil {
		return invalid("body", err.Error())
	}
	for _, r := range reqs {
		if err := contract.Validate(r); err != nil {
			return err
		}
	}
	userID := callerID(c)
	var prefs []contract.UserPreferredTag
	err := s.Fixtures.do(func(d *dataset) error {
		next := make([]contract.UserPreferredTag, 0, len(reqs))
		seen := map[int64]bool{}
		for _, r := range reqs {
			t, found := d.tags[r.TagID]
			if !found {
				return notFound("TAG", r.TagID)
			}
			if !t.IsUserSelectable {
				return invalid("tagId", "tag "+t.TagName+" is not selectable")
			}
			if seen[r.TagID] {
				return invalid("tagId", "duplicate tag "+t.TagName)
			}
			seen[r.TagID] = true
			next = append(next, contract.UserPreferredTag{
				UserTagID:       d.nextID(),
				UserID:          userID,
				TagID:           r.TagID,
				PreferenceLevel: r.PreferenceLevel,
				SkillLevel:      r.SkillLevel,
				Audit:           d.stamp(),
			})
		}
		d.preferred[userID] = next
		prefs = d.preferencesOf(userID)
		return nil
	})
	if err != nil {
		return err
	}
	return ok(c, prefs)
}
