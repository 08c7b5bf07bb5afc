package apiclient

import (
	"context"
	"net/http"

	"github.com/son-changwook/routepick/internal/contract"
)

type TagService struct{ c *Client }

func (s *TagService) List(ctx context.Context, f contract.TagFilter) (*contract.PageResponse[contract.Tag], error) {
	var page contract.PageResponse[contract.Tag]
	if err := s.c.do(ctx, call{op: "tags.list", method: http.MethodGet, path: "/api/tags", query: f.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *TagService) Get(ctx context.Context, id int64) (*contract.Tag, error) {
	var t contract.Tag
	if err := s.c.do(ctx, call{op: "tags.get", method: http.MethodGet, path: idPath("/api/tags/%d", id)}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TagService) Create(ctx context.Context, form contract.TagFormData) (*contract.Tag, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var t contract.Tag
	if err := s.c.do(ctx, call{op: "tags.create", method: http.MethodPost, path: "/api/tags", body: form}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TagService) Update(ctx context.Context, id int64, form contract.TagFormData) (*contract.Tag, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var t contract.Tag
	if err := s.c.do(ctx, call{op: "tags.update", method: http.MethodPut, path: idPath("/api/tags/%d", id), body: form}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TagService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, call{op: "tags.delete", method: http.MethodDelete, path: idPath("/api/tags/%d", id)}, nil)
}

// Preferred lists the signed-in user's preferred tags.
func (s *TagService) Preferred(ctx context.Context) ([]contract.UserPreferredTag, error) {
	var tags []contract.UserPreferredTag
	if err := s.c.do(ctx, call{op: "tags.preferred", method: http.MethodGet, path: "/api/users/me/preferred-tags"}, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// SetPreferred replaces the signed-in user's preferred tags.
func (s *TagService) SetPreferred(ctx context.Context, prefs []contract.PreferredTagRequest) ([]contract.UserPreferredTag, error) {
	for _, p := range prefs {
		if err := contract.Validate(p); err != nil {
			return nil, err
		}
	}
	var tags []contract.UserPreferredTag
	if err := s.c.do(ctx, call{op: "tags.set_preferred", method: http.MethodPut, path: "/api/users/me/preferred-tags", body: prefs}, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}
