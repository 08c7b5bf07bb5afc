package apiclient

import (
	"context"
	"net/http"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
)

type RouteService struct{ c *Client }

func (s *RouteService) List(ctx context.Context, f contract.RouteFilter) (*contract.PageResponse[contract.Route], error) {
	var page contract.PageResponse[contract.Route]
	if err := s.c.do(ctx, call{op: "routes.list", method: http.MethodGet, path: "/api/routes", query: f.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *RouteService) Get(ctx context.Context, id int64) (*contract.Route, error) {
	var r contract.Route
	if err := s.c.do(ctx, call{op: "routes.get", method: http.MethodGet, path: idPath("/api/routes/%d", id)}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create adds a route to a wall.
func (s *RouteService) Create(ctx context.Context, wallID int64, form contract.RouteFormData) (*contract.Route, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var r contract.Route
	if err := s.c.do(ctx, call{op: "routes.create", method: http.MethodPost, path: idPath("/api/walls/%d/routes", wallID), body: form}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RouteService) Update(ctx context.Context, id int64, form contract.RouteFormData) (*contract.Route, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var r contract.Route
	if err := s.c.do(ctx, call{op: "routes.update", method: http.MethodPut, path: idPath("/api/routes/%d", id), body: form}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RouteService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, call{op: "routes.delete", method: http.MethodDelete, path: idPath("/api/routes/%d", id)}, nil)
}

func (s *RouteService) SetStatus(ctx context.Context, id int64, status contract.RouteStatus) (*contract.Route, error) {
	req := contract.RouteStatusRequest{RouteStatus: status}
	if err := contract.Validate(req); err != nil {
		return nil, err
	}
	var r contract.Route
	if err := s.c.do(ctx, call{op: "routes.status", method: http.MethodPut, path: idPath("/api/routes/%d/status", id), body: req}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RouteService) Tags(ctx context.Context, id int64) ([]contract.RouteTag, error) {
	var tags []contract.RouteTag
	if err := s.c.do(ctx, call{op: "routes.tags", method: http.MethodGet, path: idPath("/api/routes/%d/tags", id)}, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *RouteService) Images(ctx context.Context, id int64) ([]contract.RouteImage, error) {
	var images []contract.RouteImage
	if err := s.c.do(ctx, call{op: "routes.images", method: http.MethodGet, path: idPath("/api/routes/%d/images", id)}, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (s *RouteService) UploadImage(ctx context.Context, id int64, f File) (*contract.RouteImage, error) {
	if err := f.check(constants.AllowedImageTypes); err != nil {
		return nil, err
	}
	raw, contentType, err := encodeMultipart(part{field: "file", file: &f})
	if err != nil {
		return nil, err
	}
	var img contract.RouteImage
	err = s.c.do(ctx, call{op: "routes.upload_image", method: http.MethodPost, path: idPath("/api/routes/%d/images", id), raw: raw, contentType: contentType}, &img)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *RouteService) UploadVideo(ctx context.Context, id int64, f File) (*contract.RouteVideo, error) {
	if err := f.check(constants.AllowedVideoTypes); err != nil {
		return nil, err
	}
	raw, contentType, err := encodeMultipart(part{field: "file", file: &f})
	if err != nil {
		return nil, err
	}
	var v contract.RouteVideo
	err = s.c.do(ctx, call{op: "routes.upload_video", method: http.MethodPost, path: idPath("/api/routes/%d/videos", id), raw: raw, contentType: contentType}, &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Search finds gyms and routes matching the filters.
func (s *RouteService) Search(ctx context.Context, f contract.SearchFilters, page contract.BaseFilter) (*contract.PageResponse[contract.SearchResult], error) {
	q := f.Values()
	for k, v := range page.Values() {
		q[k] = v
	}
	var res contract.PageResponse[contract.SearchResult]
	if err := s.c.do(ctx, call{op: "routes.search", method: http.MethodGet, path: "/api/search", query: q}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
