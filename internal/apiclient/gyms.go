package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/son-changwook/routepick/internal/contract"
)

type GymService struct{ c *Client }

func (s *GymService) List(ctx context.Context, f contract.GymFilter) (*contract.PageResponse[contract.Gym], error) {
	var page contract.PageResponse[contract.Gym]
	if err := s.c.do(ctx, call{op: "gyms.list", method: http.MethodGet, path: "/api/gyms", query: f.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *GymService) Get(ctx context.Context, id int64) (*contract.Gym, error) {
	var g contract.Gym
	if err := s.c.do(ctx, call{op: "gyms.get", method: http.MethodGet, path: idPath("/api/gyms/%d", id)}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GymService) Create(ctx context.Context, form contract.GymFormData) (*contract.Gym, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var g contract.Gym
	if err := s.c.do(ctx, call{op: "gyms.create", method: http.MethodPost, path: "/api/gyms", body: form}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GymService) Update(ctx context.Context, id int64, form contract.GymFormData) (*contract.Gym, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var g contract.Gym
	if err := s.c.do(ctx, call{op: "gyms.update", method: http.MethodPut, path: idPath("/api/gyms/%d", id), body: form}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GymService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, call{op: "gyms.delete", method: http.MethodDelete, path: idPath("/api/gyms/%d", id)}, nil)
}

func (s *GymService) Branches(ctx context.Context, gymID int64) ([]contract.GymBranch, error) {
	var branches []contract.GymBranch
	if err := s.c.do(ctx, call{op: "gyms.branches", method: http.MethodGet, path: idPath("/api/gyms/%d/branches", gymID)}, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

func (s *GymService) CreateBranch(ctx context.Context, gymID int64, form contract.GymBranchFormData) (*contract.GymBranch, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var b contract.GymBranch
	err := s.c.do(ctx, call{op: "gyms.create_branch", method: http.MethodPost, path: idPath("/api/gyms/%d/branches", gymID), body: form}, &b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Nearby lists branches within area.Radius kilometres of area.Center.
func (s *GymService) Nearby(ctx context.Context, area contract.SearchArea) ([]contract.GymBranch, error) {
	if err := contract.Validate(area); err != nil {
		return nil, err
	}
	q := url.Values{
		"latitude":  {strconv.FormatFloat(area.Center.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(area.Center.Longitude, 'f', -1, 64)},
		"radius":    {strconv.FormatFloat(area.Radius, 'f', -1, 64)},
	}
	var branches []contract.GymBranch
	if err := s.c.do(ctx, call{op: "gyms.nearby", method: http.MethodGet, path: "/api/gyms/nearby", query: q, anonymous: true}, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

type WallService struct{ c *Client }

func (s *WallService) List(ctx context.Context, branchID int64) ([]contract.Wall, error) {
	var walls []contract.Wall
	if err := s.c.do(ctx, call{op: "walls.list", method: http.MethodGet, path: idPath("/api/branches/%d/walls", branchID)}, &walls); err != nil {
		return nil, err
	}
	return walls, nil
}
