package apiclient

import (
	"context"
	"net/http"

	"github.com/son-changwook/routepick/internal/contract"
)

type UserService struct{ c *Client }

func (s *UserService) List(ctx context.Context, f contract.UserFilter) (*contract.PageResponse[contract.User], error) {
	var page contract.PageResponse[contract.User]
	if err := s.c.do(ctx, call{op: "users.list", method: http.MethodGet, path: "/api/users", query: f.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*contract.User, error) {
	var u contract.User
	if err := s.c.do(ctx, call{op: "users.get", method: http.MethodGet, path: idPath("/api/users/%d", id)}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Create(ctx context.Context, form contract.UserFormData) (*contract.User, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var u contract.User
	if err := s.c.do(ctx, call{op: "users.create", method: http.MethodPost, path: "/api/users", body: form}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Update(ctx context.Context, id int64, form contract.UserFormData) (*contract.User, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var u contract.User
	if err := s.c.do(ctx, call{op: "users.update", method: http.MethodPut, path: idPath("/api/users/%d", id), body: form}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, call{op: "users.delete", method: http.MethodDelete, path: idPath("/api/users/%d", id)}, nil)
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*contract.UserProfile, error) {
	var p contract.UserProfile
	if err := s.c.do(ctx, call{op: "users.profile", method: http.MethodGet, path: idPath("/api/users/%d/profile", userID)}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, form contract.ProfileUpdateFormData) (*contract.UserProfile, error) {
	if err := contract.Validate(form); err != nil {
		return nil, err
	}
	var p contract.UserProfile
	if err := s.c.do(ctx, call{op: "users.update_profile", method: http.MethodPut, path: "/api/users/me/profile", body: form}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
