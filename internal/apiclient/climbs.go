package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"
)

type ClimbService struct{ c *Client }

func (s *ClimbService) List(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.UserClimb], error) {
	var page contract.PageResponse[contract.UserClimb]
	if err := s.c.do(ctx, call{op: "climbs.list", method: http.MethodGet, path: "/api/climbs", query: f.Values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *ClimbService) Log(ctx context.Context, req contract.ClimbLogRequest) (*contract.UserClimb, error) {
	if err := contract.Validate(req); err != nil {
		return nil, err
	}
	var climb contract.UserClimb
	if err := s.c.do(ctx, call{op: "climbs.log", method: http.MethodPost, path: "/api/climbs", body: req}, &climb); err != nil {
		return nil, err
	}
	return &climb, nil
}

func (s *ClimbService) Delete(ctx context.Context, id int64) error {
	return s.c.do(ctx, call{op: "climbs.delete", method: http.MethodDelete, path: idPath("/api/climbs/%d", id)}, nil)
}

// RecommendationService only reads; scores are computed by the backend.
type RecommendationService struct{ c *Client }

// List returns up to limit recommendations, RecommendationMaxResults when limit <= 0.
func (s *RecommendationService) List(ctx context.Context, limit int) ([]contract.RouteRecommendation, error) {
	if limit <= 0 {
		limit = constants.RecommendationMaxResults
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	var recs []contract.RouteRecommendation
	if err := s.c.do(ctx, call{op: "recommendations.list", method: http.MethodGet, path: "/api/recommendations", query: q}, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
