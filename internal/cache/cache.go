package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/son-changwook/routepick/internal/apiclient"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/redis/go-redis/v9"
)

// Cache puts Redis in front of the slow-changing API reads. Keys and TTLs
// are the backend's:
//   - gym:branches:<gymId>          6h
//   - route:tags:<routeId>          1h
//   - user:profile:<userId>         30m
//   - user:recommendations:<userId> 24h
//
// A nil Redis client or a Redis failure falls through to the API.
type Cache struct {
	api *apiclient.Client
	rdb *redis.Client
}

func New(api *apiclient.Client, rdb *redis.Client) *Cache {
	return &Cache{api: api, rdb: rdb}
}

func readThrough[T any](ctx context.Context, c *Cache, key constants.CacheKey, id any, fetch func(context.Context) (T, error)) (T, error) {
	k := key.Key(id)
	if c.rdb != nil {
		bs, err := c.rdb.Get(ctx, k).Bytes()
		switch {
		case err == nil:
			var v T
			if json.Unmarshal(bs, &v) == nil {
				return v, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Printf("cache read %s: %v", k, err)
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}
	if c.rdb != nil {
		if bs, err := json.Marshal(v); err == nil {
			if err := c.rdb.Set(ctx, k, bs, key.TTL).Err(); err != nil {
				log.Printf("cache write %s: %v", k, err)
			}
		}
	}
	return v, nil
}

func (c *Cache) GymBranches(ctx context.Context, gymID int64) ([]contract.GymBranch, error) {
	return readThrough(ctx, c, constants.CacheGymBranches, gymID, func(ctx context.Context) ([]contract.GymBranch, error) {
		return c.api.Gyms.Branches(ctx, gymID)
	})
}

func (c *Cache) RouteTags(ctx context.Context, routeID int64) ([]contract.RouteTag, error) {
	return readThrough(ctx, c, constants.CacheRouteTags, routeID, func(ctx context.Context) ([]contract.RouteTag, error) {
		return c.api.Routes.Tags(ctx, routeID)
	})
}

func (c *Cache) UserProfile(ctx context.Context, userID int64) (*contract.UserProfile, error) {
	return readThrough(ctx, c, constants.CacheUserProfile, userID, func(ctx context.Context) (*contract.UserProfile, error) {
		return c.api.Users.Profile(ctx, userID)
	})
}

// Recommendations caches the signed-in user's list under their id.
func (c *Cache) Recommendations(ctx context.Context, userID int64) ([]contract.RouteRecommendation, error) {
	return readThrough(ctx, c, constants.CacheUserRecommendations, userID, func(ctx context.Context) ([]contract.RouteRecommendation, error) {
		return c.api.Recommendations.List(ctx, 0)
	})
}

func (c *Cache) CreateBranch(ctx context.Context, gymID int64, form contract.GymBranchFormData) (*contract.GymBranch, error) {
	b, err := c.api.Gyms.CreateBranch(ctx, gymID, form)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, constants.CacheGymBranches, gymID)
	return b, nil
}

func (c *Cache) UpdateProfile(ctx context.Context, userID int64, form contract.ProfileUpdateFormData) (*contract.UserProfile, error) {
	p, err := c.api.Users.UpdateProfile(ctx, form)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, constants.CacheUserProfile, userID)
	return p, nil
}

// SetPreferredTags drops the cached recommendations, which depend on them.
func (c *Cache) SetPreferredTags(ctx context.Context, userID int64, prefs []contract.PreferredTagRequest) ([]contract.UserPreferredTag, error) {
	tags, err := c.api.Tags.SetPreferred(ctx, prefs)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, constants.CacheUserRecommendations, userID)
	return tags, nil
}

func (c *Cache) Invalidate(ctx context.Context, key constants.CacheKey, id any) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key.Key(id)).Err(); err != nil {
		log.Printf("cache invalidate %s: %v", key.Key(id), err)
	}
}
