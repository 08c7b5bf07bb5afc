package cache

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/son-changwook/routepick/internal/apiclient"
	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type fiberDoer struct{ app *fiber.App }

func (d fiberDoer) Do(req *http.Request) (*http.Response, error) { return d.app.Test(req, -1) }

type branchAPI struct {
	app   *fiber.App
	calls atomic.Int32
}

func newBranchAPI() *branchAPI {
	b := &branchAPI{app: fiber.New()}
	b.app.Get("/api/gyms/:id/branches", func(c *fiber.Ctx) error {
		b.calls.Add(1)
		return c.JSON(contract.OK([]contract.GymBranch{{BranchID: 1, GymID: 1, BranchName: "강남점"}}, "ok"))
	})
	b.app.Post("/api/gyms/:id/branches", func(c *fiber.Ctx) error {
		return c.JSON(contract.OK(contract.GymBranch{BranchID: 2, GymID: 1, BranchName: "부산점"}, "ok"))
	})
	return b
}

func newAPI(app *fiber.App) *apiclient.Client {
	return apiclient.New(apiclient.Options{BaseURL: "http://routepick.test", RetryInterval: time.Millisecond, Doer: fiberDoer{app}})
}

func TestReadThroughCachesWithTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	api := newBranchAPI()
	c := New(newAPI(api.app), rdb)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		branches, err := c.GymBranches(ctx, 1)
		if err != nil {
			t.Fatalf("branches: %v", err)
		}
		if len(branches) != 1 || branches[0].BranchName != "강남점" {
			t.Fatalf("unexpected branches %+v", branches)
		}
	}
	if api.calls.Load() != 1 {
		t.Fatalf("expected one API call, got %d", api.calls.Load())
	}
	if ttl := mr.TTL("gym:branches:1"); ttl != constants.CacheGymBranches.TTL {
		t.Fatalf("ttl %v", ttl)
	}

	if _, err := c.CreateBranch(ctx, 1, contract.GymBranchFormData{BranchName: "부산점", Address: "부산", Latitude: 35.1, Longitude: 129.0}); err != nil {
		t.Fatalf("create branch: %v", err)
	}
	if mr.Exists("gym:branches:1") {
		t.Fatalf("create should invalidate the branch list")
	}
	_, _ = c.GymBranches(ctx, 1)
	if api.calls.Load() != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", api.calls.Load())
	}
}

func TestRedisDownFallsThrough(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	api := newBranchAPI()
	c := New(newAPI(api.app), rdb)
	branches, err := c.GymBranches(context.Background(), 1)
	if err != nil || len(branches) != 1 {
		t.Fatalf("expected direct fetch, got %+v %v", branches, err)
	}
}

func TestNilRedisAlwaysFetches(t *testing.T) {
	api := newBranchAPI()
	c := New(newAPI(api.app), nil)
	_, _ = c.GymBranches(context.Background(), 1)
	_, _ = c.GymBranches(context.Background(), 1)
	if api.calls.Load() != 2 {
		t.Fatalf("expected two fetches, got %d", api.calls.Load())
	}
}

func TestCorruptEntryRefetches(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	_ = mr.Set("gym:branches:1", "{not json")
	api := newBranchAPI()
	c := New(newAPI(api.app), redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	if _, err := c.GymBranches(context.Background(), 1); err != nil {
		t.Fatalf("branches: %v", err)
	}
	if api.calls.Load() != 1 {
		t.Fatalf("corrupt entry should be refetched")
	}
}
