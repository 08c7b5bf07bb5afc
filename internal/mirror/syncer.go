package mirror

import (
	"context"
	"fmt"
	"log"

	"github.com/son-changwook/routepick/internal/apiclient"
	"github.com/son-changwook/routepick/internal/contract"
)

// Report is the outcome of syncing one kind.
type Report struct {
	Kind   Kind  `json:"kind"`
	Synced int   `json:"synced"`
	Pruned int64 `json:"pruned"`
}

// Syncer copies every page of each kind from the API into the Store, then
// prunes snapshots the API no longer returns.
type Syncer struct {
	api      *apiclient.Client
	store    *Store
	PageSize int
}

func NewSyncer(api *apiclient.Client, store *Store) *Syncer {
	return &Syncer{api: api, store: store, PageSize: contract.MaxPageSize}
}

// Sync stops at the first failing kind and returns the reports so far.
func (s *Syncer) Sync(ctx context.Context, kinds ...Kind) ([]Report, error) {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	reports := make([]Report, 0, len(kinds))
	for _, kind := range kinds {
		started := s.store.now()
		n, err := s.syncKind(ctx, kind)
		if err != nil {
			return reports, fmt.Errorf("sync %s: %w", kind, err)
		}
		pruned, err := s.store.Prune(ctx, kind, started)
		if err != nil {
			return reports, fmt.Errorf("prune %s: %w", kind, err)
		}
		log.Printf("mirror: %s synced=%d pruned=%d", kind, n, pruned)
		reports = append(reports, Report{Kind: kind, Synced: n, Pruned: pruned})
	}
	return reports, nil
}

func (s *Syncer) syncKind(ctx context.Context, kind Kind) (int, error) {
	base := contract.BaseFilter{Size: &s.PageSize, Sort: "id", Direction: contract.SortAsc}
	switch kind {
	case KindGym:
		return pageAll(ctx, s.store, kind, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.Gym], error) {
			return s.api.Gyms.List(ctx, contract.GymFilter{BaseFilter: f})
		}, func(g contract.Gym) int64 { return g.GymID })
	case KindRoute:
		return pageAll(ctx, s.store, kind, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.Route], error) {
			return s.api.Routes.List(ctx, contract.RouteFilter{BaseFilter: f})
		}, func(r contract.Route) int64 { return r.RouteID })
	case KindTag:
		return pageAll(ctx, s.store, kind, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.Tag], error) {
			return s.api.Tags.List(ctx, contract.TagFilter{BaseFilter: f})
		}, func(t contract.Tag) int64 { return t.TagID })
	case KindUser:
		return pageAll(ctx, s.store, kind, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.User], error) {
			return s.api.Users.List(ctx, contract.UserFilter{BaseFilter: f})
		}, func(u contract.User) int64 { return u.UserID })
	case KindPayment:
		return pageAll(ctx, s.store, kind, base, func(ctx context.Context, f contract.BaseFilter) (*contract.PageResponse[contract.PaymentRecord], error) {
			return s.api.Payments.List(ctx, contract.PaymentFilter{BaseFilter: f})
		}, func(p contract.PaymentRecord) int64 { return p.PaymentID })
	}
	return 0, fmt.Errorf("unknown kind %q", kind)
}

func pageAll[T any](
	ctx context.Context,
	store *Store,
	kind Kind,
	base contract.BaseFilter,
	fetch func(context.Context, contract.BaseFilter) (*contract.PageResponse[T], error),
	id func(T) int64,
) (int, error) {
	n := 0
	for page := 0; ; page++ {
		res, err := fetch(ctx, base.WithPage(page))
		if err != nil {
			return n, err
		}
		for _, item := range res.Content {
			if err := store.Upsert(ctx, kind, id(item), item); err != nil {
				return n, err
			}
			n++
		}
		if !res.HasNext() || len(res.Content) == 0 {
			return n, nil
		}
	}
}
