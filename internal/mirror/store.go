package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/son-changwook/routepick/internal/db"

	"github.com/jackc/pgx/v5"
)

// Kind names the entity type a snapshot holds.
type Kind string

const (
	KindGym     Kind = "gym"
	KindRoute   Kind = "route"
	KindTag     Kind = "tag"
	KindUser    Kind = "user"
	KindPayment Kind = "payment"
)

var Kinds = []Kind{KindGym, KindRoute, KindTag, KindUser, KindPayment}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

var ErrNotFound = errors.New("snapshot not found")

type Snapshot struct {
	Kind     Kind            `json:"kind"`
	ID       int64           `json:"id"`
	Payload  json.RawMessage `json:"payload"`
	SyncedAt time.Time       `json:"syncedAt"`
}

// Store keeps the last seen JSON of each entity in contract_snapshots.
type Store struct {
	db  db.Querier
	now func() time.Time
}

func NewStore(db db.Querier) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS contract_snapshots (
			kind      TEXT        NOT NULL,
			id        BIGINT      NOT NULL,
			payload   JSONB       NOT NULL,
			synced_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (kind, id)
		)
	`)
	return err
}

func (s *Store) Upsert(ctx context.Context, kind Kind, id int64, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", kind, id, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO contract_snapshots (kind, id, payload, synced_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (kind, id) DO UPDATE SET payload = EXCLUDED.payload, synced_at = EXCLUDED.synced_at
	`, string(kind), id, b, s.now().UTC())
	return err
}

func (s *Store) Get(ctx context.Context, kind Kind, id int64) (Snapshot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT kind, id, payload, synced_at
		FROM contract_snapshots WHERE kind=$1 AND id=$2
	`, string(kind), id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	return snap, err
}

func (s *Store) List(ctx context.Context, kind Kind) ([]Snapshot, error) {
	rows, err := s.db.Query(ctx, `
		SELECT kind, id, payload, synced_at
		FROM contract_snapshots WHERE kind=$1
		ORDER BY id
	`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Prune deletes snapshots of kind not refreshed since before.
func (s *Store) Prune(ctx context.Context, kind Kind, before time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM contract_snapshots WHERE kind=$1 AND synced_at < $2`, string(kind), before.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		snap Snapshot
		kind string
		raw  []byte
	)
	if err := row.Scan(&kind, &snap.ID, &raw, &snap.SyncedAt); err != nil {
		return Snapshot{}, err
	}
	snap.Kind = Kind(kind)
	snap.Payload = raw
	return snap, nil
}
