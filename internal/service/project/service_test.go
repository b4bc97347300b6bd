package project

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"escrowfund/internal/escrow"
)

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.data
	return nil
}

// fakeDB serves the single project row and counts transaction starts.
type fakeDB struct {
	project []byte
	begins  int
}

func (d *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected exec")
}

func (d *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (d *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if d.project == nil {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: d.project}
}

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	d.begins++
	return nil, errors.New("fake db has no transactions")
}

type allowAll struct{}

func (allowAll) RequireAuthorized(context.Context, escrow.Identity) error { return nil }

type fixedClock struct{}

func (fixedClock) CurrentIndex(context.Context) (uint64, error) { return 10, nil }

func newReadService(db *fakeDB) *Service {
	return NewService(db, allowAll{}, fixedClock{}, nil, "escrow-vault", zap.NewNop())
}

func TestQueriesRunWithoutTransaction(t *testing.T) {
	data, err := json.Marshal(&escrow.Project{
		Creator:  "creator",
		Token:    "usdc",
		Goal:     300,
		Raised:   100,
		Deadline: 100,
		Backers:  map[escrow.Identity]int64{"alice": 100},
	})
	if err != nil {
		t.Fatalf("marshal project: %v", err)
	}
	db := &fakeDB{project: data}
	svc := newReadService(db)

	p, err := svc.GetProject(context.Background())
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if p.Creator != "creator" || p.Raised != 100 {
		t.Fatalf("unexpected project %+v", p)
	}

	amount, err := svc.GetBackerInfo(context.Background(), "alice")
	if err != nil || amount != 100 {
		t.Fatalf("expected alice at 100, got %d (%v)", amount, err)
	}
	amount, err = svc.GetBackerInfo(context.Background(), "nobody")
	if err != nil || amount != 0 {
		t.Fatalf("expected 0 for unknown backer, got %d (%v)", amount, err)
	}

	if db.begins != 0 {
		t.Fatalf("read paths must not open a transaction, opened %d", db.begins)
	}
}

func TestQueriesOnUninitializedProject(t *testing.T) {
	db := &fakeDB{}
	svc := newReadService(db)

	if _, err := svc.GetProject(context.Background()); !errors.Is(err, escrow.ErrProjectNotInitialized) {
		t.Fatalf("expected ErrProjectNotInitialized, got %v", err)
	}
	if _, err := svc.GetBackerInfo(context.Background(), "alice"); !errors.Is(err, escrow.ErrProjectNotInitialized) {
		t.Fatalf("expected ErrProjectNotInitialized, got %v", err)
	}
	if db.begins != 0 {
		t.Fatalf("a missing project must not open a transaction, opened %d", db.begins)
	}
}
