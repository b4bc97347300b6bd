package project

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"escrowfund/internal/escrow"
	"escrowfund/internal/ledger"
	"escrowfund/internal/repository"
	"escrowfund/pkg/metrics"
	"escrowfund/pkg/outbox"
)

// DB is the slice of pgxpool.Pool the service needs: direct queries for the
// read paths and Begin for the write paths.
type DB interface {
	repository.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Service runs engine operations as units of work: each call opens one pg
// transaction, binds the project store, the token ledger, and the event
// outbox to it, and commits only if the operation succeeded. A transfer, its
// state change, and its event therefore land atomically, which is what lets
// the engine treat capability failure as abort-with-no-state-change.
type Service struct {
	db            DB
	auth          escrow.Authorizer
	clock         escrow.TimeSource
	outbox        *outbox.Repository
	escrowAccount escrow.Identity
	logger        *zap.Logger
}

func NewService(
	db DB,
	auth escrow.Authorizer,
	clock escrow.TimeSource,
	outboxRepo *outbox.Repository,
	escrowAccount escrow.Identity,
	logger *zap.Logger,
) *Service {
	return &Service{
		db:            db,
		auth:          auth,
		clock:         clock,
		outbox:        outboxRepo,
		escrowAccount: escrowAccount,
		logger:        logger,
	}
}

// txEventSink queues engine events on the outbox inside the operation's
// transaction; the dispatcher publishes them after commit.
type txEventSink struct {
	outbox *outbox.Repository
	tx     pgx.Tx
}

func (s *txEventSink) Publish(ctx context.Context, topic string, payload any) error {
	return s.outbox.InsertEvent(ctx, s.tx, topic, payload)
}

// nopSink backs the read-only engine; queries never publish.
type nopSink struct{}

func (nopSink) Publish(context.Context, string, any) error { return nil }

// readEngine binds the engine straight to the pool. Queries take no
// transaction and are not counted in the operation metrics: a missing
// project on a lookup is a routine 404, not a failed operation.
func (s *Service) readEngine() *escrow.Engine {
	return escrow.NewEngine(
		repository.NewProjectRepository(s.db),
		s.auth,
		s.clock,
		ledger.New(s.db),
		nopSink{},
		s.escrowAccount,
	)
}

func (s *Service) withEngine(ctx context.Context, op string, fn func(*escrow.Engine) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	engine := escrow.NewEngine(
		repository.NewProjectRepository(tx),
		s.auth,
		s.clock,
		ledger.New(tx),
		&txEventSink{outbox: s.outbox, tx: tx},
		s.escrowAccount,
	)

	if err := fn(engine); err != nil {
		metrics.RecordEscrowOperation(op, "error")
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.RecordEscrowOperation(op, "error")
		return err
	}
	metrics.RecordEscrowOperation(op, "ok")
	return nil
}

func (s *Service) Initialize(ctx context.Context, creator, token escrow.Identity, goal int64, deadline uint64, specs []escrow.MilestoneSpec) error {
	return s.withEngine(ctx, "initialize", func(e *escrow.Engine) error {
		return e.Initialize(ctx, creator, token, goal, deadline, specs)
	})
}

func (s *Service) Fund(ctx context.Context, backer escrow.Identity, amount int64) error {
	err := s.withEngine(ctx, "fund", func(e *escrow.Engine) error {
		return e.Fund(ctx, backer, amount)
	})
	if err == nil {
		metrics.RecordFundedAmount(amount)
	}
	return err
}

func (s *Service) Vote(ctx context.Context, backer escrow.Identity, milestoneIndex int) error {
	return s.withEngine(ctx, "vote", func(e *escrow.Engine) error {
		return e.Vote(ctx, backer, milestoneIndex)
	})
}

func (s *Service) ReleaseMilestone(ctx context.Context, milestoneIndex int) error {
	return s.withEngine(ctx, "release", func(e *escrow.Engine) error {
		return e.ReleaseMilestone(ctx, milestoneIndex)
	})
}

func (s *Service) ClaimRefund(ctx context.Context, backer escrow.Identity) error {
	return s.withEngine(ctx, "refund", func(e *escrow.Engine) error {
		return e.ClaimRefund(ctx, backer)
	})
}

func (s *Service) GetProject(ctx context.Context) (*escrow.Project, error) {
	return s.readEngine().GetProject(ctx)
}

func (s *Service) GetBackerInfo(ctx context.Context, backer escrow.Identity) (int64, error) {
	return s.readEngine().GetBackerInfo(ctx, backer)
}

// CreditBalance mints token onto an account. Admin-only faucet used to seed
// backer balances in environments without a real token bridge.
func (s *Service) CreditBalance(ctx context.Context, token, account escrow.Identity, amount int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := ledger.New(tx).Credit(ctx, token, account, amount); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Balance reads an account's token balance.
func (s *Service) Balance(ctx context.Context, token, account escrow.Identity) (int64, error) {
	return ledger.New(s.db).Balance(ctx, token, account)
}
