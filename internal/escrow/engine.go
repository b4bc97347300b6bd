package escrow

import (
	"context"

	mqcontracts "escrowfund/contracts/mq"
)

// Store persists the single project record. Load returns
// ErrProjectNotInitialized when no record exists yet.
type Store interface {
	Exists(ctx context.Context) (bool, error)
	Load(ctx context.Context) (*Project, error)
	Save(ctx context.Context, p *Project) error
	ExtendRetention(ctx context.Context, extendBy uint64) error
}

// Authorizer checks that the caller proved control of an identity. Its error
// is propagated to the caller unchanged.
type Authorizer interface {
	RequireAuthorized(ctx context.Context, id Identity) error
}

// TimeSource provides the host time index (e.g. ledger height). It must be
// monotonically non-decreasing across calls.
type TimeSource interface {
	CurrentIndex(ctx context.Context) (uint64, error)
}

// Transferer moves amount of token from one party to another. A returned
// error aborts the triggering operation with no state change.
type Transferer interface {
	Transfer(ctx context.Context, token, from, to Identity, amount int64) error
}

// EventSink receives domain events. Fire-and-forget: the engine does not
// consume any result beyond the error, and publish happens only after the
// state change is saved.
type EventSink interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// retentionExtension is how far past each write the project record asks the
// store to retain it, in time-index units.
const retentionExtension = 100

// Engine is the milestone escrow state machine. It owns no I/O of its own;
// storage, authorization, time, transfers, and events are capabilities
// injected at construction. Operations run one at a time to completion: each
// loads the project, validates in a fixed order, mutates, and saves, so the
// first failing check decides the error and no partial write is observable.
type Engine struct {
	store  Store
	auth   Authorizer
	clock  TimeSource
	tokens Transferer
	events EventSink

	// escrowAccount is the identity holding contributed funds, the "to" of
	// every contribution and the "from" of every release and refund.
	escrowAccount Identity
}

func NewEngine(store Store, auth Authorizer, clock TimeSource, tokens Transferer, events EventSink, escrowAccount Identity) *Engine {
	return &Engine{
		store:         store,
		auth:          auth,
		clock:         clock,
		tokens:        tokens,
		events:        events,
		escrowAccount: escrowAccount,
	}
}

// Initialize creates the project record. It can succeed at most once per
// engine instance; every later call fails with ErrProjectAlreadyInitialized.
func (e *Engine) Initialize(ctx context.Context, creator, token Identity, goal int64, deadline uint64, specs []MilestoneSpec) error {
	exists, err := e.store.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return ErrProjectAlreadyInitialized
	}

	now, err := e.clock.CurrentIndex(ctx)
	if err != nil {
		return err
	}
	if deadline <= now {
		return ErrDeadlineMustBeInFuture
	}
	if goal <= 0 {
		return ErrGoalMustBePositive
	}
	if len(specs) == 0 {
		return ErrMilestoneListEmpty
	}

	var total int64
	milestones := make([]Milestone, 0, len(specs))
	for _, spec := range specs {
		if spec.Amount <= 0 {
			return ErrMilestoneAmountMustBePositive
		}
		total += spec.Amount
		milestones = append(milestones, Milestone{
			Title:           spec.Title,
			AmountToRelease: spec.Amount,
			Votes:           make(map[Identity]bool),
		})
	}
	if total != goal {
		return ErrMilestoneAmountsMismatchGoal
	}

	project := &Project{
		Creator:    creator,
		Token:      token,
		Goal:       goal,
		Deadline:   deadline,
		Milestones: milestones,
		Backers:    make(map[Identity]int64),
	}
	if err := e.store.Save(ctx, project); err != nil {
		return err
	}
	return e.store.ExtendRetention(ctx, retentionExtension)
}

// Fund contributes amount of the project token from backer. The transfer
// into escrow runs before any accounting, so a failed transfer leaves the
// project untouched. Overfunding past the goal is allowed; the contribution
// that makes raised reach the goal flips GoalMet.
func (e *Engine) Fund(ctx context.Context, backer Identity, amount int64) error {
	if err := e.auth.RequireAuthorized(ctx, backer); err != nil {
		return err
	}
	project, err := e.store.Load(ctx)
	if err != nil {
		return err
	}

	if project.GoalMet {
		return ErrGoalAlreadyMet
	}
	now, err := e.clock.CurrentIndex(ctx)
	if err != nil {
		return err
	}
	if now > project.Deadline {
		return ErrDeadlinePassed
	}
	if amount <= 0 {
		return ErrFundingAmountTooLow
	}

	if err := e.tokens.Transfer(ctx, project.Token, backer, e.escrowAccount, amount); err != nil {
		return err
	}

	project.Raised += amount
	project.Backers[backer] += amount
	if project.Raised >= project.Goal {
		project.GoalMet = true
	}
	if err := e.store.Save(ctx, project); err != nil {
		return err
	}

	return e.events.Publish(ctx, mqcontracts.TopicFunded, mqcontracts.FundedPayload{
		Backer:      string(backer),
		Amount:      amount,
		Raised:      project.Raised,
		GoalMet:     project.GoalMet,
		LedgerIndex: now,
	})
}

// Vote records backer's approval of a milestone. Voting opens once the goal
// is met and each backer gets exactly one vote per milestone; there is no
// way to retract or change it.
func (e *Engine) Vote(ctx context.Context, backer Identity, milestoneIndex int) error {
	if err := e.auth.RequireAuthorized(ctx, backer); err != nil {
		return err
	}
	project, err := e.store.Load(ctx)
	if err != nil {
		return err
	}

	if !project.GoalMet {
		return ErrGoalNotMet
	}
	if _, ok := project.Backers[backer]; !ok {
		return ErrNotABacker
	}
	if milestoneIndex < 0 || milestoneIndex >= len(project.Milestones) {
		return ErrMilestoneInvalidIndex
	}
	milestone := &project.Milestones[milestoneIndex]
	if milestone.IsComplete {
		return ErrMilestoneAlreadyCompleted
	}
	if _, ok := milestone.Votes[backer]; ok {
		return ErrAlreadyVoted
	}

	milestone.Votes[backer] = true
	return e.store.Save(ctx, project)
}

// ReleaseMilestone pays a milestone's allocation to the creator once backers
// holding a strict majority of raised funds have voted for it. Anyone may
// call it; approval is purely the vote tally. The payout transfer runs
// first and the milestone is marked complete only after it succeeds, so a
// failed transfer leaves the milestone releasable.
func (e *Engine) ReleaseMilestone(ctx context.Context, milestoneIndex int) error {
	project, err := e.store.Load(ctx)
	if err != nil {
		return err
	}

	if !project.GoalMet {
		return ErrGoalNotMet
	}
	if milestoneIndex < 0 || milestoneIndex >= len(project.Milestones) {
		return ErrMilestoneInvalidIndex
	}
	milestone := &project.Milestones[milestoneIndex]
	if milestone.IsComplete {
		return ErrMilestoneAlreadyCompleted
	}

	var weight int64
	for backer, yes := range milestone.Votes {
		if yes {
			weight += project.Backers[backer]
		}
	}
	if weight*2 <= project.Raised {
		return ErrMilestoneNotYetApproved
	}

	if err := e.tokens.Transfer(ctx, project.Token, e.escrowAccount, project.Creator, milestone.AmountToRelease); err != nil {
		return err
	}

	milestone.IsComplete = true
	if err := e.store.Save(ctx, project); err != nil {
		return err
	}

	return e.events.Publish(ctx, mqcontracts.TopicReleased, mqcontracts.ReleasedPayload{
		Creator:        string(project.Creator),
		MilestoneIndex: milestoneIndex,
		Amount:         milestone.AmountToRelease,
	})
}

// ClaimRefund returns a backer's full contribution after the deadline has
// passed with the goal unmet. The recorded contribution is zeroed in the
// same operation as the transfer, so a second claim fails with
// ErrNoRefundsToClaim.
func (e *Engine) ClaimRefund(ctx context.Context, backer Identity) error {
	if err := e.auth.RequireAuthorized(ctx, backer); err != nil {
		return err
	}
	project, err := e.store.Load(ctx)
	if err != nil {
		return err
	}

	now, err := e.clock.CurrentIndex(ctx)
	if err != nil {
		return err
	}
	if now <= project.Deadline || project.GoalMet {
		return ErrRefundsNotAvailable
	}
	amount := project.Backers[backer]
	if amount == 0 {
		return ErrNoRefundsToClaim
	}

	if err := e.tokens.Transfer(ctx, project.Token, e.escrowAccount, backer, amount); err != nil {
		return err
	}

	project.Backers[backer] = 0
	if err := e.store.Save(ctx, project); err != nil {
		return err
	}

	return e.events.Publish(ctx, mqcontracts.TopicRefunded, mqcontracts.RefundedPayload{
		Backer: string(backer),
		Amount: amount,
	})
}

// GetProject returns a snapshot of the project state.
func (e *Engine) GetProject(ctx context.Context) (*Project, error) {
	project, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return project.Clone(), nil
}

// GetBackerInfo returns the amount backer has contributed, 0 if they never
// contributed or were fully refunded.
func (e *Engine) GetBackerInfo(ctx context.Context, backer Identity) (int64, error) {
	project, err := e.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return project.Backers[backer], nil
}
