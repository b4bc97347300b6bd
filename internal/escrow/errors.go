package escrow

import "errors"

// Escrow state machine errors. Every failure an operation can report is one
// of these sentinels, so callers can match with errors.Is and translate to
// their own surface.
var (
	ErrProjectAlreadyInitialized     = errors.New("project already initialized")
	ErrDeadlineMustBeInFuture        = errors.New("deadline must be in the future")
	ErrGoalMustBePositive            = errors.New("goal must be positive")
	ErrMilestoneListEmpty            = errors.New("milestone list is empty")
	ErrMilestoneAmountMustBePositive = errors.New("milestone amount must be positive")
	ErrMilestoneAmountsMismatchGoal  = errors.New("milestone amounts do not sum to goal")
	ErrProjectNotInitialized         = errors.New("project not initialized")
	ErrDeadlinePassed                = errors.New("funding deadline has passed")
	ErrFundingAmountTooLow           = errors.New("funding amount too low")
	ErrGoalNotMet                    = errors.New("funding goal not met")
	ErrGoalAlreadyMet                = errors.New("funding goal already met")
	ErrMilestoneInvalidIndex         = errors.New("invalid milestone index")
	ErrMilestoneAlreadyCompleted     = errors.New("milestone already completed")
	ErrMilestoneNotYetApproved       = errors.New("milestone not yet approved")
	ErrNotABacker                    = errors.New("not a backer")
	ErrAlreadyVoted                  = errors.New("already voted on this milestone")
	ErrRefundsNotAvailable           = errors.New("refunds not available")
	ErrNoRefundsToClaim              = errors.New("no refunds to claim")
)
