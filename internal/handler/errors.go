package handler

import (
	"errors"
	"net/http"

	"escrowfund/internal/auth"
	"escrowfund/internal/escrow"
	"escrowfund/internal/ledger"
	"escrowfund/internal/service/account"
)

type errorMapping struct {
	status int
	code   string
}

// Engine and capability errors mapped to stable machine-readable codes.
var errorMappings = []struct {
	err     error
	mapping errorMapping
}{
	{escrow.ErrProjectAlreadyInitialized, errorMapping{http.StatusConflict, "PROJECT_ALREADY_INITIALIZED"}},
	{escrow.ErrDeadlineMustBeInFuture, errorMapping{http.StatusBadRequest, "DEADLINE_MUST_BE_IN_FUTURE"}},
	{escrow.ErrGoalMustBePositive, errorMapping{http.StatusBadRequest, "GOAL_MUST_BE_POSITIVE"}},
	{escrow.ErrMilestoneListEmpty, errorMapping{http.StatusBadRequest, "MILESTONE_LIST_EMPTY"}},
	{escrow.ErrMilestoneAmountMustBePositive, errorMapping{http.StatusBadRequest, "MILESTONE_AMOUNT_MUST_BE_POSITIVE"}},
	{escrow.ErrMilestoneAmountsMismatchGoal, errorMapping{http.StatusBadRequest, "MILESTONE_AMOUNTS_MISMATCH_GOAL"}},
	{escrow.ErrProjectNotInitialized, errorMapping{http.StatusNotFound, "PROJECT_NOT_INITIALIZED"}},
	{escrow.ErrDeadlinePassed, errorMapping{http.StatusConflict, "DEADLINE_PASSED"}},
	{escrow.ErrFundingAmountTooLow, errorMapping{http.StatusBadRequest, "FUNDING_AMOUNT_TOO_LOW"}},
	{escrow.ErrGoalNotMet, errorMapping{http.StatusConflict, "GOAL_NOT_MET"}},
	{escrow.ErrGoalAlreadyMet, errorMapping{http.StatusConflict, "GOAL_ALREADY_MET"}},
	{escrow.ErrMilestoneInvalidIndex, errorMapping{http.StatusNotFound, "MILESTONE_INVALID_INDEX"}},
	{escrow.ErrMilestoneAlreadyCompleted, errorMapping{http.StatusConflict, "MILESTONE_ALREADY_COMPLETED"}},
	{escrow.ErrMilestoneNotYetApproved, errorMapping{http.StatusConflict, "MILESTONE_NOT_YET_APPROVED"}},
	{escrow.ErrNotABacker, errorMapping{http.StatusForbidden, "NOT_A_BACKER"}},
	{escrow.ErrAlreadyVoted, errorMapping{http.StatusConflict, "ALREADY_VOTED"}},
	{escrow.ErrRefundsNotAvailable, errorMapping{http.StatusConflict, "REFUNDS_NOT_AVAILABLE"}},
	{escrow.ErrNoRefundsToClaim, errorMapping{http.StatusNotFound, "NO_REFUNDS_TO_CLAIM"}},
	{auth.ErrUnauthorized, errorMapping{http.StatusForbidden, "NOT_AUTHORIZED"}},
	{ledger.ErrInsufficientBalance, errorMapping{http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE"}},
	{ledger.ErrNonPositiveAmount, errorMapping{http.StatusBadRequest, "AMOUNT_MUST_BE_POSITIVE"}},
	{account.ErrIdentityTaken, errorMapping{http.StatusConflict, "IDENTITY_TAKEN"}},
	{account.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, "INVALID_CREDENTIALS"}},
}

// mapError translates a service error into an HTTP status and error code.
func mapError(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.mapping.status, m.mapping.code
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
