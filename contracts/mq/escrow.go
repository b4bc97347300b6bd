package mq

// Routing keys for escrow events on the topic exchange.
const (
	TopicFunded   = "escrow.funded"
	TopicReleased = "escrow.released"
	TopicRefunded = "escrow.refunded"
)

type FundedPayload struct {
	Backer      string `json:"backer"`
	Amount      int64  `json:"amount"`
	Raised      int64  `json:"raised"`
	GoalMet     bool   `json:"goal_met"`
	LedgerIndex uint64 `json:"ledger_index"`
}

type ReleasedPayload struct {
	Creator        string `json:"creator"`
	MilestoneIndex int    `json:"milestone_index"`
	Amount         int64  `json:"amount"`
}

type RefundedPayload struct {
	Backer string `json:"backer"`
	Amount int64  `json:"amount"`
}
