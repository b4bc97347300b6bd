package escrow

// Identity names a party on the host platform: the creator, a backer, or a
// token asset. The engine never interprets it beyond equality.
type Identity string

// MilestoneSpec is the initialization input for a single milestone.
type MilestoneSpec struct {
	Title  string `json:"title"`
	Amount int64  `json:"amount"`
}

// Milestone is a fixed slice of the goal, released independently once a
// majority of funded weight has voted for it. Amounts are immutable after
// initialization; IsComplete only ever goes false -> true.
type Milestone struct {
	Title           string            `json:"title"`
	AmountToRelease int64             `json:"amount_to_release"`
	IsComplete      bool              `json:"is_complete"`
	Votes           map[Identity]bool `json:"votes"`
}

// Project is the whole escrow state. There is exactly one per engine
// instance; every operation loads it, validates, mutates, and saves it back.
type Project struct {
	Creator    Identity           `json:"creator"`
	Token      Identity           `json:"token"`
	Goal       int64              `json:"goal"`
	Raised     int64              `json:"raised"`
	Deadline   uint64             `json:"deadline"`
	Milestones []Milestone        `json:"milestones"`
	Backers    map[Identity]int64 `json:"backers"`
	GoalMet    bool               `json:"goal_met"`
}

// Clone returns a deep copy. Query results hand out clones so callers cannot
// reach into live vote or backer maps.
func (p *Project) Clone() *Project {
	cp := *p
	cp.Backers = make(map[Identity]int64, len(p.Backers))
	for k, v := range p.Backers {
		cp.Backers[k] = v
	}
	cp.Milestones = make([]Milestone, len(p.Milestones))
	for i, m := range p.Milestones {
		mc := m
		mc.Votes = make(map[Identity]bool, len(m.Votes))
		for k, v := range m.Votes {
			mc.Votes[k] = v
		}
		cp.Milestones[i] = mc
	}
	return &cp
}
