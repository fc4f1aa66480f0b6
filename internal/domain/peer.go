package domain

// PeerComparison is the result of comparing one portfolio against all
// other portfolios for a scenario on a fixed date. Ephemeral: recomputed
// on every filter change, never stored.
type PeerComparison struct {
	Portfolio    string
	Scenario     string
	SubjectValue float64 // the subject portfolio's own value
	PeerMedian   float64 // median over the peer partition only
	PeerLo       float64 // lower quantile over peers (0.25 or 0.15 per view)
	PeerHi       float64 // upper quantile over peers
	PeerCount    int     // number of peer portfolios contributing
}
