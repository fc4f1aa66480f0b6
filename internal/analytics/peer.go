package analytics

import (
	"errors"
	"fmt"
	"time"

	"portfolio-stress-lab/internal/domain"
)

var (
	// ErrInsufficientPeers is returned when the peer partition is empty:
	// with fewer than two portfolios in view there is nothing to compare
	// against, and degenerate statistics would mislead.
	ErrInsufficientPeers = errors.New("insufficient peers for comparison")

	// ErrNoSubjectData is returned when the subject portfolio has no
	// value for the requested date and scenario.
	ErrNoSubjectData = errors.New("no data for subject portfolio")
)

// PeerCompare compares one portfolio against all others for a scenario
// on a fixed date. Records are partitioned into {subject} and {peers};
// the median and the lo/hi quantiles are computed over the peer
// partition only. Duplicate records per portfolio on the date are
// aggregated by mean before comparison.
func PeerCompare(records []domain.StressRecord, subject string, date time.Time, scenario string, loQ, hiQ float64) (domain.PeerComparison, error) {
	// Mean value per portfolio at (date, scenario)
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.ScenarioName != scenario || !rec.Date.Equal(date) {
			continue
		}
		sums[rec.Portfolio] += rec.StressPnL
		counts[rec.Portfolio]++
	}

	subjectCount, ok := counts[subject]
	if !ok || subjectCount == 0 {
		return domain.PeerComparison{}, fmt.Errorf("%w: %s on %s under %s",
			ErrNoSubjectData, subject, date.Format("2006-01-02"), scenario)
	}

	peers := make([]float64, 0, len(sums)-1)
	for portfolio, sum := range sums {
		if portfolio == subject {
			continue
		}
		peers = append(peers, sum/float64(counts[portfolio]))
	}
	if len(peers) == 0 {
		return domain.PeerComparison{}, fmt.Errorf("%w: %s under %s",
			ErrInsufficientPeers, date.Format("2006-01-02"), scenario)
	}

	return domain.PeerComparison{
		Portfolio:    subject,
		Scenario:     scenario,
		SubjectValue: sums[subject] / float64(subjectCount),
		PeerMedian:   Median(peers),
		PeerLo:       Quantile(peers, loQ),
		PeerHi:       Quantile(peers, hiQ),
		PeerCount:    len(peers),
	}, nil
}
