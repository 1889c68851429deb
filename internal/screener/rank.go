package screener

import (
	"sort"

	"github.com/Tonxzz/Main-Screener/internal/contracts"
)

// Rank orders results by tier priority (tiered strategies only), then by
// score descending; ties keep their input order. It returns a new slice
// with Rank 1..N and, for tiered tables, RankReady 1.. on READY rows.
// Ranking an already ranked slice gives the same slice.
func Rank(results []contracts.ScreenerResult, tiered bool) []contracts.ScreenerResult {
	ranked := make([]contracts.ScreenerResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		if tiered {
			pi, pj := ranked[i].Tier.Priority(), ranked[j].Tier.Priority()
			if pi != pj {
				return pi < pj
			}
		}
		return ranked[i].Score > ranked[j].Score
	})

	ready := 0
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].RankReady = 0
		if tiered && ranked[i].Tier == contracts.TierReady {
			ready++
			ranked[i].RankReady = ready
		}
	}
	return ranked
}

// Summarize counts a set of outcomes
func Summarize(outcomes []contracts.Outcome) contracts.Summary {
	s := contracts.Summary{
		Evaluated: len(outcomes),
		ByTier:    map[string]int{},
		ByReject:  map[string]int{},
	}
	for _, out := range outcomes {
		switch {
		case out.Emitted():
			s.Emitted++
			s.ByTier[out.Result.Tier.String()]++
		case out.Rejection != nil:
			s.Rejected++
			s.ByReject[string(out.Rejection.Reason)]++
		}
	}
	return s
}
