// Package aggregate deduplicates detector matches and combines them
// into bounded per-category scores and an overall document score.
package aggregate

import (
	"sort"

	"github.com/nuxa17/verbum/internal/model"
)

// Aggregator folds raw matches into category scores. It is stateless
// and safe for concurrent use.
type Aggregator struct {
	cfg *model.AnalysisConfig
}

// New creates an Aggregator with the given tuning parameters.
func New(cfg *model.AnalysisConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Result is the aggregation output: one score per category in
// canonical order, the weighted overall score and the retained
// (post-deduplication) matches ordered by category then offset.
type Result struct {
	Scores   []model.CategoryScore
	Overall  float64
	Retained []model.Match
}

// Aggregate groups matches by category, deduplicates overlapping
// evidence, applies noisy-OR scoring with the short-document penalty
// and computes the weighted overall score. Categories listed in
// unavailable carry no score and are excluded from the overall
// average rather than counted as zero.
func (a *Aggregator) Aggregate(sentenceCount int, matches []model.Match, unavailable map[model.Category]bool) Result {
	byCategory := make(map[model.Category][]model.Match)
	for _, m := range matches {
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}

	penalty := a.shortDocPenalty(sentenceCount)

	var res Result
	var weightSum, weighted float64

	for _, cat := range model.Categories() {
		if unavailable[cat] {
			res.Scores = append(res.Scores, model.CategoryScore{
				Category:    cat,
				Unavailable: true,
			})
			continue
		}

		retained := a.dedupe(byCategory[cat])
		score := noisyOR(retained, penalty)

		cs := model.CategoryScore{
			Category: cat,
			Score:    score,
			Matches:  len(retained),
		}
		if rep := representative(retained); rep != nil {
			repCopy := *rep
			cs.Representative = &repCopy
		}
		res.Scores = append(res.Scores, cs)
		res.Retained = append(res.Retained, retained...)

		w := a.cfg.Weight(cat)
		weightSum += w
		weighted += w * score
	}

	if weightSum > 0 {
		res.Overall = weighted / weightSum
	}
	return res
}

// dedupe sorts a category's matches by offset and collapses clusters
// whose pairwise overlap fraction reaches the configured threshold,
// keeping the strongest match of each cluster. Ties break toward the
// earlier offset, then the lexicographically smaller detector id.
func (a *Aggregator) dedupe(matches []model.Match) []model.Match {
	if len(matches) == 0 {
		return nil
	}

	sorted := append([]model.Match(nil), matches...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		if sorted[i].Span.End != sorted[j].Span.End {
			return sorted[i].Span.End < sorted[j].Span.End
		}
		return sorted[i].Detector < sorted[j].Detector
	})

	var retained []model.Match
	cluster := []model.Match{sorted[0]}
	clusterSpan := sorted[0].Span

	flush := func() {
		retained = append(retained, best(cluster))
	}

	for _, m := range sorted[1:] {
		if a.overlaps(clusterSpan, m.Span) {
			cluster = append(cluster, m)
			if m.Span.End > clusterSpan.End {
				clusterSpan.End = m.Span.End
			}
			continue
		}
		flush()
		cluster = []model.Match{m}
		clusterSpan = m.Span
	}
	flush()

	sort.Slice(retained, func(i, j int) bool {
		return retained[i].Span.Start < retained[j].Span.Start
	})
	return retained
}

// overlaps applies the configured merge threshold: with threshold 0
// any overlap merges; otherwise the overlap must cover at least the
// threshold fraction of the smaller span.
func (a *Aggregator) overlaps(s1, s2 model.Span) bool {
	ov := s1.Overlap(s2)
	if ov == 0 {
		return false
	}
	if a.cfg.OverlapThreshold <= 0 {
		return true
	}
	smaller := s1.Len()
	if s2.Len() < smaller {
		smaller = s2.Len()
	}
	if smaller == 0 {
		return false
	}
	return float64(ov)/float64(smaller) >= a.cfg.OverlapThreshold
}

// best picks the surviving match of an overlap cluster.
func best(cluster []model.Match) model.Match {
	winner := cluster[0]
	for _, m := range cluster[1:] {
		switch {
		case m.Confidence > winner.Confidence:
			winner = m
		case m.Confidence == winner.Confidence && m.Span.Start < winner.Span.Start:
			winner = m
		case m.Confidence == winner.Confidence && m.Span.Start == winner.Span.Start &&
			m.Detector < winner.Detector:
			winner = m
		}
	}
	return winner
}

// representative returns the strongest retained match, with the same
// tie-break order as deduplication.
func representative(retained []model.Match) *model.Match {
	if len(retained) == 0 {
		return nil
	}
	winner := &retained[0]
	for i := 1; i < len(retained); i++ {
		m := &retained[i]
		switch {
		case m.Confidence > winner.Confidence:
			winner = m
		case m.Confidence == winner.Confidence && m.Span.Start < winner.Span.Start:
			winner = m
		case m.Confidence == winner.Confidence && m.Span.Start == winner.Span.Start &&
			m.Detector < winner.Detector:
			winner = m
		}
	}
	return winner
}

// noisyOR combines retained confidences: 1 - prod(1 - c_i/penalty).
// The result saturates toward 1 and grows monotonically with each
// added piece of evidence.
func noisyOR(retained []model.Match, penalty float64) float64 {
	if len(retained) == 0 {
		return 0
	}
	prod := 1.0
	for _, m := range retained {
		c := m.Confidence / penalty
		if c < 0 {
			c = 0
		}
		if c > 1 {
			c = 1
		}
		prod *= 1 - c
	}
	score := 1 - prod
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// shortDocPenalty returns the divisor applied to each confidence for
// documents below the minimum sentence count. One sentence with one
// strong cue should not saturate a category.
func (a *Aggregator) shortDocPenalty(sentenceCount int) float64 {
	min := a.cfg.MinSentences
	if min <= 0 || sentenceCount >= min {
		return 1
	}
	frac := float64(sentenceCount) / float64(min)
	return 1 + a.cfg.PenaltyStrength*(1-frac)
}
