// Package recommend ranks catalog styles against a user's favorites by
// period overlap and shared characteristics.
//
// The ranker is pure: every call recomputes from the caller-supplied
// favorites and candidate pool, holds no state between calls and performs no
// I/O, so a single Ranker may be shared across goroutines.
package recommend

import (
	"cmp"
	"math"
	"slices"

	"github.com/okian/architex/internal/domain/period"
)

// Default scoring configuration constants.
const (
	DefaultLimit                = 3
	defaultPeriodWeight         = 3.0
	defaultCharacteristicWeight = 0.5
	defaultProximityDecay       = 0.2
)

// Item is the view of a catalog entry the ranker needs. Any other payload
// carried by the implementation passes through untouched.
type Item interface {
	ItemID() string
	ItemPeriod() string
	ItemCharacteristics() []string
}

// ScoredItem pairs an item with its aggregate score for one ranking call.
type ScoredItem[T Item] struct {
	Item  T
	Score float64
}

// Result is the outcome of a ranking call.
type Result[T Item] struct {
	// Items holds at most limit entries, best first.
	Items []ScoredItem[T]
	// Candidates is the number of pool items left after exclusion.
	Candidates int
	// UnknownPeriods counts favorites and candidates whose period did not parse.
	UnknownPeriods int
}

// Ranker scores candidates against favorites.
type Ranker[T Item] struct {
	parser               *period.Parser
	periodWeight         float64
	characteristicWeight float64
	proximityDecay       float64
}

// New creates a ranker with the default weights, overridden by opts.
func New[T Item](opts ...Option) *Ranker[T] {
	s := settings{
		periodWeight:         defaultPeriodWeight,
		characteristicWeight: defaultCharacteristicWeight,
		proximityDecay:       defaultProximityDecay,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.parser == nil {
		s.parser = period.NewParser()
	}
	return &Ranker[T]{
		parser:               s.parser,
		periodWeight:         s.periodWeight,
		characteristicWeight: s.characteristicWeight,
		proximityDecay:       s.proximityDecay,
	}
}

// Overlap returns how closely two intervals coincide, in [0, 1].
//
// Overlapping intervals score their shared length over the mean of both
// lengths; disjoint intervals get a bonus that decays with the gap between
// them. Either interval being unknown scores 0.
func (r *Ranker[T]) Overlap(a, b period.Interval) float64 {
	return overlap(a, b, r.proximityDecay)
}

// Overlap computes the overlap score with the default proximity decay.
func Overlap(a, b period.Interval) float64 {
	return overlap(a, b, defaultProximityDecay)
}

func overlap(a, b period.Interval, decay float64) float64 {
	if !a.Known() || !b.Known() {
		return 0
	}

	// float64 throughout: ordinals are unbounded and int sums can overflow.
	aStart, aEnd := float64(a.Start), float64(a.End)
	bStart, bEnd := float64(b.Start), float64(b.End)

	if a.Start <= b.End && a.End >= b.Start {
		shared := math.Min(aEnd, bEnd) - math.Max(aStart, bStart) + 1
		mean := ((aEnd - aStart + 1) + (bEnd - bStart + 1)) / 2
		if mean <= 0 {
			return 0
		}
		return clamp01(shared / mean)
	}

	gap := math.Min(math.Abs(aEnd-bStart), math.Abs(bEnd-aStart))
	return clamp01(1 - gap*decay)
}

// Rank scores every non-excluded candidate and returns the best limit of
// them. Favorites are always excluded. Ties keep pool order.
func (r *Ranker[T]) Rank(favorites, pool []T, limit int, excludeIDs []string) Result[T] {
	res := Result[T]{Items: []ScoredItem[T]{}}

	excluded := make(map[string]struct{}, len(favorites)+len(excludeIDs))
	for _, f := range favorites {
		excluded[f.ItemID()] = struct{}{}
	}
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	candidates := make([]T, 0, len(pool))
	for _, it := range pool {
		if _, skip := excluded[it.ItemID()]; skip {
			continue
		}
		candidates = append(candidates, it)
	}
	res.Candidates = len(candidates)

	if len(favorites) == 0 || len(candidates) == 0 || limit <= 0 {
		return res
	}

	favs := make([]profile, len(favorites))
	for i, f := range favorites {
		favs[i] = r.profileOf(f)
		if !favs[i].period.Known() {
			res.UnknownPeriods++
		}
	}

	scored := make([]ScoredItem[T], len(candidates))
	for i, c := range candidates {
		p := r.profileOf(c)
		if !p.period.Known() {
			res.UnknownPeriods++
		}
		scored[i] = ScoredItem[T]{Item: c, Score: r.aggregate(p, favs)}
	}

	slices.SortStableFunc(scored, func(a, b ScoredItem[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if limit < len(scored) {
		scored = scored[:limit]
	}
	res.Items = scored
	return res
}

// TimeBased returns up to limit recommended items, best first.
func (r *Ranker[T]) TimeBased(favorites, pool []T, limit int, excludeIDs []string) []T {
	res := r.Rank(favorites, pool, limit, excludeIDs)
	out := make([]T, len(res.Items))
	for i, s := range res.Items {
		out[i] = s.Item
	}
	return out
}

// Replacement returns the single best item not already in currentIDs. The
// boolean is false when nothing is left to recommend.
func (r *Ranker[T]) Replacement(favorites, pool []T, currentIDs []string) (T, bool) {
	items := r.TimeBased(favorites, pool, 1, currentIDs)
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[0], true
}

// Score returns a candidate's mean score across favorites, 0 when there are
// no favorites.
func (r *Ranker[T]) Score(candidate T, favorites []T) float64 {
	favs := make([]profile, len(favorites))
	for i, f := range favorites {
		favs[i] = r.profileOf(f)
	}
	return r.aggregate(r.profileOf(candidate), favs)
}

// profile is an item's parsed period and distinct characteristic set,
// built once per ranking call.
type profile struct {
	period period.Interval
	traits map[string]struct{}
}

func (r *Ranker[T]) profileOf(it T) profile {
	chars := it.ItemCharacteristics()
	traits := make(map[string]struct{}, len(chars))
	for _, c := range chars {
		traits[c] = struct{}{}
	}
	return profile{period: r.parser.Parse(it.ItemPeriod()), traits: traits}
}

func (r *Ranker[T]) aggregate(candidate profile, favorites []profile) float64 {
	if len(favorites) == 0 {
		return 0
	}
	var total float64
	for _, f := range favorites {
		total += r.pairScore(candidate, f)
	}
	return total / float64(len(favorites))
}

// pairScore weights period similarity against the number of distinct
// characteristics both items share (exact, case-sensitive).
func (r *Ranker[T]) pairScore(candidate, favorite profile) float64 {
	small, large := candidate.traits, favorite.traits
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for c := range small {
		if _, ok := large[c]; ok {
			shared++
		}
	}
	return r.Overlap(candidate.period, favorite.period)*r.periodWeight +
		float64(shared)*r.characteristicWeight
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
