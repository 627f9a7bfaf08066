package recommend

import "github.com/okian/architex/internal/domain/period"

// settings collects option values before a Ranker is built.
type settings struct {
	parser               *period.Parser
	periodWeight         float64
	characteristicWeight float64
	proximityDecay       float64
}

// Option applies a configuration option to a Ranker.
type Option func(*settings)

// WithPeriodWeight sets the multiplier applied to the period overlap score.
// Zero ranks on characteristics alone; negative values are ignored.
func WithPeriodWeight(weight float64) Option {
	return func(s *settings) {
		if weight >= 0 {
			s.periodWeight = weight
		}
	}
}

// WithCharacteristicWeight sets the score added per shared characteristic.
// Zero ranks on period alone; negative values are ignored.
func WithCharacteristicWeight(weight float64) Option {
	return func(s *settings) {
		if weight >= 0 {
			s.characteristicWeight = weight
		}
	}
}

// WithProximityDecay sets how much the near-miss bonus drops per century of
// gap between disjoint periods. Zero gives every disjoint pair the full
// bonus; negative values are ignored.
func WithProximityDecay(decay float64) Option {
	return func(s *settings) {
		if decay >= 0 {
			s.proximityDecay = decay
		}
	}
}

// WithParser replaces the default period parser.
func WithParser(p *period.Parser) Option {
	return func(s *settings) {
		if p != nil {
			s.parser = p
		}
	}
}
