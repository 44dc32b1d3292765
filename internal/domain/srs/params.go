package srs

// Params defines all configurable parameters for the SRS algorithm.
type Params struct {
	// Ease factor clamp bounds.
	MinEaseFactor float64
	MaxEaseFactor float64

	// Fixed intervals for the first two successful repetitions, in days.
	FirstInterval  int
	SecondInterval int

	// Status promotion thresholds, in days of interval.
	ReviewThresholdDays    int
	GraduatedThresholdDays int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero-valued fields keep their defaults.
type ParamsConfig struct {
	MinEaseFactor float64
	MaxEaseFactor float64

	FirstInterval  int
	SecondInterval int

	ReviewThresholdDays    int
	GraduatedThresholdDays int
}

// NewDefaultParams creates a new Params instance with default values.
// The defaults implement classic SM-2 with a 21-day promotion to review
// status and a 120-day promotion to graduated.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: 1.3,
		MaxEaseFactor: 2.5,

		FirstInterval:  1,
		SecondInterval: 6,

		ReviewThresholdDays:    21,
		GraduatedThresholdDays: 120,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MaxEaseFactor > 0 {
		params.MaxEaseFactor = config.MaxEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.ReviewThresholdDays > 0 {
		params.ReviewThresholdDays = config.ReviewThresholdDays
	}
	if config.GraduatedThresholdDays > 0 {
		params.GraduatedThresholdDays = config.GraduatedThresholdDays
	}

	return params
}
