package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "halindex/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ArchiveConfig holds settings for the HAL archive client.
type ArchiveConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoints lists the archive search endpoints to query. Both the
	// main archive and the thesis archive return the same document shape;
	// results are merged by docid.
	Endpoints []string `json:"endpoints" yaml:"endpoints"`

	// Rows is the page size for paginated queries (default 100).
	Rows int `json:"rows" yaml:"rows"`

	// RateLimit is the maximum request rate in requests per second
	// (default 10, per the archive's usage guidance).
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// MaxRetries bounds retries on HTTP 429 responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResolverConfig holds the author-resolution thresholds.
type ResolverConfig struct {
	// UpperThreshold is the score at or above which a match is certain
	// (default 0.92).
	UpperThreshold float64 `json:"upper_threshold" yaml:"upper_threshold"`

	// LowerThreshold is the score at or above which a match is probable
	// (default 0.75). Below it a mention stays unattributed.
	LowerThreshold float64 `json:"lower_threshold" yaml:"lower_threshold"`

	// AmbiguityEpsilon is the score gap within which two roster matches
	// are considered indistinguishable and both rejected (default 0.03).
	AmbiguityEpsilon float64 `json:"ambiguity_epsilon" yaml:"ambiguity_epsilon"`

	// SurnameTolerance is the maximum Levenshtein distance between
	// surnames before scoring is gated to zero (default 1).
	SurnameTolerance int `json:"surname_tolerance" yaml:"surname_tolerance"`
}

// Granularity selects the time bucket for temporal aggregation.
type Granularity string

const (
	ByYear    Granularity = "year"
	ByQuarter Granularity = "quarter"
)

// AggregationConfig holds settings for the index builder.
type AggregationConfig struct {
	// Granularity selects year or quarter period buckets (default year).
	// Quarter buckets fall back to the year label for records without a
	// full publication date.
	Granularity Granularity `json:"granularity" yaml:"granularity"`

	// Workers bounds the parallel reduction (default: one per CPU).
	Workers int `json:"workers" yaml:"workers"`
}

// StoreConfig holds settings for the results store.
type StoreConfig struct {
	// DataDir is the base directory for pipeline output (contains
	// extraction/ and index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Archive     ArchiveConfig     `json:"archive" yaml:"archive"`
	Resolver    ResolverConfig    `json:"resolver" yaml:"resolver"`
	Aggregation AggregationConfig `json:"aggregation" yaml:"aggregation"`
	Store       StoreConfig       `json:"store" yaml:"store"`
}

// DefaultResolverConfig returns the tuned resolution thresholds.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		UpperThreshold:   0.92,
		LowerThreshold:   0.75,
		AmbiguityEpsilon: 0.03,
		SurnameTolerance: 1,
	}
}

// DefaultArchiveConfig returns the archive client defaults.
func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   60 * time.Second,
			UserAgent: "halindex/0.1",
		},
		Endpoints: []string{
			"https://api.archives-ouvertes.fr/search/",
			"https://api.archives-ouvertes.fr/search/tel/",
		},
		Rows:       100,
		RateLimit:  10,
		MaxRetries: 5,
	}
}

// DefaultAggregationConfig returns the index builder defaults.
func DefaultAggregationConfig() AggregationConfig {
	return AggregationConfig{Granularity: ByYear}
}
