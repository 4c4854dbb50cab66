package config

import "time"

// DomainConfig holds all configurable learning policy and constraints.
// The merge, contradiction and fatigue formulas are deliberately parameters
// rather than constants so collaborators can tune them per deployment.
type DomainConfig struct {
	// Node merge policy
	MergeSimilarityThreshold float64
	TopicSimilarityThreshold float64
	MaxNodesPerGraph         int
	MaxContentLength         int

	// Edge policy
	MaxEdgeWeight   float64
	EdgeWeightDecay float64
	DefaultWeight   float64
	MaxEdgesPerNode int

	// Contradiction policy
	MinContradictionConfidence float64
	ResolutionConfidenceMargin float64

	// Source trust: per-domain trust weights used in confidence
	// reconciliation. Unlisted domains get DefaultSourceTrust.
	DefaultSourceTrust float64
	SourceTrust        map[string]float64

	// Political skew per source domain, supplied externally, in [-1, 1].
	SourceSkew map[string]float64

	// Timeline retention
	MaxTimelineEvents int

	// Profiler policy
	AttentionSmoothing  float64 // EWMA alpha for attention metrics
	FatigueWeights      map[string]float64
	FatigueThresholds   FatigueThresholds
	BaselineBreakIn     time.Duration
	MinRecommendedBreak time.Duration
}

// FatigueThresholds are the weighted-indicator-sum crossings for each
// fatigue level escalation.
type FatigueThresholds struct {
	Mild     float64
	Moderate float64
	High     float64
	Severe   float64
}

// DefaultDomainConfig returns the default learning policy
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MergeSimilarityThreshold: 0.5,
		TopicSimilarityThreshold: 0.4,
		MaxNodesPerGraph:         100000,
		MaxContentLength:         20000,

		MaxEdgeWeight:   10.0,
		EdgeWeightDecay: 0.9,
		DefaultWeight:   1.0,
		MaxEdgesPerNode: 500,

		MinContradictionConfidence: 0.3,
		ResolutionConfidenceMargin: 0.25,

		DefaultSourceTrust: 1.0,
		SourceTrust:        map[string]float64{},
		SourceSkew:         map[string]float64{},

		MaxTimelineEvents: 10000,

		AttentionSmoothing: 0.3,
		FatigueWeights: map[string]float64{
			"scrollSpeed":  0.25,
			"readTime":     0.25,
			"clickPattern": 0.2,
			"typos":        0.15,
			"backtracking": 0.15,
		},
		FatigueThresholds: FatigueThresholds{
			Mild:     0.2,
			Moderate: 0.4,
			High:     0.6,
			Severe:   0.8,
		},
		BaselineBreakIn:     90 * time.Minute,
		MinRecommendedBreak: 5 * time.Minute,
	}
}

// TrustFor returns the trust weight for a source domain
func (c *DomainConfig) TrustFor(domain string) float64 {
	if t, ok := c.SourceTrust[domain]; ok {
		return t
	}
	return c.DefaultSourceTrust
}

// SkewFor returns the externally supplied political skew for a source domain
func (c *DomainConfig) SkewFor(domain string) float64 {
	return c.SourceSkew[domain]
}

// Validate checks if the configuration is internally consistent
func (c *DomainConfig) Validate() error {
	if c.MergeSimilarityThreshold < 0 || c.MergeSimilarityThreshold > 1 {
		return errThreshold("MergeSimilarityThreshold")
	}
	if c.TopicSimilarityThreshold < 0 || c.TopicSimilarityThreshold > 1 {
		return errThreshold("TopicSimilarityThreshold")
	}
	if c.MinContradictionConfidence < 0 || c.MinContradictionConfidence > 1 {
		return errThreshold("MinContradictionConfidence")
	}
	if c.MaxEdgeWeight <= 0 {
		return errThreshold("MaxEdgeWeight")
	}
	t := c.FatigueThresholds
	if !(t.Mild < t.Moderate && t.Moderate < t.High && t.High < t.Severe) {
		return errThreshold("FatigueThresholds")
	}
	return nil
}

type configError string

func (e configError) Error() string { return string(e) }

func errThreshold(field string) error {
	return configError("domain config: " + field + " out of range")
}
