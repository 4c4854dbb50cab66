package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	domaincfg "cortex/domain/config"
)

// policyFile is the YAML overlay applied on top of the default learning
// policy. Absent fields keep their defaults.
type policyFile struct {
	MergeSimilarityThreshold   *float64           `yaml:"merge_similarity_threshold"`
	TopicSimilarityThreshold   *float64           `yaml:"topic_similarity_threshold"`
	MaxNodesPerGraph           *int               `yaml:"max_nodes_per_graph"`
	MaxContentLength           *int               `yaml:"max_content_length"`
	MaxEdgeWeight              *float64           `yaml:"max_edge_weight"`
	EdgeWeightDecay            *float64           `yaml:"edge_weight_decay"`
	DefaultWeight              *float64           `yaml:"default_weight"`
	MaxEdgesPerNode            *int               `yaml:"max_edges_per_node"`
	MinContradictionConfidence *float64           `yaml:"min_contradiction_confidence"`
	ResolutionConfidenceMargin *float64           `yaml:"resolution_confidence_margin"`
	DefaultSourceTrust         *float64           `yaml:"default_source_trust"`
	SourceTrust                map[string]float64 `yaml:"source_trust"`
	SourceSkew                 map[string]float64 `yaml:"source_skew"`
	MaxTimelineEvents          *int               `yaml:"max_timeline_events"`
	AttentionSmoothing         *float64           `yaml:"attention_smoothing"`
	FatigueWeights             map[string]float64 `yaml:"fatigue_weights"`
	FatigueThresholds          *fatigueThresholds `yaml:"fatigue_thresholds"`
	BaselineBreakIn            *time.Duration     `yaml:"baseline_break_in"`
	MinRecommendedBreak        *time.Duration     `yaml:"min_recommended_break"`
}

type fatigueThresholds struct {
	Mild     float64 `yaml:"mild"`
	Moderate float64 `yaml:"moderate"`
	High     float64 `yaml:"high"`
	Severe   float64 `yaml:"severe"`
}

// LoadPolicy reads the YAML overlay at path and applies it to the default
// learning policy. An empty path returns the defaults.
func LoadPolicy(path string) (*domaincfg.DomainConfig, error) {
	cfg := domaincfg.DefaultDomainConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var overlay policyFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}

	applyOverlay(cfg, &overlay)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("policy file %s: %w", path, err)
	}
	return cfg, nil
}

func applyOverlay(cfg *domaincfg.DomainConfig, o *policyFile) {
	setFloat(&cfg.MergeSimilarityThreshold, o.MergeSimilarityThreshold)
	setFloat(&cfg.TopicSimilarityThreshold, o.TopicSimilarityThreshold)
	setInt(&cfg.MaxNodesPerGraph, o.MaxNodesPerGraph)
	setInt(&cfg.MaxContentLength, o.MaxContentLength)
	setFloat(&cfg.MaxEdgeWeight, o.MaxEdgeWeight)
	setFloat(&cfg.EdgeWeightDecay, o.EdgeWeightDecay)
	setFloat(&cfg.DefaultWeight, o.DefaultWeight)
	setInt(&cfg.MaxEdgesPerNode, o.MaxEdgesPerNode)
	setFloat(&cfg.MinContradictionConfidence, o.MinContradictionConfidence)
	setFloat(&cfg.ResolutionConfidenceMargin, o.ResolutionConfidenceMargin)
	setFloat(&cfg.DefaultSourceTrust, o.DefaultSourceTrust)
	setFloat(&cfg.AttentionSmoothing, o.AttentionSmoothing)
	setInt(&cfg.MaxTimelineEvents, o.MaxTimelineEvents)

	if o.SourceTrust != nil {
		cfg.SourceTrust = o.SourceTrust
	}
	if o.SourceSkew != nil {
		cfg.SourceSkew = o.SourceSkew
	}
	if o.FatigueWeights != nil {
		cfg.FatigueWeights = o.FatigueWeights
	}
	if o.FatigueThresholds != nil {
		cfg.FatigueThresholds = domaincfg.FatigueThresholds{
			Mild:     o.FatigueThresholds.Mild,
			Moderate: o.FatigueThresholds.Moderate,
			High:     o.FatigueThresholds.High,
			Severe:   o.FatigueThresholds.Severe,
		}
	}
	if o.BaselineBreakIn != nil {
		cfg.BaselineBreakIn = *o.BaselineBreakIn
	}
	if o.MinRecommendedBreak != nil {
		cfg.MinRecommendedBreak = *o.MinRecommendedBreak
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// PolicyStore is the live learning policy shared across the application.
// Reads are lock-protected; Replace swaps the whole policy atomically so
// callers holding an old pointer keep a consistent view.
type PolicyStore struct {
	mu      sync.RWMutex
	current *domaincfg.DomainConfig
}

// NewPolicyStore creates a store seeded with the given policy
func NewPolicyStore(cfg *domaincfg.DomainConfig) *PolicyStore {
	if cfg == nil {
		cfg = domaincfg.DefaultDomainConfig()
	}
	return &PolicyStore{current: cfg}
}

// Policy implements ports.PolicyProvider
func (s *PolicyStore) Policy() *domaincfg.DomainConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace swaps in a new policy
func (s *PolicyStore) Replace(cfg *domaincfg.DomainConfig) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
}
