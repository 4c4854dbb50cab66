package entities

import (
	"time"

	"cortex/domain/config"
)

// FatigueLevel is the discretized accumulated-strain state
type FatigueLevel string

const (
	FatigueFresh    FatigueLevel = "fresh"
	FatigueMild     FatigueLevel = "mild"
	FatigueModerate FatigueLevel = "moderate"
	FatigueHigh     FatigueLevel = "high"
	FatigueSevere   FatigueLevel = "severe"
)

var fatigueOrder = []FatigueLevel{
	FatigueFresh, FatigueMild, FatigueModerate, FatigueHigh, FatigueSevere,
}

func fatigueRank(l FatigueLevel) int {
	for i, level := range fatigueOrder {
		if level == l {
			return i
		}
	}
	return 0
}

// IndicatorTrend is the direction of an indicator's recent movement
type IndicatorTrend string

const (
	TrendIncreasing IndicatorTrend = "increasing"
	TrendStable     IndicatorTrend = "stable"
	TrendDecreasing IndicatorTrend = "decreasing"
)

// trendEpsilon filters measurement jitter out of trend detection
const trendEpsilon = 0.01

// FatigueIndicator is one smoothed strain signal with its trend
type FatigueIndicator struct {
	Value float64        `json:"value"`
	Trend IndicatorTrend `json:"trend"`
}

// Indicator keys expected by the fatigue weight configuration.
const (
	IndicatorScrollSpeed  = "scrollSpeed"
	IndicatorReadTime     = "readTime"
	IndicatorClickPattern = "clickPattern"
	IndicatorTypos        = "typos"
	IndicatorBacktracking = "backtracking"
)

// AttentionMetrics tracks sustained focus signals
type AttentionMetrics struct {
	Score                float64 `json:"score"`
	DistractionFrequency float64 `json:"distraction_frequency"`
}

// CuriosityMetrics tracks exploration behavior
type CuriosityMetrics struct {
	TopicDiversity    float64 `json:"topic_diversity"`
	QuestionFrequency float64 `json:"question_frequency"`
}

// LearningMetrics tracks knowledge acquisition rate
type LearningMetrics struct {
	Velocity          float64 `json:"velocity"`
	TotalNodesLearned int     `json:"total_nodes_learned"`
}

// BiasMetrics tracks information diet balance. Skew values per source
// domain are supplied externally through configuration.
type BiasMetrics struct {
	SourceDiversity float64 `json:"source_diversity"`
	PoliticalSkew   float64 `json:"political_skew"`
}

// FatigueState is the profiler's composite strain assessment
type FatigueState struct {
	Level              FatigueLevel                `json:"level"`
	Composite          float64                     `json:"composite"`
	Indicators         map[string]FatigueIndicator `json:"indicators"`
	RecommendedBreakIn time.Duration               `json:"recommended_break_in"`
}

// BehavioralSample is one discrete observation of user behavior.
// Strain signals are expected normalized to [0,1]; out-of-range values
// are clamped.
type BehavioralSample struct {
	SessionDuration time.Duration `json:"session_duration"`
	ScrollSpeed     float64       `json:"scroll_speed"`
	ReadTime        float64       `json:"read_time"`
	ClickPattern    float64       `json:"click_pattern"`
	Typos           float64       `json:"typos"`
	Backtracking    float64       `json:"backtracking"`
	Distractions    int           `json:"distractions"`
	QuestionsAsked  int           `json:"questions_asked"`
	NodesLearned    int           `json:"nodes_learned"`
	TopicsVisited   []string      `json:"topics_visited"`
	SourceDomains   []string      `json:"source_domains"`
	SampledAt       time.Time     `json:"sampled_at"`
}

// CognitiveProfile aggregates behavioral samples into derived metrics.
// One profile exists per user; only the profiler mutates it.
type CognitiveProfile struct {
	userID      string
	attention   AttentionMetrics
	curiosity   CuriosityMetrics
	learning    LearningMetrics
	fatigue     FatigueState
	bias        BiasMetrics
	seenTopics  map[string]bool
	seenDomains map[string]bool
	samples     int
	lastBreak   time.Time
	lastUpdated time.Time
}

// NewCognitiveProfile creates a fresh profile with a full break budget
func NewCognitiveProfile(userID string, cfg *config.DomainConfig) *CognitiveProfile {
	now := time.Now()
	return &CognitiveProfile{
		userID: userID,
		fatigue: FatigueState{
			Level:              FatigueFresh,
			Indicators:         make(map[string]FatigueIndicator),
			RecommendedBreakIn: cfg.BaselineBreakIn,
		},
		seenTopics:  make(map[string]bool),
		seenDomains: make(map[string]bool),
		lastBreak:   now,
		lastUpdated: now,
	}
}

// ReconstructCognitiveProfile rebuilds a profile from persisted state
func ReconstructCognitiveProfile(
	userID string,
	attention AttentionMetrics,
	curiosity CuriosityMetrics,
	learning LearningMetrics,
	fatigue FatigueState,
	bias BiasMetrics,
	seenTopics, seenDomains []string,
	samples int,
	lastBreak, lastUpdated time.Time,
) *CognitiveProfile {
	if fatigue.Indicators == nil {
		fatigue.Indicators = make(map[string]FatigueIndicator)
	}
	topics := make(map[string]bool, len(seenTopics))
	for _, t := range seenTopics {
		topics[t] = true
	}
	domains := make(map[string]bool, len(seenDomains))
	for _, d := range seenDomains {
		domains[d] = true
	}
	return &CognitiveProfile{
		userID:      userID,
		attention:   attention,
		curiosity:   curiosity,
		learning:    learning,
		fatigue:     fatigue,
		bias:        bias,
		seenTopics:  topics,
		seenDomains: domains,
		samples:     samples,
		lastBreak:   lastBreak,
		lastUpdated: lastUpdated,
	}
}

// Clone returns a deep copy sharing no state with the original
func (p *CognitiveProfile) Clone() *CognitiveProfile {
	out := *p
	out.fatigue.Indicators = make(map[string]FatigueIndicator, len(p.fatigue.Indicators))
	for k, v := range p.fatigue.Indicators {
		out.fatigue.Indicators[k] = v
	}
	out.seenTopics = make(map[string]bool, len(p.seenTopics))
	for k := range p.seenTopics {
		out.seenTopics[k] = true
	}
	out.seenDomains = make(map[string]bool, len(p.seenDomains))
	for k := range p.seenDomains {
		out.seenDomains[k] = true
	}
	return &out
}

// UserID returns the profile owner
func (p *CognitiveProfile) UserID() string { return p.userID }

// Attention returns the current attention metrics
func (p *CognitiveProfile) Attention() AttentionMetrics { return p.attention }

// Curiosity returns the current curiosity metrics
func (p *CognitiveProfile) Curiosity() CuriosityMetrics { return p.curiosity }

// Learning returns the current learning metrics
func (p *CognitiveProfile) Learning() LearningMetrics { return p.learning }

// Bias returns the current bias metrics
func (p *CognitiveProfile) Bias() BiasMetrics { return p.bias }

// LastUpdated returns when the profile last absorbed a sample or break
func (p *CognitiveProfile) LastUpdated() time.Time { return p.lastUpdated }

// SampleCount returns how many samples the profile has absorbed
func (p *CognitiveProfile) SampleCount() int { return p.samples }

// Fatigue returns a copy of the current fatigue state
func (p *CognitiveProfile) Fatigue() FatigueState {
	out := p.fatigue
	out.Indicators = make(map[string]FatigueIndicator, len(p.fatigue.Indicators))
	for k, v := range p.fatigue.Indicators {
		out.Indicators[k] = v
	}
	return out
}

// SeenTopics returns the distinct topics observed so far
func (p *CognitiveProfile) SeenTopics() []string { return setKeys(p.seenTopics) }

// SeenDomains returns the distinct source domains observed so far
func (p *CognitiveProfile) SeenDomains() []string { return setKeys(p.seenDomains) }

// ApplySample folds one behavioral sample into the profile. Attention and
// indicator values are smoothed with an exponentially weighted moving
// average; the fatigue level escalates freely but de-escalates at most one
// step per update.
func (p *CognitiveProfile) ApplySample(sample BehavioralSample, cfg *config.DomainConfig) {
	alpha := cfg.AttentionSmoothing
	if alpha <= 0 || alpha > 1 {
		alpha = 0.3
	}
	minutes := sample.SessionDuration.Minutes()
	if minutes <= 0 {
		minutes = 1
	}

	indicators := map[string]float64{
		IndicatorScrollSpeed:  clamp01(sample.ScrollSpeed),
		IndicatorReadTime:     clamp01(sample.ReadTime),
		IndicatorClickPattern: clamp01(sample.ClickPattern),
		IndicatorTypos:        clamp01(sample.Typos),
		IndicatorBacktracking: clamp01(sample.Backtracking),
	}

	strain := 0.0
	for _, v := range indicators {
		strain += v
	}
	strain /= float64(len(indicators))

	// Attention: focus is the inverse of instantaneous strain.
	p.attention.Score = ewma(p.attention.Score, 1-strain, alpha, p.samples == 0)
	p.attention.DistractionFrequency = ewma(
		p.attention.DistractionFrequency,
		float64(sample.Distractions)/minutes,
		alpha, p.samples == 0,
	)

	// Curiosity: diversity saturates as distinct topics accumulate.
	for _, t := range sample.TopicsVisited {
		if t != "" {
			p.seenTopics[t] = true
		}
	}
	p.curiosity.TopicDiversity = saturate(len(p.seenTopics))
	p.curiosity.QuestionFrequency = ewma(
		p.curiosity.QuestionFrequency,
		float64(sample.QuestionsAsked)/minutes,
		alpha, p.samples == 0,
	)

	// Learning velocity in nodes per hour.
	p.learning.TotalNodesLearned += sample.NodesLearned
	p.learning.Velocity = ewma(
		p.learning.Velocity,
		float64(sample.NodesLearned)/(minutes/60),
		alpha, p.samples == 0,
	)

	// Bias: domain diversity plus externally supplied skew per domain.
	if len(sample.SourceDomains) > 0 {
		skew := 0.0
		for _, d := range sample.SourceDomains {
			if d != "" {
				p.seenDomains[d] = true
			}
			skew += cfg.SkewFor(d)
		}
		skew /= float64(len(sample.SourceDomains))
		p.bias.PoliticalSkew = ewma(p.bias.PoliticalSkew, skew, alpha, p.samples == 0)
	}
	p.bias.SourceDiversity = saturate(len(p.seenDomains))

	p.updateFatigue(indicators, alpha, cfg)

	p.samples++
	now := time.Now()
	if now.After(p.lastUpdated) {
		p.lastUpdated = now
	}
}

// RecordBreak resets the break budget and relaxes fatigue one step
func (p *CognitiveProfile) RecordBreak(cfg *config.DomainConfig) {
	p.lastBreak = time.Now()
	p.fatigue.RecommendedBreakIn = cfg.BaselineBreakIn
	if rank := fatigueRank(p.fatigue.Level); rank > 0 {
		p.fatigue.Level = fatigueOrder[rank-1]
	}
	now := time.Now()
	if now.After(p.lastUpdated) {
		p.lastUpdated = now
	}
}

func (p *CognitiveProfile) updateFatigue(raw map[string]float64, alpha float64, cfg *config.DomainConfig) {
	composite := 0.0
	totalWeight := 0.0
	for key, observed := range raw {
		prev, seen := p.fatigue.Indicators[key]
		value := ewma(prev.Value, observed, alpha, !seen)

		trend := TrendStable
		switch delta := value - prev.Value; {
		case !seen:
			trend = TrendStable
		case delta > trendEpsilon:
			trend = TrendIncreasing
		case delta < -trendEpsilon:
			trend = TrendDecreasing
		}
		p.fatigue.Indicators[key] = FatigueIndicator{Value: value, Trend: trend}

		weight := cfg.FatigueWeights[key]
		composite += value * weight
		totalWeight += weight
	}
	if totalWeight > 0 {
		composite /= totalWeight
	}
	p.fatigue.Composite = composite

	target := levelFor(composite, cfg.FatigueThresholds)
	current := fatigueRank(p.fatigue.Level)
	switch targetRank := fatigueRank(target); {
	case targetRank > current:
		p.fatigue.Level = target
	case targetRank < current:
		// Hysteresis: recover one level per cycle, never jump down.
		p.fatigue.Level = fatigueOrder[current-1]
	}

	// The break budget shrinks as strain rises and never grows between breaks.
	budget := time.Duration((1 - composite) * float64(cfg.BaselineBreakIn))
	if budget < cfg.MinRecommendedBreak {
		budget = cfg.MinRecommendedBreak
	}
	if budget < p.fatigue.RecommendedBreakIn {
		p.fatigue.RecommendedBreakIn = budget
	}
}

func levelFor(composite float64, t config.FatigueThresholds) FatigueLevel {
	switch {
	case composite >= t.Severe:
		return FatigueSevere
	case composite >= t.High:
		return FatigueHigh
	case composite >= t.Moderate:
		return FatigueModerate
	case composite >= t.Mild:
		return FatigueMild
	}
	return FatigueFresh
}

// ewma blends a new observation into a smoothed value; the first
// observation seeds the average directly.
func ewma(prev, observed, alpha float64, first bool) float64 {
	if first {
		return observed
	}
	return alpha*observed + (1-alpha)*prev
}

// saturate maps a distinct-item count onto [0,1) with diminishing returns
func saturate(n int) float64 {
	return float64(n) / (float64(n) + 5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func setKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
