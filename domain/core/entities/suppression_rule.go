package entities

import (
	"regexp"
	"strings"
	"time"

	"cortex/domain/core/valueobjects"
	pkgerrors "cortex/pkg/errors"
)

// RuleType determines how a suppression rule matches candidates
type RuleType string

const (
	RuleTypeTopic   RuleType = "topic"
	RuleTypeDomain  RuleType = "domain"
	RuleTypePattern RuleType = "pattern"
	RuleTypeKeyword RuleType = "keyword"
)

// ValidRuleType reports whether t is a known rule type
func ValidRuleType(t RuleType) bool {
	switch t {
	case RuleTypeTopic, RuleTypeDomain, RuleTypePattern, RuleTypeKeyword:
		return true
	}
	return false
}

// SuppressionRule filters content before it can be learned or surfaced.
// Rules are evaluated in insertion order; the first active match wins.
type SuppressionRule struct {
	id         valueobjects.RuleID
	ruleType   RuleType
	value      string
	active     bool
	createdAt  time.Time
	matchCount int64
	pattern    *regexp.Regexp
}

// NewSuppressionRule creates an active rule. Pattern rules are compiled
// eagerly so malformed patterns fail at definition time, not match time.
func NewSuppressionRule(ruleType RuleType, value string) (*SuppressionRule, error) {
	if !ValidRuleType(ruleType) {
		return nil, pkgerrors.NewValidationError("unknown rule type: " + string(ruleType))
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, pkgerrors.NewValidationError("rule value cannot be empty")
	}

	var pattern *regexp.Regexp
	if ruleType == RuleTypePattern {
		var err error
		pattern, err = regexp.Compile(value)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid pattern rule").WithCause(err)
		}
	}

	return &SuppressionRule{
		id:        valueobjects.NewRuleID(),
		ruleType:  ruleType,
		value:     value,
		active:    true,
		createdAt: time.Now(),
		pattern:   pattern,
	}, nil
}

// ReconstructSuppressionRule rebuilds a rule from persisted data
func ReconstructSuppressionRule(
	id valueobjects.RuleID,
	ruleType RuleType,
	value string,
	active bool,
	createdAt time.Time,
	matchCount int64,
) (*SuppressionRule, error) {
	rule, err := NewSuppressionRule(ruleType, value)
	if err != nil {
		return nil, err
	}
	rule.id = id
	rule.active = active
	rule.createdAt = createdAt
	rule.matchCount = matchCount
	return rule, nil
}

// ID returns the rule's identifier
func (r *SuppressionRule) ID() valueobjects.RuleID { return r.id }

// Type returns the rule type
func (r *SuppressionRule) Type() RuleType { return r.ruleType }

// Value returns the rule's match value
func (r *SuppressionRule) Value() string { return r.value }

// Active reports whether the rule participates in evaluation
func (r *SuppressionRule) Active() bool { return r.active }

// CreatedAt returns when the rule was defined
func (r *SuppressionRule) CreatedAt() time.Time { return r.createdAt }

// MatchCount returns how many candidates this rule has suppressed
func (r *SuppressionRule) MatchCount() int64 { return r.matchCount }

// SetActive toggles whether the rule participates in evaluation
func (r *SuppressionRule) SetActive(active bool) {
	r.active = active
}

// RecordMatch increments the suppression counter. Callers serialize rule
// mutation, so the increment is atomic from their perspective.
func (r *SuppressionRule) RecordMatch() {
	r.matchCount++
}

// SameDefinition reports whether another rule has the identical type and
// value, used to coalesce duplicate definitions idempotently.
func (r *SuppressionRule) SameDefinition(ruleType RuleType, value string) bool {
	return r.ruleType == ruleType && r.value == strings.TrimSpace(value)
}

// Matches evaluates the rule against candidate content and its source domain
func (r *SuppressionRule) Matches(content, sourceDomain string) bool {
	switch r.ruleType {
	case RuleTypeTopic, RuleTypeKeyword:
		return strings.Contains(strings.ToLower(content), strings.ToLower(r.value))
	case RuleTypeDomain:
		domain := strings.ToLower(sourceDomain)
		value := strings.ToLower(r.value)
		return domain == value || strings.HasSuffix(domain, "."+value)
	case RuleTypePattern:
		return r.pattern != nil && r.pattern.MatchString(content)
	}
	return false
}
