package ports

import "cortex/domain/config"

// PolicyProvider hands out the current learning policy. Implementations
// may hot-reload policy from configuration files; callers must treat the
// returned value as immutable.
type PolicyProvider interface {
	Policy() *config.DomainConfig
}

// StaticPolicy is a PolicyProvider that never changes
type StaticPolicy struct {
	Config *config.DomainConfig
}

// Policy implements PolicyProvider
func (s StaticPolicy) Policy() *config.DomainConfig {
	if s.Config == nil {
		return config.DefaultDomainConfig()
	}
	return s.Config
}
