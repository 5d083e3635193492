// Package config loads and validates econswarm run configuration from
// YAML. Values like API keys support ${ENV_VAR} expansion.
package config

import (
	"time"

	"github.com/dusk-indust/econswarm/internal/swarm"
)

// Config is the top-level structure parsed from econswarm.yaml.
type Config struct {
	Task     string         `yaml:"task"`
	Model    ModelConfig    `yaml:"model"`
	Policy   PolicyConfig   `yaml:"policy"`
	Domains  []string       `yaml:"domains"`
	Context  ContextConfig  `yaml:"context"`
	FRED     FREDConfig     `yaml:"fred"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Remote   []RemoteWorker `yaml:"remote_workers"`
}

// ModelConfig selects and tunes the chat model backing the agents.
type ModelConfig struct {
	Name        string  `yaml:"name"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// PolicyConfig mirrors swarm.ReliabilityPolicy with YAML-friendly
// duration strings.
type PolicyConfig struct {
	QuorumFraction     float64 `yaml:"quorum_fraction"`
	MaxRetriesPerStage int     `yaml:"max_retries_per_stage"`
	AllowDegrade       *bool   `yaml:"allow_degrade"`
	TimeoutPerWorker   string  `yaml:"timeout_per_worker"`
	StageDeadline      string  `yaml:"stage_deadline"`
	MaxConcurrency     int     `yaml:"max_concurrency"`
}

// ContextConfig bounds the rendered pipeline context.
type ContextConfig struct {
	MaxEntries int `yaml:"max_entries"`
	MaxChars   int `yaml:"max_chars"`
}

// FREDConfig configures the FRED data backend for the macro agent. An
// empty APIKey disables FRED enrichment.
type FREDConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// DeliveryConfig configures report delivery. An empty SlackWebhook
// means stdout only.
type DeliveryConfig struct {
	SlackWebhook string `yaml:"slack_webhook"`
}

// RemoteWorker points at a worker served by `econswarm serve-worker`.
// Name is optional; when empty it is discovered via worker/describe.
type RemoteWorker struct {
	Endpoint string `yaml:"endpoint"`
	Name     string `yaml:"name"`
}

// ReliabilityPolicy converts the YAML policy into the swarm's form,
// starting from swarm defaults so unset fields keep their default.
func (p PolicyConfig) ReliabilityPolicy() (swarm.ReliabilityPolicy, error) {
	policy := swarm.DefaultPolicy()

	if p.QuorumFraction != 0 {
		policy.QuorumFraction = p.QuorumFraction
	}
	if p.MaxRetriesPerStage != 0 {
		policy.MaxRetriesPerStage = p.MaxRetriesPerStage
	}
	if p.AllowDegrade != nil {
		policy.AllowDegrade = *p.AllowDegrade
	}
	if p.MaxConcurrency != 0 {
		policy.MaxConcurrency = p.MaxConcurrency
	}
	if p.TimeoutPerWorker != "" {
		d, err := time.ParseDuration(p.TimeoutPerWorker)
		if err != nil {
			return policy, ValidationError{Field: "policy.timeout_per_worker", Message: err.Error()}
		}
		policy.TimeoutPerWorker = d
	}
	if p.StageDeadline != "" {
		d, err := time.ParseDuration(p.StageDeadline)
		if err != nil {
			return policy, ValidationError{Field: "policy.stage_deadline", Message: err.Error()}
		}
		policy.StageDeadline = d
	}

	if err := policy.Validate(); err != nil {
		return policy, err
	}
	return policy, nil
}

// ContextLimits converts the YAML context bounds into the swarm's form.
func (c ContextConfig) ContextLimits() swarm.ContextLimits {
	return swarm.ContextLimits{
		MaxEntries: c.MaxEntries,
		MaxChars:   c.MaxChars,
	}
}
