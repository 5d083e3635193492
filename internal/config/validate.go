package config

import "fmt"

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// knownDomains is the set of valid domain names.
var knownDomains = map[string]bool{
	"macro":        true,
	"equities":     true,
	"fixed-income": true,
	"commodities":  true,
	"political":    true,
}

// Validate checks a Config for structural and semantic errors. It
// returns all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.Model.APIKey == "" {
		errs = append(errs, ValidationError{Field: "model.api_key", Message: "is required (or set OPENAI_API_KEY)"})
	}

	seen := make(map[string]bool)
	for i, d := range cfg.Domains {
		if !knownDomains[d] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("domains[%d]", i),
				Message: fmt.Sprintf("unknown domain %q", d),
			})
		}
		if seen[d] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("domains[%d]", i),
				Message: fmt.Sprintf("duplicate domain %q", d),
			})
		}
		seen[d] = true
	}

	if _, err := cfg.Policy.ReliabilityPolicy(); err != nil {
		errs = append(errs, ValidationError{Field: "policy", Message: err.Error()})
	}

	if cfg.Context.MaxEntries < 0 {
		errs = append(errs, ValidationError{Field: "context.max_entries", Message: "must not be negative"})
	}
	if cfg.Context.MaxChars < 0 {
		errs = append(errs, ValidationError{Field: "context.max_chars", Message: "must not be negative"})
	}

	for i, rw := range cfg.Remote {
		if rw.Endpoint == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("remote_workers[%d].endpoint", i),
				Message: "is required",
			})
		}
	}

	return errs
}
