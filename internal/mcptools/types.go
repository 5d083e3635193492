package mcptools

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// RunSummaryInput is the input for the run_summary MCP tool.
type RunSummaryInput struct {
	Task    string   `json:"task,omitempty" jsonschema:"analysis task (default: a general economic overview)"`
	Domains []string `json:"domains,omitempty" jsonschema:"domains to include: macro, equities, fixed-income, commodities, political (default: all)"`
}

// RunSummaryOutput is the result of the run_summary MCP tool.
type RunSummaryOutput struct {
	RunID   string `json:"runId"`
	Report  string `json:"report"`
	Status  string `json:"status"` // "completed" or "failed"
	Message string `json:"message,omitempty"`
}

// ListDomainsInput is the input for the list_domains MCP tool.
type ListDomainsInput struct{}

// ListDomainsOutput is the result of the list_domains MCP tool.
type ListDomainsOutput struct {
	Domains []DomainInfo `json:"domains"`
}

// DomainInfo describes one available analysis domain.
type DomainInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
