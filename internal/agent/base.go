package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/dusk-indust/econswarm/internal/llm"
	"github.com/dusk-indust/econswarm/internal/swarm"
)

// Compile-time interface check.
var _ swarm.Worker = (*BaseAgent)(nil)

// ModelParams tune the chat completion requests an agent makes.
type ModelParams struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// BaseAgent provides the shared prompt assembly and model invocation for
// all specialist agents. Agents with extra data sources wrap it and
// prepend their data to the task.
type BaseAgent struct {
	name         string
	systemPrompt string
	chat         llm.Chat
	params       ModelParams
}

// NewBaseAgent creates an agent with the given worker name, system
// prompt, and chat backend.
func NewBaseAgent(name, systemPrompt string, chat llm.Chat, params ModelParams) *BaseAgent {
	return &BaseAgent{
		name:         name,
		systemPrompt: systemPrompt,
		chat:         chat,
		params:       params,
	}
}

func (b *BaseAgent) Name() string {
	return b.name
}

// Invoke runs one chat completion. The accumulated pipeline context, if
// any, precedes the task in the user message so the model can build on
// peer analyses.
func (b *BaseAgent) Invoke(ctx context.Context, task, contextText string) (string, error) {
	var sb strings.Builder
	if contextText != "" {
		sb.WriteString("Analyses produced so far by other agents:\n\n")
		sb.WriteString(contextText)
		sb.WriteString("\n")
	}
	sb.WriteString("Task: ")
	sb.WriteString(task)

	out, err := b.chat.Complete(ctx, llm.CompletionRequest{
		Model: b.params.Model,
		Messages: []llm.Message{
			{Role: "system", Content: b.systemPrompt},
			{Role: "user", Content: sb.String()},
		},
		MaxTokens:   b.params.MaxTokens,
		Temperature: b.params.Temperature,
		Stop:        []string{StoppingToken},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", b.name, err)
	}

	out = TrimStoppingToken(out)
	if out == "" {
		return "", fmt.Errorf("%s: model returned an empty analysis", b.name)
	}
	return out, nil
}
