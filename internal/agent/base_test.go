package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/econswarm/internal/llm"
)

// chatFunc adapts a function to llm.Chat for tests.
type chatFunc func(ctx context.Context, req llm.CompletionRequest) (string, error)

func (f chatFunc) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return f(ctx, req)
}

func TestTrimStoppingToken(t *testing.T) {
	assert.Equal(t, "analysis", TrimStoppingToken("analysis <DONE>"))
	assert.Equal(t, "analysis", TrimStoppingToken("analysis"))
	assert.Equal(t, "analysis", TrimStoppingToken("  analysis\n<DONE>\n"))
	assert.Equal(t, "", TrimStoppingToken("<DONE>"))
}

func TestBaseAgent_Invoke(t *testing.T) {
	var got llm.CompletionRequest
	chat := chatFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		got = req
		return "equities look stable <DONE>", nil
	})

	a := NewBaseAgent("equities", equitiesPrompt, chat, ModelParams{Model: "gpt-4o", Temperature: 0.2})
	out, err := a.Invoke(context.Background(), "assess the market", "### [parallel-analyze] macro\n\nslowing growth")

	require.NoError(t, err)
	assert.Equal(t, "equities look stable", out, "stopping token is stripped")
	assert.Equal(t, "equities", a.Name())

	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, []string{StoppingToken}, got.Stop)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, equitiesPrompt, got.Messages[0].Content)
	assert.Contains(t, got.Messages[1].Content, "slowing growth")
	assert.Contains(t, got.Messages[1].Content, "Task: assess the market")
}

func TestBaseAgent_Invoke_NoContext(t *testing.T) {
	chat := chatFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		assert.NotContains(t, req.Messages[1].Content, "other agents")
		return "fine", nil
	})

	a := NewBaseAgent("commodities", commoditiesPrompt, chat, ModelParams{})
	_, err := a.Invoke(context.Background(), "task", "")
	require.NoError(t, err)
}

func TestBaseAgent_Invoke_ErrorNamesAgent(t *testing.T) {
	boom := errors.New("rate limited")
	chat := chatFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "", boom
	})

	a := NewBaseAgent("political", politicalPrompt, chat, ModelParams{})
	_, err := a.Invoke(context.Background(), "task", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "political")
}

func TestBaseAgent_Invoke_EmptyResponseIsError(t *testing.T) {
	chat := chatFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "  <DONE>  ", nil
	})

	a := NewBaseAgent("fixed-income", fixedIncomePrompt, chat, ModelParams{})
	_, err := a.Invoke(context.Background(), "task", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty analysis")
}
