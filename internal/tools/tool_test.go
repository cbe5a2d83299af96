package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type failingTool struct{}

func (failingTool) Name() string         { return "failing" }
func (failingTool) Instructions() string { return "" }
func (failingTool) Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{{Name: "explode"}}
}
func (failingTool) Call(context.Context, string, map[string]any) (any, error) {
	return nil, errors.New("boom")
}

func TestToolboxDeclaresEveryFunction(t *testing.T) {
	box, err := NewToolbox(
		NewThinkingTool("Analyze GitHub candidates with strict criteria", true),
		NewReasoningTools(true),
		NewExaTools(ExaOptions{APIKey: "k"}),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"analyze", "reason", "search_exa", "think"}, box.Functions())

	genaiTools := box.GenAITools()
	require.Len(t, genaiTools, 1)
	assert.Len(t, genaiTools[0].FunctionDeclarations, 4)

	assert.Equal(t, "reasoning", box.Owner("analyze"))
	assert.Equal(t, "", box.Owner("missing"))

	instructions := box.Instructions()
	assert.Contains(t, instructions, "Analyze GitHub candidates with strict criteria")
	assert.Contains(t, instructions, `"reason" and "analyze"`)
}

func TestToolboxRejectsDuplicateFunctions(t *testing.T) {
	_, err := NewToolbox(NewThinkingTool("", false), NewThinkingTool("", false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"think"`)
}

func TestToolboxWithoutToolsHasNoDeclarations(t *testing.T) {
	box, err := NewToolbox(nil)
	require.NoError(t, err)
	assert.Nil(t, box.GenAITools())
	assert.Empty(t, box.Instructions())
}

func TestToolboxInvokeTurnsErrorsIntoResponses(t *testing.T) {
	box, err := NewToolbox(failingTool{}, NewThinkingTool("", false))
	require.NoError(t, err)

	resp, err := box.Invoke(context.Background(), "explode", nil)
	require.Error(t, err)
	assert.Equal(t, map[string]any{"error": "boom"}, resp)

	resp, err = box.Invoke(context.Background(), "nope", nil)
	require.ErrorIs(t, err, ErrUnknownFunction)
	assert.Contains(t, resp["error"], "nope")

	resp, err = box.Invoke(context.Background(), "think", map[string]any{"thought": "check forks"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"thoughts": []string{"check forks"}}, resp["output"])
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want int
	}{
		{"missing uses default", map[string]any{}, 10},
		{"json number", map[string]any{"n": float64(7)}, 7},
		{"clamped to max", map[string]any{"n": float64(500)}, 50},
		{"non positive uses default", map[string]any{"n": float64(0)}, 10},
		{"wrong type uses default", map[string]any{"n": "5"}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, intArg(tt.args, "n", 10, 50))
		})
	}
}

func TestSplitFullName(t *testing.T) {
	owner, repo, err := splitFullName("octocat/Hello-World")
	require.NoError(t, err)
	assert.Equal(t, "octocat", owner)
	assert.Equal(t, "Hello-World", repo)

	for _, bad := range []string{"octocat", "/repo", "a/b/c", ""} {
		_, _, err := splitFullName(bad)
		assert.Error(t, err, bad)
	}
}

func TestThinkingToolInstructions(t *testing.T) {
	assert.Empty(t, NewThinkingTool("", false).Instructions())
	assert.Equal(t, defaultThinkingInstructions, NewThinkingTool("", true).Instructions())
	assert.Equal(t, "custom", NewThinkingTool("custom", true).Instructions())
}

func TestThinkingToolAccumulatesThoughts(t *testing.T) {
	tool := NewThinkingTool("", true)

	_, err := tool.Call(context.Background(), "think", map[string]any{"thought": "first"})
	require.NoError(t, err)
	_, err = tool.Call(context.Background(), "think", map[string]any{"thought": "  second  "})
	require.NoError(t, err)
	_, err = tool.Call(context.Background(), "think", map[string]any{})
	require.Error(t, err)

	assert.Equal(t, []string{"first", "second"}, tool.Thoughts())
}

func TestReasoningTools(t *testing.T) {
	tool := NewReasoningTools(false)
	assert.Empty(t, tool.Instructions())

	_, err := tool.Call(context.Background(), "reason", map[string]any{
		"title":      "Plan",
		"thought":    "Fetch the profile first",
		"confidence": 1.7,
	})
	require.NoError(t, err)

	out, err := tool.Call(context.Background(), "analyze", map[string]any{
		"title":    "Profile",
		"result":   "12 public repos",
		"analysis": "Mostly forks",
	})
	require.NoError(t, err)

	steps := out.(map[string]any)["reasoning_steps"].([]ReasoningStep)
	require.Len(t, steps, 2)
	assert.Equal(t, "reason", steps[0].Kind)
	assert.Equal(t, 1.0, steps[0].Confidence)
	assert.Equal(t, "continue", steps[1].NextAction)
	assert.Equal(t, 0.8, steps[1].Confidence)
	assert.Equal(t, steps, tool.Steps())
}

func TestReasoningToolsRejectsBadInput(t *testing.T) {
	tool := NewReasoningTools(true)

	_, err := tool.Call(context.Background(), "analyze", map[string]any{
		"title": "x", "result": "r", "analysis": "a", "next_action": "guess",
	})
	require.Error(t, err)

	_, err = tool.Call(context.Background(), "plan", map[string]any{"title": "x"})
	require.ErrorIs(t, err, ErrUnknownFunction)

	assert.Empty(t, tool.Steps())
}
