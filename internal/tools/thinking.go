package tools

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

const defaultThinkingInstructions = `You have access to the "think" function. Use it as a scratchpad before
and after tool calls: note what you learned, check it against the role requirements, and plan the next step.
Thoughts are not shown to the user.`

// ThinkingTool gives the model a scratchpad. Thoughts accumulate for the
// lifetime of one run.
type ThinkingTool struct {
	instructions string

	mu       sync.Mutex
	thoughts []string
}

// NewThinkingTool returns a scratchpad tool. Custom instructions win over the
// defaults. With neither, the tool contributes no instructions.
func NewThinkingTool(instructions string, addInstructions bool) *ThinkingTool {
	if instructions == "" && addInstructions {
		instructions = defaultThinkingInstructions
	}
	return &ThinkingTool{instructions: instructions}
}

func (t *ThinkingTool) Name() string         { return "thinking" }
func (t *ThinkingTool) Instructions() string { return t.instructions }

func (t *ThinkingTool) Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{{
		Name:        "think",
		Description: "Record a private thought about the evaluation. Returns all thoughts recorded so far.",
		Parameters: objectSchema([]string{"thought"}, map[string]*genai.Schema{
			"thought": stringProp("The thought to record."),
		}),
	}}
}

func (t *ThinkingTool) Call(_ context.Context, function string, args map[string]any) (any, error) {
	if function != "think" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, function)
	}
	thought, err := requiredStringArg(args, "thought")
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.thoughts = append(t.thoughts, thought)

	return map[string]any{"thoughts": append([]string(nil), t.thoughts...)}, nil
}

func (t *ThinkingTool) Thoughts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.thoughts...)
}
