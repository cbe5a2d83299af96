package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const reasoningInstructions = `You have access to the "reason" and "analyze" functions for step-by-step reasoning.
- Call "reason" before acting to state the current step, your plan and your confidence.
- Call "analyze" after each tool result to judge it and choose the next action:
  "continue" (more evidence needed), "validate" (cross-check a claim) or "final_answer".
- Only write the final report after an "analyze" step with next_action "final_answer".`

var nextActions = map[string]bool{"continue": true, "validate": true, "final_answer": true}

type ReasoningStep struct {
	Kind       string  `json:"kind"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Action     string  `json:"action,omitempty"`
	NextAction string  `json:"next_action,omitempty"`
	Confidence float64 `json:"confidence"`
}

type ReasoningTools struct {
	addInstructions bool

	mu    sync.Mutex
	steps []ReasoningStep
}

func NewReasoningTools(addInstructions bool) *ReasoningTools {
	return &ReasoningTools{addInstructions: addInstructions}
}

func (r *ReasoningTools) Name() string { return "reasoning" }

func (r *ReasoningTools) Instructions() string {
	if !r.addInstructions {
		return ""
	}
	return reasoningInstructions
}

func (r *ReasoningTools) Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        "reason",
			Description: "Record a reasoning step: what you are about to do and why.",
			Parameters: objectSchema([]string{"title", "thought"}, map[string]*genai.Schema{
				"title":      stringProp("Short title of the step."),
				"thought":    stringProp("Detailed reasoning for the step."),
				"action":     stringProp("What you will do next."),
				"confidence": {Type: genai.TypeNumber, Description: "Confidence between 0 and 1."},
			}),
		},
		{
			Name:        "analyze",
			Description: "Analyze the result of a previous step and decide the next action.",
			Parameters: objectSchema([]string{"title", "result", "analysis"}, map[string]*genai.Schema{
				"title":       stringProp("Short title of the analysis."),
				"result":      stringProp("The outcome being analyzed."),
				"analysis":    stringProp("Your analysis of the outcome."),
				"next_action": {Type: genai.TypeString, Enum: []string{"continue", "validate", "final_answer"}},
				"confidence":  {Type: genai.TypeNumber, Description: "Confidence between 0 and 1."},
			}),
		},
	}
}

func (r *ReasoningTools) Call(_ context.Context, function string, args map[string]any) (any, error) {
	title, err := requiredStringArg(args, "title")
	if err != nil {
		return nil, err
	}

	step := ReasoningStep{Kind: function, Title: title, Confidence: confidenceArg(args)}

	switch function {
	case "reason":
		if step.Content, err = requiredStringArg(args, "thought"); err != nil {
			return nil, err
		}
		step.Action = stringArg(args, "action")
	case "analyze":
		result, err := requiredStringArg(args, "result")
		if err != nil {
			return nil, err
		}
		analysis, err := requiredStringArg(args, "analysis")
		if err != nil {
			return nil, err
		}
		step.Content = fmt.Sprintf("Result: %s\nAnalysis: %s", result, analysis)
		step.NextAction = strings.ToLower(stringArg(args, "next_action"))
		if step.NextAction == "" {
			step.NextAction = "continue"
		}
		if !nextActions[step.NextAction] {
			return nil, fmt.Errorf("next_action must be one of continue, validate, final_answer; got %q", step.NextAction)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, function)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)

	return map[string]any{"reasoning_steps": append([]ReasoningStep(nil), r.steps...)}, nil
}

func (r *ReasoningTools) Steps() []ReasoningStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ReasoningStep(nil), r.steps...)
}

func confidenceArg(args map[string]any) float64 {
	v, ok := args["confidence"].(float64)
	if !ok {
		return 0.8
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
