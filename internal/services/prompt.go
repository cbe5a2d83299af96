package services

import (
	_ "embed"
	"fmt"
	"strings"

	"alfredoptarigan/candilyzer/internal/models"
)

var (
	//go:embed prompts/multi_description.md
	multiDescription string
	//go:embed prompts/multi_instructions.md
	multiInstructions string
	//go:embed prompts/single_description.md
	singleDescription string
	//go:embed prompts/single_instructions.md
	singleInstructions string
)

const resumeTextLimit = 12000

// Templates is the description and instruction text handed to the agent.
type Templates struct {
	Description  string
	Instructions string
}

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Templates returns the fixed template pair for mode.
func (pb *PromptBuilder) Templates(mode models.EvaluationMode) (Templates, error) {
	switch mode {
	case models.ModeMulti:
		return Templates{Description: strings.TrimSpace(multiDescription), Instructions: strings.TrimSpace(multiInstructions)}, nil
	case models.ModeSingle:
		return Templates{Description: strings.TrimSpace(singleDescription), Instructions: strings.TrimSpace(singleInstructions)}, nil
	}
	return Templates{}, fmt.Errorf("unknown evaluation mode %q", mode)
}

// BuildTask renders the user message for one submission.
func (pb *PromptBuilder) BuildTask(req *models.EvaluationRequest) (string, error) {
	switch req.Mode {
	case models.ModeMulti:
		return pb.buildMultiTask(req), nil
	case models.ModeSingle:
		return pb.buildSingleTask(req), nil
	}
	return "", fmt.Errorf("unknown evaluation mode %q", req.Mode)
}

func (pb *PromptBuilder) buildMultiTask(req *models.EvaluationRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate GitHub candidates for the role '%s': %s", req.Role, strings.Join(req.Usernames, ", "))
	if req.Skills != "" {
		fmt.Fprintf(&b, "\nRequired skills: %s.", strings.TrimSuffix(req.Skills, "."))
	}
	if req.Level != "" && req.Level != models.LevelAny {
		fmt.Fprintf(&b, "\nRole level: %s.", req.Level)
	}
	return b.String()
}

func (pb *PromptBuilder) buildSingleTask(req *models.EvaluationRequest) string {
	input := fmt.Sprintf("GitHub: %s, Role: %s", req.Username, req.Role)
	if req.LinkedInURL != "" {
		input += ", LinkedIn: " + req.LinkedInURL
	}
	if req.Resume != "" {
		input += ", Resume: " + req.Resume
	}

	task := fmt.Sprintf("Analyze candidate for %s. %s. Provide a score and a detailed, combined final report.", req.Role, input)

	if text := CleanText(req.ResumeText); text != "" {
		if len([]rune(text)) > resumeTextLimit {
			text = string([]rune(text)[:resumeTextLimit]) + "\n[resume truncated]"
		}
		task += "\n\n<resume>\n" + text + "\n</resume>"
	}
	return task
}
