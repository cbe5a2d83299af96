package services

import (
	"context"
	"iter"
	"strings"
	"time"

	"alfredoptarigan/candilyzer/internal/models"
	"alfredoptarigan/candilyzer/internal/tools"
)

// Agent is the model boundary. Stream runs one task and yields fragments in
// arrival order. The sequence is finite, cannot be restarted, and ends after
// the first error.
type Agent interface {
	Stream(ctx context.Context, run *AgentRun) iter.Seq2[models.Fragment, error]
}

// AgentRun describes one submission for the agent.
type AgentRun struct {
	Name         string
	Model        string
	APIKey       string
	Description  string
	Instructions string
	Task         string
	Tools        []tools.Tool
	// AddDatetime appends the current date and time to the instructions.
	AddDatetime bool
}

// SystemInstruction joins the description, instructions and tool guidance.
func (r *AgentRun) SystemInstruction(now time.Time, toolInstructions string) string {
	var sections []string
	for _, s := range []string{r.Description, r.Instructions, toolInstructions} {
		if s = strings.TrimSpace(s); s != "" {
			sections = append(sections, s)
		}
	}
	if r.AddDatetime {
		sections = append(sections, "The current time is "+now.Format(time.RFC1123)+".")
	}
	sections = append(sections, "Write the final report in markdown.")
	return strings.Join(sections, "\n\n")
}
