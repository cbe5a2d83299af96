package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/candilyzer/internal/models"
)

func TestExtractScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"labelled score", "Score: 82/100", 82},
		{"no literal /100", "82 out of 100", 0},
		{"first match wins", "alice 7/100 then bob 93/100", 7},
		{"empty", "", 0},
		{"clamped", "Score: 250/100", 100},
		{"exactly 100", "**Score: 100/100**", 100},
		{"only the last three digits count", "12345/100", 100},
		{"three digits before the slash", "Total 1065/100", 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractScore(tt.text))
			assert.Equal(t, tt.want, ExtractScore(tt.text))
		})
	}
}

func TestConsumeAccumulatesInOrder(t *testing.T) {
	agent := &stubAgent{fragments: []models.Fragment{
		models.ContentFragment("Hello, "),
		{Kind: models.FragmentStatus, Text: "model turn 2"},
		{Kind: models.FragmentToolCall, Tool: "think", Text: `{"thought":"x"}`},
		{Kind: models.FragmentThought, Text: "hidden"},
		models.ContentFragment("world"),
	}}
	display := &recordingDisplay{}

	report, err := NewReportRenderer(false).Consume(agent.Stream(t.Context(), &AgentRun{}), display)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello, ", "Hello, world"}, display.markdowns())
	assert.Equal(t, "Hello, world", report.Markdown())
	assert.True(t, report.Frozen())
	assert.Equal(t, 0, report.Score())
	assert.Contains(t, display.views[1].HTML, "Hello, world")
}

func TestConsumeStopsAtFirstError(t *testing.T) {
	upstream := errors.New("quota exceeded")
	agent := &stubAgent{
		fragments: []models.Fragment{models.ContentFragment("Score: 40/100 so far")},
		err:       upstream,
	}
	display := &recordingDisplay{}

	report, err := NewReportRenderer(true).Consume(agent.Stream(t.Context(), &AgentRun{}), display)
	require.ErrorIs(t, err, upstream)
	assert.True(t, report.Frozen())
	assert.Equal(t, "Score: 40/100 so far", report.Markdown())
	assert.Equal(t, 40, report.Score())
	assert.Len(t, display.views, 1)
}

func TestConsumeReportsDisplayFailure(t *testing.T) {
	agent := &stubAgent{fragments: []models.Fragment{models.ContentFragment("a"), models.ContentFragment("b")}}

	report, err := NewReportRenderer(false).Consume(agent.Stream(t.Context(), &AgentRun{}), &recordingDisplay{err: errors.New("closed")})
	require.Error(t, err)
	assert.Equal(t, "a", report.Markdown())
}

func TestRendererHTMLPolicy(t *testing.T) {
	markdown := "# Report\n\n<div class=\"x\">raw</div>\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"

	unsafe, err := RendererFor(models.ModeMulti).Render(markdown)
	require.NoError(t, err)
	assert.Contains(t, unsafe, `<div class="x">raw</div>`)
	assert.Contains(t, unsafe, "<table>")

	safe, err := RendererFor(models.ModeSingle).Render(markdown)
	require.NoError(t, err)
	assert.NotContains(t, safe, `<div class="x">`)
	assert.Contains(t, safe, "<h1>Report</h1>")

	again, err := RendererFor(models.ModeSingle).Render(markdown)
	require.NoError(t, err)
	assert.Equal(t, safe, again)
}
