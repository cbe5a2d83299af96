package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/candilyzer/internal/models"
)

func TestPromptTemplates(t *testing.T) {
	pb := NewPromptBuilder()

	multi, err := pb.Templates(models.ModeMulti)
	require.NoError(t, err)
	assert.Contains(t, multi.Instructions, "Score: {score}/100")
	assert.Contains(t, multi.Instructions, "Strong Fit")

	single, err := pb.Templates(models.ModeSingle)
	require.NoError(t, err)
	assert.Contains(t, single.Instructions, "| GitHub Technical Mastery | 45 |")
	assert.Contains(t, single.Instructions, "| LinkedIn Professional Credibility | 30 |")
	assert.Contains(t, single.Instructions, "| Resume Integrity & Alignment | 25 |")
	assert.NotEqual(t, multi.Description, single.Description)

	_, err = pb.Templates("batch")
	require.Error(t, err)
}

func TestBuildMultiTask(t *testing.T) {
	pb := NewPromptBuilder()

	task, err := pb.BuildTask(&models.EvaluationRequest{
		Mode:      models.ModeMulti,
		Usernames: []string{"alice", "bob", "alice"},
		Role:      "Backend Engineer",
		Level:     models.LevelAny,
	})
	require.NoError(t, err)
	assert.Equal(t, "Evaluate GitHub candidates for the role 'Backend Engineer': alice, bob, alice", task)

	task, err = pb.BuildTask(&models.EvaluationRequest{
		Mode:      models.ModeMulti,
		Usernames: []string{"alice"},
		Role:      "SRE",
		Skills:    "Go, Kubernetes.",
		Level:     models.LevelSenior,
	})
	require.NoError(t, err)
	assert.Equal(t, "Evaluate GitHub candidates for the role 'SRE': alice\nRequired skills: Go, Kubernetes.\nRole level: Senior.", task)
}

func TestBuildSingleTask(t *testing.T) {
	pb := NewPromptBuilder()

	task, err := pb.BuildTask(&models.EvaluationRequest{Mode: models.ModeSingle, Username: "octocat", Role: "Backend Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Analyze candidate for Backend Engineer. GitHub: octocat, Role: Backend Engineer. Provide a score and a detailed, combined final report.", task)

	task, err = pb.BuildTask(&models.EvaluationRequest{
		Mode:        models.ModeSingle,
		Username:    "octocat",
		Role:        "ML Engineer",
		LinkedInURL: "https://linkedin.com/in/octocat",
		Resume:      "cv.pdf",
		ResumeText:  "  Senior engineer  \n\n\n  Go, Python ",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(task, "Analyze candidate for ML Engineer. GitHub: octocat, Role: ML Engineer, LinkedIn: https://linkedin.com/in/octocat, Resume: cv.pdf. Provide"))
	assert.True(t, strings.HasSuffix(task, "<resume>\nSenior engineer\nGo, Python\n</resume>"))
}

func TestBuildSingleTaskTruncatesLongResume(t *testing.T) {
	task, err := NewPromptBuilder().BuildTask(&models.EvaluationRequest{
		Mode:       models.ModeSingle,
		Username:   "octocat",
		Role:       "SRE",
		ResumeText: strings.Repeat("x", resumeTextLimit+10),
	})
	require.NoError(t, err)
	assert.Contains(t, task, "[resume truncated]")
	assert.NotContains(t, task, strings.Repeat("x", resumeTextLimit+1))
}
