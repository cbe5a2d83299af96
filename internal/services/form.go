package services

import (
	"strings"

	"alfredoptarigan/candilyzer/internal/models"
)

const (
	msgMultiRequired  = "Please enter both usernames and job role."
	msgSingleRequired = "GitHub username and job role are required."
)

// ParseUsernames splits on newlines, trims each line and drops blank ones.
// Order and duplicates are kept.
func ParseUsernames(input string) []string {
	var usernames []string
	for _, line := range strings.Split(input, "\n") {
		if u := strings.TrimSpace(line); u != "" {
			usernames = append(usernames, u)
		}
	}
	return usernames
}

func ValidateMultiCandidateForm(form *models.MultiCandidateForm) (*models.EvaluationRequest, error) {
	usernames := ParseUsernames(form.Usernames)
	role := strings.TrimSpace(form.Role)
	if len(usernames) == 0 || role == "" {
		return nil, validationError(msgMultiRequired)
	}

	level, ok := models.ParseRoleLevel(form.Level)
	if !ok {
		return nil, validationError("Role level must be one of Any, Junior, Mid, Senior.")
	}

	return &models.EvaluationRequest{
		Mode:      models.ModeMulti,
		Usernames: usernames,
		Role:      role,
		Skills:    strings.TrimSpace(form.Skills),
		Level:     level,
	}, nil
}

// ValidateSingleCandidateForm passes the LinkedIn URL and resume reference
// through untouched. resumeText is the text extracted from an uploaded PDF, if any.
func ValidateSingleCandidateForm(form *models.SingleCandidateForm, resumeText string) (*models.EvaluationRequest, error) {
	username := strings.TrimSpace(form.Username)
	role := strings.TrimSpace(form.Role)
	if username == "" || role == "" {
		return nil, validationError(msgSingleRequired)
	}

	return &models.EvaluationRequest{
		Mode:        models.ModeSingle,
		Username:    username,
		Role:        role,
		LinkedInURL: form.LinkedInURL,
		Resume:      form.Resume,
		ResumeText:  resumeText,
	}, nil
}
