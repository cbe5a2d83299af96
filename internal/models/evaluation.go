package models

import "strings"

type EvaluationMode string

const (
	ModeMulti  EvaluationMode = "multi"
	ModeSingle EvaluationMode = "single"
)

type RoleLevel string

const (
	LevelAny    RoleLevel = "Any"
	LevelJunior RoleLevel = "Junior"
	LevelMid    RoleLevel = "Mid"
	LevelSenior RoleLevel = "Senior"
)

var RoleLevels = []RoleLevel{LevelAny, LevelJunior, LevelMid, LevelSenior}

// ParseRoleLevel accepts any casing. An empty value means LevelAny.
func ParseRoleLevel(value string) (RoleLevel, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return LevelAny, true
	}
	for _, level := range RoleLevels {
		if strings.EqualFold(value, string(level)) {
			return level, true
		}
	}
	return "", false
}

// EvaluationRequest is built once per submission and dropped when the
// stream ends.
type EvaluationRequest struct {
	Mode EvaluationMode

	// Multi-candidate fields.
	Usernames []string
	Skills    string
	Level     RoleLevel

	// Single-candidate fields.
	Username    string
	Resume      string
	ResumeText  string
	LinkedInURL string

	Role string
}

// Candidates returns the GitHub usernames the request covers, in order.
func (r *EvaluationRequest) Candidates() []string {
	if r.Mode == ModeSingle {
		return []string{r.Username}
	}
	return r.Usernames
}

type MultiCandidateForm struct {
	Usernames string `json:"usernames" form:"usernames"`
	Role      string `json:"role" form:"role"`
	Skills    string `json:"skills" form:"skills"`
	Level     string `json:"level" form:"level"`
}

type SingleCandidateForm struct {
	Username    string `json:"username" form:"username"`
	Role        string `json:"role" form:"role"`
	LinkedInURL string `json:"linkedin_url" form:"linkedin_url"`
	Resume      string `json:"resume" form:"resume"`
}
