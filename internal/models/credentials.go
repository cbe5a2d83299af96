package models

import "strings"

// CredentialKind names one of the three secrets a session must hold.
type CredentialKind string

const (
	CredentialModel  CredentialKind = "model"
	CredentialGitHub CredentialKind = "github"
	CredentialSearch CredentialKind = "search"
)

var credentialKinds = []CredentialKind{CredentialModel, CredentialGitHub, CredentialSearch}

// Credentials holds the model API key, the GitHub token and the search API key.
// Values never leave the process: they are not logged and not serialized.
type Credentials struct {
	ModelAPIKey  string `json:"-"`
	GitHubToken  string `json:"-"`
	SearchAPIKey string `json:"-"`
}

// Get returns the secret for kind, or "" when it is unset or kind is unknown.
func (c Credentials) Get(kind CredentialKind) string {
	switch kind {
	case CredentialModel:
		return c.ModelAPIKey
	case CredentialGitHub:
		return c.GitHubToken
	case CredentialSearch:
		return c.SearchAPIKey
	}
	return ""
}

// Set stores value (trimmed) for kind. It reports false for an unknown kind.
func (c *Credentials) Set(kind CredentialKind, value string) bool {
	value = strings.TrimSpace(value)
	switch kind {
	case CredentialModel:
		c.ModelAPIKey = value
	case CredentialGitHub:
		c.GitHubToken = value
	case CredentialSearch:
		c.SearchAPIKey = value
	default:
		return false
	}
	return true
}

// Missing lists the kinds that are still empty, in a stable order.
func (c Credentials) Missing() []CredentialKind {
	var missing []CredentialKind
	for _, kind := range credentialKinds {
		if c.Get(kind) == "" {
			missing = append(missing, kind)
		}
	}
	return missing
}

func (c Credentials) Complete() bool {
	return len(c.Missing()) == 0
}

// Status reports presence only.
func (c Credentials) Status() CredentialStatus {
	return CredentialStatus{
		Model:    c.ModelAPIKey != "",
		GitHub:   c.GitHubToken != "",
		Search:   c.SearchAPIKey != "",
		Complete: c.Complete(),
	}
}
