package models

type CredentialStatus struct {
	Model    bool `json:"model"`
	GitHub   bool `json:"github"`
	Search   bool `json:"search"`
	Complete bool `json:"complete"`
}

type CredentialsUpdate struct {
	ModelAPIKey  *string `json:"model_api_key"`
	GitHubToken  *string `json:"github_token"`
	SearchAPIKey *string `json:"search_api_key"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// ReportView is one rendering of the report buffer.
type ReportView struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
}

type ReportDone struct {
	Score    int    `json:"score"`
	Markdown string `json:"markdown"`
}

type StreamError struct {
	Error string `json:"error"`
}
