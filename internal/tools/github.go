package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"google.golang.org/genai"
)

const (
	readmeCharLimit = 4000
	maxListLimit    = 100
)

// GitHubTools lets the agent inspect users and repositories through the
// GitHub REST API using the session's token.
type GitHubTools struct {
	client *github.Client
}

type GitHubOption func(*githubOptions)

type githubOptions struct {
	httpClient *http.Client
	baseURL    string
}

func WithGitHubHTTPClient(client *http.Client) GitHubOption {
	return func(o *githubOptions) { o.httpClient = client }
}

// WithGitHubBaseURL points the client at another API root, e.g. a test server.
func WithGitHubBaseURL(baseURL string) GitHubOption {
	return func(o *githubOptions) { o.baseURL = baseURL }
}

func NewGitHubTools(token string, opts ...GitHubOption) (*GitHubTools, error) {
	var o githubOptions
	for _, opt := range opts {
		opt(&o)
	}

	client := github.NewClient(o.httpClient)
	if token = strings.TrimSpace(token); token != "" {
		client = client.WithAuthToken(token)
	}

	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		parsed, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid github base url: %w", err)
		}
		client.BaseURL = parsed
	}

	return &GitHubTools{client: client}, nil
}

func (g *GitHubTools) Name() string { return "github" }

func (g *GitHubTools) Instructions() string {
	return `Use the GitHub functions for every claim about a candidate's code. Repository names are "owner/name".
Forks are flagged with "fork": true and should not count as original work.`
}

func (g *GitHubTools) Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        "get_user_profile",
			Description: "Get a GitHub user's public profile: name, bio, company, followers and repository counts.",
			Parameters: objectSchema([]string{"username"}, map[string]*genai.Schema{
				"username": stringProp("GitHub login."),
			}),
		},
		{
			Name:        "list_user_repositories",
			Description: "List repositories owned by a user, most recently pushed first.",
			Parameters: objectSchema([]string{"username"}, map[string]*genai.Schema{
				"username":      stringProp("GitHub login."),
				"limit":         intProp("Maximum repositories to return (1-100, default 30)."),
				"include_forks": boolProp("Include forked repositories (default false)."),
			}),
		},
		{
			Name:        "get_repository",
			Description: "Get details of one repository.",
			Parameters: objectSchema([]string{"repository"}, map[string]*genai.Schema{
				"repository": stringProp("Repository in owner/name form."),
			}),
		},
		{
			Name:        "get_repository_languages",
			Description: "Get the language breakdown of a repository in bytes.",
			Parameters: objectSchema([]string{"repository"}, map[string]*genai.Schema{
				"repository": stringProp("Repository in owner/name form."),
			}),
		},
		{
			Name:        "get_repository_readme",
			Description: "Get the README of a repository (truncated).",
			Parameters: objectSchema([]string{"repository"}, map[string]*genai.Schema{
				"repository": stringProp("Repository in owner/name form."),
			}),
		},
		{
			Name:        "list_repository_commits",
			Description: "List the most recent commits of a repository.",
			Parameters: objectSchema([]string{"repository"}, map[string]*genai.Schema{
				"repository": stringProp("Repository in owner/name form."),
				"limit":      intProp("Maximum commits to return (1-100, default 20)."),
			}),
		},
		{
			Name:        "list_user_events",
			Description: "List a user's recent public activity (pushes, pull requests, issues, reviews).",
			Parameters: objectSchema([]string{"username"}, map[string]*genai.Schema{
				"username": stringProp("GitHub login."),
				"limit":    intProp("Maximum events to return (1-100, default 30)."),
			}),
		},
	}
}

type gitHubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Company     string `json:"company,omitempty"`
	Blog        string `json:"blog,omitempty"`
	Location    string `json:"location,omitempty"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	CreatedAt   string `json:"created_at,omitempty"`
	URL         string `json:"url,omitempty"`
}

type gitHubRepository struct {
	FullName      string   `json:"full_name"`
	Description   string   `json:"description,omitempty"`
	Language      string   `json:"language,omitempty"`
	Topics        []string `json:"topics,omitempty"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	Watchers      int      `json:"watchers"`
	OpenIssues    int      `json:"open_issues"`
	Fork          bool     `json:"fork"`
	Archived      bool     `json:"archived"`
	DefaultBranch string   `json:"default_branch,omitempty"`
	License       string   `json:"license,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
	PushedAt      string   `json:"pushed_at,omitempty"`
	URL           string   `json:"url,omitempty"`
}

type gitHubCommit struct {
	SHA     string `json:"sha"`
	Author  string `json:"author,omitempty"`
	Date    string `json:"date,omitempty"`
	Message string `json:"message"`
}

type gitHubEvent struct {
	Type       string `json:"type"`
	Repository string `json:"repository"`
	CreatedAt  string `json:"created_at,omitempty"`
}

func (g *GitHubTools) Call(ctx context.Context, function string, args map[string]any) (any, error) {
	switch function {
	case "get_user_profile":
		return g.getUserProfile(ctx, args)
	case "list_user_repositories":
		return g.listUserRepositories(ctx, args)
	case "get_repository":
		return g.getRepository(ctx, args)
	case "get_repository_languages":
		return g.getRepositoryLanguages(ctx, args)
	case "get_repository_readme":
		return g.getRepositoryReadme(ctx, args)
	case "list_repository_commits":
		return g.listRepositoryCommits(ctx, args)
	case "list_user_events":
		return g.listUserEvents(ctx, args)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, function)
}

func (g *GitHubTools) getUserProfile(ctx context.Context, args map[string]any) (any, error) {
	username, err := requiredStringArg(args, "username")
	if err != nil {
		return nil, err
	}

	user, _, err := g.client.Users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}

	return gitHubUser{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		Bio:         user.GetBio(),
		Company:     user.GetCompany(),
		Blog:        user.GetBlog(),
		Location:    user.GetLocation(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		CreatedAt:   formatTimestamp(user.GetCreatedAt()),
		URL:         user.GetHTMLURL(),
	}, nil
}

func (g *GitHubTools) listUserRepositories(ctx context.Context, args map[string]any) (any, error) {
	username, err := requiredStringArg(args, "username")
	if err != nil {
		return nil, err
	}
	limit := intArg(args, "limit", 30, maxListLimit)
	includeForks := boolArg(args, "include_forks")

	repos, _, err := g.client.Repositories.ListByUser(ctx, username, &github.RepositoryListByUserOptions{
		Type:        "owner",
		Sort:        "pushed",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("list repositories of %s: %w", username, err)
	}

	result := make([]gitHubRepository, 0, len(repos))
	for _, repo := range repos {
		if repo.GetFork() && !includeForks {
			continue
		}
		result = append(result, toRepository(repo))
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (g *GitHubTools) getRepository(ctx context.Context, args map[string]any) (any, error) {
	owner, name, err := repositoryArg(args)
	if err != nil {
		return nil, err
	}

	repo, _, err := g.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("get repository %s/%s: %w", owner, name, err)
	}
	return toRepository(repo), nil
}

func (g *GitHubTools) getRepositoryLanguages(ctx context.Context, args map[string]any) (any, error) {
	owner, name, err := repositoryArg(args)
	if err != nil {
		return nil, err
	}

	languages, _, err := g.client.Repositories.ListLanguages(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("list languages of %s/%s: %w", owner, name, err)
	}
	return languages, nil
}

func (g *GitHubTools) getRepositoryReadme(ctx context.Context, args map[string]any) (any, error) {
	owner, name, err := repositoryArg(args)
	if err != nil {
		return nil, err
	}

	readme, _, err := g.client.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		return nil, fmt.Errorf("get readme of %s/%s: %w", owner, name, err)
	}

	content, err := readme.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode readme of %s/%s: %w", owner, name, err)
	}

	return map[string]any{
		"path":      readme.GetPath(),
		"content":   truncate(content, readmeCharLimit),
		"truncated": len([]rune(content)) > readmeCharLimit,
	}, nil
}

func (g *GitHubTools) listRepositoryCommits(ctx context.Context, args map[string]any) (any, error) {
	owner, name, err := repositoryArg(args)
	if err != nil {
		return nil, err
	}
	limit := intArg(args, "limit", 20, maxListLimit)

	commits, _, err := g.client.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("list commits of %s/%s: %w", owner, name, err)
	}

	result := make([]gitHubCommit, 0, len(commits))
	for _, c := range commits {
		message, _, _ := strings.Cut(c.GetCommit().GetMessage(), "\n")
		author := c.GetAuthor().GetLogin()
		if author == "" {
			author = c.GetCommit().GetAuthor().GetName()
		}
		result = append(result, gitHubCommit{
			SHA:     truncate(c.GetSHA(), 7),
			Author:  author,
			Date:    formatTimestamp(c.GetCommit().GetAuthor().GetDate()),
			Message: message,
		})
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (g *GitHubTools) listUserEvents(ctx context.Context, args map[string]any) (any, error) {
	username, err := requiredStringArg(args, "username")
	if err != nil {
		return nil, err
	}
	limit := intArg(args, "limit", 30, maxListLimit)

	events, _, err := g.client.Activity.ListEventsPerformedByUser(ctx, username, true, &github.ListOptions{PerPage: limit})
	if err != nil {
		return nil, fmt.Errorf("list events of %s: %w", username, err)
	}

	result := make([]gitHubEvent, 0, len(events))
	for _, e := range events {
		result = append(result, gitHubEvent{
			Type:       e.GetType(),
			Repository: e.GetRepo().GetName(),
			CreatedAt:  formatTimestamp(e.GetCreatedAt()),
		})
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func repositoryArg(args map[string]any) (string, string, error) {
	fullName, err := requiredStringArg(args, "repository")
	if err != nil {
		return "", "", err
	}
	return splitFullName(fullName)
}

func toRepository(repo *github.Repository) gitHubRepository {
	return gitHubRepository{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Language:      repo.GetLanguage(),
		Topics:        repo.Topics,
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Watchers:      repo.GetWatchersCount(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		Fork:          repo.GetFork(),
		Archived:      repo.GetArchived(),
		DefaultBranch: repo.GetDefaultBranch(),
		License:       repo.GetLicense().GetSPDXID(),
		CreatedAt:     formatTimestamp(repo.GetCreatedAt()),
		PushedAt:      formatTimestamp(repo.GetPushedAt()),
		URL:           repo.GetHTMLURL(),
	}
}

func formatTimestamp(ts github.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
