package services

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/candilyzer/internal/logger"
	"alfredoptarigan/candilyzer/internal/models"
	"alfredoptarigan/candilyzer/internal/tools"
)

const (
	multiAgentName  = "StrictCandidateEvaluator"
	singleAgentName = "Candilyzer"

	multiThinkingInstructions = "Analyze GitHub candidates with strict criteria"
	singleTextLengthLimit     = 2000
)

type EvaluatorService interface {
	// Evaluate checks the credentials and returns the agent's fragment
	// sequence. Nothing is dispatched when credentials are incomplete.
	Evaluate(ctx context.Context, creds models.Credentials, req *models.EvaluationRequest) (iter.Seq2[models.Fragment, error], error)
}

type EvaluatorOptions struct {
	MultiModel    string
	SingleModel   string
	GitHubBaseURL string
	ExaBaseURL    string
	HTTPClient    *http.Client
}

type evaluatorService struct {
	agent         Agent
	promptBuilder *PromptBuilder
	opts          EvaluatorOptions
	metrics       *Metrics
	logger        *zap.Logger
}

func NewEvaluatorService(agent Agent, opts EvaluatorOptions, metrics *Metrics, log *zap.Logger) EvaluatorService {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &evaluatorService{
		agent:         agent,
		promptBuilder: NewPromptBuilder(),
		opts:          opts,
		metrics:       metrics,
		logger:        logger.WithFields(log),
	}
}

func (e *evaluatorService) Evaluate(ctx context.Context, creds models.Credentials, req *models.EvaluationRequest) (iter.Seq2[models.Fragment, error], error) {
	if !creds.Complete() {
		e.metrics.evaluationRejected(req.Mode)
		return nil, ErrMissingCredentials
	}

	run, err := e.buildRun(creds, req)
	if err != nil {
		return nil, err
	}

	log := logger.WithRun(e.logger, run.Name, run.Model).With(zap.String(logger.FieldMode, string(req.Mode)))
	log.Info("dispatching evaluation", zap.Strings("candidates", req.Candidates()), zap.String("role", req.Role))

	return e.observe(req.Mode, e.agent.Stream(ctx, run), log), nil
}

func (e *evaluatorService) buildRun(creds models.Credentials, req *models.EvaluationRequest) (*AgentRun, error) {
	templates, err := e.promptBuilder.Templates(req.Mode)
	if err != nil {
		return nil, err
	}
	task, err := e.promptBuilder.BuildTask(req)
	if err != nil {
		return nil, err
	}

	githubOpts := []tools.GitHubOption{tools.WithGitHubHTTPClient(e.opts.HTTPClient)}
	if e.opts.GitHubBaseURL != "" {
		githubOpts = append(githubOpts, tools.WithGitHubBaseURL(e.opts.GitHubBaseURL))
	}
	github, err := tools.NewGitHubTools(creds.GitHubToken, githubOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure github tools: %w", err)
	}

	exaOpts := []tools.ExaOption{tools.WithExaHTTPClient(e.opts.HTTPClient), tools.WithExaLogger(e.logger)}

	run := &AgentRun{
		APIKey:       creds.ModelAPIKey,
		Description:  templates.Description,
		Instructions: templates.Instructions,
		Task:         task,
	}

	switch req.Mode {
	case models.ModeMulti:
		run.Name = multiAgentName
		run.Model = e.opts.MultiModel
		run.Tools = []tools.Tool{
			tools.NewThinkingTool(multiThinkingInstructions, false),
			github,
			tools.NewExaTools(tools.ExaOptions{
				APIKey:         creds.SearchAPIKey,
				BaseURL:        e.opts.ExaBaseURL,
				IncludeDomains: []string{"github.com"},
				SearchType:     "keyword",
			}, exaOpts...),
			tools.NewReasoningTools(true),
		}
	case models.ModeSingle:
		run.Name = singleAgentName
		run.Model = e.opts.SingleModel
		run.AddDatetime = true
		run.Tools = []tools.Tool{
			tools.NewThinkingTool("", true),
			github,
			tools.NewExaTools(tools.ExaOptions{
				APIKey:          creds.SearchAPIKey,
				BaseURL:         e.opts.ExaBaseURL,
				IncludeDomains:  []string{"linkedin.com", "github.com"},
				SearchType:      "keyword",
				TextLengthLimit: singleTextLengthLimit,
				ShowResults:     true,
			}, exaOpts...),
			tools.NewReasoningTools(true),
		}
	}

	return run, nil
}

// observe records metrics and logs for a sequence without changing what it yields.
func (e *evaluatorService) observe(mode models.EvaluationMode, seq iter.Seq2[models.Fragment, error], log *zap.Logger) iter.Seq2[models.Fragment, error] {
	return func(yield func(models.Fragment, error) bool) {
		started := time.Now()
		outcome := outcomeAbandoned
		e.metrics.evaluationStarted(mode)
		defer func() {
			e.metrics.evaluationFinished(mode, outcome, time.Since(started))
			log.Info("evaluation finished", zap.String("outcome", outcome), zap.Duration("elapsed", time.Since(started)))
		}()

		for fragment, err := range seq {
			if err != nil {
				outcome = outcomeFailed
				log.Error("evaluation failed", zap.Error(err))
				yield(models.Fragment{}, err)
				return
			}
			e.metrics.fragmentStreamed(mode, fragment)
			if !yield(fragment, nil) {
				return
			}
		}
		outcome = outcomeCompleted
	}
}
