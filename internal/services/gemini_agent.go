package services

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/candilyzer/internal/logger"
	"alfredoptarigan/candilyzer/internal/models"
	"alfredoptarigan/candilyzer/internal/tools"
)

const defaultMaxSteps = 12

// ContentStreamer is the subset of genai.Models the agent needs.
type ContentStreamer interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// StreamerFactory builds a streamer for one API key. Keys are per session, so
// a client is created for every run.
type StreamerFactory func(ctx context.Context, apiKey string) (ContentStreamer, error)

func NewGenAIStreamer(ctx context.Context, apiKey string) (ContentStreamer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client.Models, nil
}

type GeminiAgentOptions struct {
	MaxSteps      int
	PreviewLength int
	Now           func() time.Time
}

// GeminiAgent streams model output and runs the function calls the model
// asks for until it answers without calling a tool.
type GeminiAgent struct {
	newStreamer StreamerFactory
	opts        GeminiAgentOptions
	logger      *zap.Logger
}

func NewGeminiAgent(factory StreamerFactory, opts GeminiAgentOptions, log *zap.Logger) *GeminiAgent {
	if factory == nil {
		factory = NewGenAIStreamer
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = defaultMaxSteps
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = 200
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &GeminiAgent{newStreamer: factory, opts: opts, logger: logger.WithFields(log)}
}

func (a *GeminiAgent) Stream(ctx context.Context, run *AgentRun) iter.Seq2[models.Fragment, error] {
	return func(yield func(models.Fragment, error) bool) {
		log := logger.WithRun(a.logger, run.Name, run.Model)

		box, err := tools.NewToolbox(run.Tools...)
		if err != nil {
			yield(models.Fragment{}, fmt.Errorf("invalid tool set: %w", err))
			return
		}

		streamer, err := a.newStreamer(ctx, run.APIKey)
		if err != nil {
			yield(models.Fragment{}, err)
			return
		}

		config := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(run.SystemInstruction(a.opts.Now(), box.Instructions()), genai.RoleUser),
			Tools:             box.GenAITools(),
			ThinkingConfig:    &genai.ThinkingConfig{IncludeThoughts: true},
		}
		contents := []*genai.Content{genai.NewContentFromText(run.Task, genai.RoleUser)}

		log.Info("agent run started", zap.Strings("functions", box.Functions()))

		for step := 1; step <= a.opts.MaxSteps; step++ {
			if !yield(models.Fragment{Kind: models.FragmentStatus, Text: fmt.Sprintf("model turn %d", step)}, nil) {
				return
			}

			var modelParts []*genai.Part
			var calls []*genai.FunctionCall

			for resp, err := range streamer.GenerateContentStream(ctx, run.Model, contents, config) {
				if err != nil {
					log.Error("model stream failed", zap.Int("step", step), zap.Error(err))
					yield(models.Fragment{}, fmt.Errorf("model stream failed: %w", err))
					return
				}

				for _, part := range responseParts(resp) {
					modelParts = append(modelParts, part)

					var fragment models.Fragment
					switch {
					case part.FunctionCall != nil:
						calls = append(calls, part.FunctionCall)
						continue
					case part.Thought:
						fragment = models.Fragment{Kind: models.FragmentThought, Text: part.Text}
					case part.Text != "":
						fragment = models.ContentFragment(part.Text)
					default:
						continue
					}
					if !yield(fragment, nil) {
						return
					}
				}
			}

			if len(calls) == 0 {
				log.Info("agent run finished", zap.Int("steps", step))
				return
			}

			contents = append(contents, genai.NewContentFromParts(modelParts, genai.RoleModel))

			responses := make([]*genai.Part, 0, len(calls))
			for _, call := range calls {
				if !yield(models.Fragment{Kind: models.FragmentToolCall, Tool: call.Name, Text: a.preview(call.Args)}, nil) {
					return
				}

				result, err := box.Invoke(ctx, call.Name, call.Args)
				if err != nil {
					log.Warn("tool call failed", zap.String("function", call.Name), zap.String("tool", box.Owner(call.Name)), zap.Error(err))
				} else {
					log.Debug("tool call completed", zap.String("function", call.Name), zap.String("tool", box.Owner(call.Name)))
				}

				part := genai.NewPartFromFunctionResponse(call.Name, result)
				part.FunctionResponse.ID = call.ID
				responses = append(responses, part)

				if !yield(models.Fragment{Kind: models.FragmentToolResult, Tool: call.Name, Failed: err != nil, Text: a.preview(result)}, nil) {
					return
				}
			}

			contents = append(contents, genai.NewContentFromParts(responses, genai.RoleUser))
		}

		log.Warn("agent run hit the step limit", zap.Int("max_steps", a.opts.MaxSteps))
		yield(models.Fragment{}, fmt.Errorf("%w (%d)", ErrStepLimit, a.opts.MaxSteps))
	}
}

func (a *GeminiAgent) preview(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return logger.TruncateForLog(string(raw), a.opts.PreviewLength)
}

func responseParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var parts []*genai.Part
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			parts = append(parts, part)
		}
	}
	return parts
}
