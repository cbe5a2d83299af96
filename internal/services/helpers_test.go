package services

import (
	"context"
	"iter"
	"sync"

	"alfredoptarigan/candilyzer/internal/models"
)

// stubAgent replays fixed fragments and records every run it receives.
type stubAgent struct {
	mu        sync.Mutex
	runs      []*AgentRun
	fragments []models.Fragment
	err       error
}

func (s *stubAgent) Stream(_ context.Context, run *AgentRun) iter.Seq2[models.Fragment, error] {
	s.mu.Lock()
	s.runs = append(s.runs, run)
	s.mu.Unlock()

	return func(yield func(models.Fragment, error) bool) {
		for _, f := range s.fragments {
			if !yield(f, nil) {
				return
			}
		}
		if s.err != nil {
			yield(models.Fragment{}, s.err)
		}
	}
}

func (s *stubAgent) Runs() []*AgentRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*AgentRun(nil), s.runs...)
}

type recordingDisplay struct {
	views []models.ReportView
	err   error
}

func (d *recordingDisplay) Show(view models.ReportView) error {
	if d.err != nil {
		return d.err
	}
	d.views = append(d.views, view)
	return nil
}

func (d *recordingDisplay) markdowns() []string {
	out := make([]string, 0, len(d.views))
	for _, v := range d.views {
		out = append(out, v.Markdown)
	}
	return out
}

func fragmentsOf(seq iter.Seq2[models.Fragment, error]) ([]models.Fragment, []error) {
	var fragments []models.Fragment
	var errs []error
	for f, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fragments = append(fragments, f)
	}
	return fragments, errs
}

func completeCredentials() models.Credentials {
	return models.Credentials{ModelAPIKey: "model-key", GitHubToken: "gh-token", SearchAPIKey: "exa-key"}
}
