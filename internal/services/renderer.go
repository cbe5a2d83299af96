package services

import (
	"bytes"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"alfredoptarigan/candilyzer/internal/models"
)

var scorePattern = regexp.MustCompile(`(\d{1,3})/100`)

// ExtractScore returns the number in the first "<n>/100" match, clamped to
// 100. Text without a match scores 0.
func ExtractScore(text string) int {
	match := scorePattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	score, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return min(score, 100)
}

// Display receives every rendering of the report as it grows.
type Display interface {
	Show(view models.ReportView) error
}

// Report is the markdown buffer of one submission. It only grows and is
// frozen once the stream ends.
type Report struct {
	buf    strings.Builder
	frozen bool
	score  int
}

func (r *Report) append(text string) error {
	if r.frozen {
		return fmt.Errorf("report is frozen")
	}
	r.buf.WriteString(text)
	return nil
}

func (r *Report) freeze() {
	if r.frozen {
		return
	}
	r.frozen = true
	r.score = ExtractScore(r.buf.String())
}

func (r *Report) Markdown() string { return r.buf.String() }
func (r *Report) Frozen() bool     { return r.frozen }

// Score is only meaningful once the report is frozen.
func (r *Report) Score() int { return r.score }

type ReportRenderer struct {
	md goldmark.Markdown
}

// NewReportRenderer renders GitHub-flavored markdown. Raw HTML passes through
// only when allowHTML is set.
func NewReportRenderer(allowHTML bool) *ReportRenderer {
	var rendererOpts []goldmark.Option
	if allowHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	rendererOpts = append(rendererOpts, goldmark.WithExtensions(extension.GFM))
	return &ReportRenderer{md: goldmark.New(rendererOpts...)}
}

// RendererFor picks the HTML policy of the mode.
func RendererFor(mode models.EvaluationMode) *ReportRenderer {
	return NewReportRenderer(mode == models.ModeMulti)
}

func (rr *ReportRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := rr.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Consume drains seq into a new report. Each text fragment is appended and
// the whole buffer is re-rendered to display. Other fragments are skipped.
// On an upstream error the partial report is frozen and returned together
// with the error, and nothing further is read.
func (rr *ReportRenderer) Consume(seq iter.Seq2[models.Fragment, error], display Display) (*Report, error) {
	report := &Report{}
	defer report.freeze()

	for fragment, err := range seq {
		if err != nil {
			return report, err
		}
		if !fragment.IsText() || fragment.Text == "" {
			continue
		}
		if err := report.append(fragment.Text); err != nil {
			return report, err
		}

		markdown := report.Markdown()
		rendered, err := rr.Render(markdown)
		if err != nil {
			return report, err
		}
		if err := display.Show(models.ReportView{Markdown: markdown, HTML: rendered}); err != nil {
			return report, fmt.Errorf("display failed: %w", err)
		}
	}
	return report, nil
}
