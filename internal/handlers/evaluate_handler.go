package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"alfredoptarigan/candilyzer/internal/logger"
	"alfredoptarigan/candilyzer/internal/models"
	"alfredoptarigan/candilyzer/internal/services"
)

const (
	eventReport = "report"
	eventError  = "error"
	eventDone   = "done"
)

type EvaluationHandler struct {
	evaluator services.EvaluatorService
	resumes   *services.ResumeReader
	logger    *zap.Logger
}

func NewEvaluationHandler(evaluator services.EvaluatorService, resumes *services.ResumeReader, log *zap.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		evaluator: evaluator,
		resumes:   resumes,
		logger:    logger.WithFields(log),
	}
}

// HandleMulti handles POST /evaluate/multi
func (h *EvaluationHandler) HandleMulti(c *fiber.Ctx) error {
	var form models.MultiCandidateForm
	if err := c.BodyParser(&form); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	req, err := services.ValidateMultiCandidateForm(&form)
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	return h.stream(c, req)
}

// HandleSingle handles POST /evaluate/single. The optional resume_file PDF is
// parsed and discarded before the agent starts.
func (h *EvaluationHandler) HandleSingle(c *fiber.Ctx) error {
	var form models.SingleCandidateForm
	if err := c.BodyParser(&form); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	req, err := services.ValidateSingleCandidateForm(&form, "")
	if err != nil {
		return respondServiceError(c, h.logger, err)
	}

	file, err := c.FormFile("resume_file")
	switch {
	case err == nil:
		if h.resumes == nil {
			return respondError(c, fiber.StatusBadRequest, "Resume uploads are disabled")
		}
		text, err := h.resumes.Read(file)
		if err != nil {
			h.logger.Warn("resume rejected", zap.Error(err))
			return respondServiceError(c, h.logger, err)
		}
		req.ResumeText = text
		if req.Resume == "" {
			req.Resume = file.Filename
		}
	case errors.Is(err, fasthttp.ErrMissingFile), errors.Is(err, fasthttp.ErrNoMultipartForm):
		// no upload
	default:
		return respondError(c, fiber.StatusBadRequest, "Invalid resume upload")
	}

	return h.stream(c, req)
}

func (h *EvaluationHandler) stream(c *fiber.Ctx, req *models.EvaluationRequest) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}
	log := h.logger.With(zap.String(logger.FieldSession, session.ID), zap.String(logger.FieldMode, string(req.Mode)))

	creds := session.Snapshot()
	if !creds.Complete() {
		return respondServiceError(c, log, services.ErrMissingCredentials)
	}

	if !session.TryAcquire() {
		return respondServiceError(c, log, services.ErrSessionBusy)
	}

	// The stream outlives the handler, so it cannot use the request context.
	seq, err := h.evaluator.Evaluate(context.Background(), creds, req)
	if err != nil {
		session.Release()
		return respondServiceError(c, log, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	renderer := services.RendererFor(req.Mode)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer session.Release()
		writeSSE(w, renderer, seq, log)
	})
	return nil
}

func writeSSE(w *bufio.Writer, renderer *services.ReportRenderer, seq iter.Seq2[models.Fragment, error], log *zap.Logger) {
	report, err := renderer.Consume(seq, &sseDisplay{w: w})
	if err != nil {
		log.Warn("evaluation stream ended with error", zap.Error(err))
		_ = writeEvent(w, eventError, models.StreamError{Error: err.Error()})
		return
	}
	_ = writeEvent(w, eventDone, models.ReportDone{Score: report.Score(), Markdown: report.Markdown()})
}

type sseDisplay struct {
	w *bufio.Writer
}

func (d *sseDisplay) Show(view models.ReportView) error {
	return writeEvent(d.w, eventReport, view)
}

func writeEvent(w *bufio.Writer, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
