package lead

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/quotenest/quotenest-api/internal/observability/metrics"
	"github.com/quotenest/quotenest-api/internal/ratelimit"
	"github.com/quotenest/quotenest-api/pkg/logging"
)

// MaxRequestSize caps the submission body at 1 MiB.
const MaxRequestSize = 1 << 20

// OriginVerifier checks the request's declared origin.
type OriginVerifier interface {
	Verify(r *http.Request) bool
}

// BotVerifier checks a client-supplied verification token.
type BotVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) bool
}

// SummaryGenerator produces the optional AI summary for a validated lead.
type SummaryGenerator interface {
	Generate(ctx context.Context, sub *Submission) (*Summary, error)
}

// Mailer dispatches the internal lead notification email.
type Mailer interface {
	Configured() bool
	SendLead(ctx context.Context, sub *Submission, summary *Summary) error
}

// HandlerConfig wires the submission pipeline's collaborators.
type HandlerConfig struct {
	Origin    OriginVerifier
	Limiter   *ratelimit.Limiter
	Verifier  BotVerifier
	Generator SummaryGenerator
	Mailer    Mailer
	Repo      Repository
	Metrics   *metrics.LeadMetrics

	// VerifyBots enables the bot-verification step. Outside production it
	// stays off unless explicitly enabled.
	VerifyBots bool

	Logger *logging.Logger
}

// Handler orchestrates the guarded lead submission pipeline.
type Handler struct {
	cfg HandlerConfig
}

// NewHandler creates a lead handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{cfg: cfg}
}

// Submit handles POST /api/lead. Checks run in a fixed order and
// short-circuit on the first failure; the enrichment and notification steps
// are best-effort and never abort an accepted submission.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			h.cfg.Logger.Error("lead submission panicked", "panic", rec, "path", r.URL.Path)
			h.cfg.Metrics.ObserveSubmission(ErrCodeInternal)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Status: "error",
				Error:  ErrCodeInternal,
			})
		}
		h.cfg.Metrics.ObserveSubmitLatency(time.Since(start).Seconds())
	}()

	if h.cfg.Origin != nil && !h.cfg.Origin.Verify(r) {
		h.reject(w, http.StatusForbidden, ErrCodeInvalidOrigin, nil)
		return
	}

	clientID := ratelimit.ClientIdentifier(r)
	rl := h.cfg.Limiter.Check(clientID)
	setRateLimitHeaders(w, h.cfg.Limiter.Max(), rl)
	if !rl.Allowed {
		retryAfter := int(time.Until(rl.ResetTime).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		h.cfg.Logger.Warn("lead submission rate limited", "client_id", clientID)
		h.reject(w, http.StatusTooManyRequests, ErrCodeRateLimited, nil)
		return
	}

	if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		h.reject(w, http.StatusBadRequest, ErrCodeInvalidContentType, nil)
		return
	}

	if r.ContentLength > MaxRequestSize {
		h.reject(w, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, nil)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.reject(w, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, nil)
			return
		}
		h.reject(w, http.StatusBadRequest, ErrCodeInvalidJSON, nil)
		return
	}

	var sub Submission
	if err := json.Unmarshal(body, &sub); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			h.reject(w, http.StatusBadRequest, ErrCodeValidationFailed, map[string]string{
				typeErr.Field: "must be a string",
			})
			return
		}
		h.reject(w, http.StatusBadRequest, ErrCodeInvalidJSON, nil)
		return
	}

	if h.cfg.VerifyBots && h.cfg.Verifier != nil {
		remoteIP := ""
		if net.ParseIP(clientID) != nil {
			remoteIP = clientID
		}
		if !h.cfg.Verifier.Verify(r.Context(), sub.RecaptchaToken, remoteIP) {
			h.reject(w, http.StatusBadRequest, ErrCodeRecaptchaFailed, nil)
			return
		}
	}

	validated, fieldErrs := Validate(sub)
	if fieldErrs != nil {
		h.reject(w, http.StatusBadRequest, ErrCodeValidationFailed, fieldErrs)
		return
	}

	var summary *Summary
	if h.cfg.Generator != nil {
		s, err := h.cfg.Generator.Generate(r.Context(), validated)
		if err != nil {
			h.cfg.Logger.Error("summary generation failed", "error", err)
			h.cfg.Metrics.ObserveSummaryFailure()
		} else {
			summary = s
		}
	}

	if h.cfg.Repo != nil {
		if _, err := h.cfg.Repo.Create(r.Context(), validated, summary != nil); err != nil {
			h.cfg.Logger.Error("failed to record lead", "error", err)
		}
	}

	resp := SuccessResponse{
		Status:     "ok",
		Message:    "Lead received. A licensed agent will follow up shortly.",
		HasSummary: summary != nil,
		Summary:    summary,
	}

	if h.cfg.Mailer != nil && h.cfg.Mailer.Configured() {
		if err := h.cfg.Mailer.SendLead(r.Context(), validated, summary); err != nil {
			h.cfg.Logger.Error("lead notification failed", "error", err)
			h.cfg.Metrics.ObserveEmailFailure()
			resp.EmailError = "Lead notification email could not be sent"
		}
	}

	h.cfg.Logger.Info("lead accepted",
		"insurance_type", validated.InsuranceType,
		"location", validated.Location,
		"has_summary", resp.HasSummary,
	)
	h.cfg.Metrics.ObserveSubmission("accepted")
	writeJSON(w, http.StatusOK, resp)
}

// ListLeads handles GET /admin/leads, returning accepted leads newest first.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Repo == nil {
		writeJSON(w, http.StatusOK, map[string]any{"leads": []*StoredLead{}, "count": 0})
		return
	}

	leads, err := h.cfg.Repo.List(r.Context())
	if err != nil {
		h.cfg.Logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"leads": leads,
		"count": len(leads),
	})
}

func (h *Handler) reject(w http.ResponseWriter, status int, code string, details map[string]string) {
	h.cfg.Metrics.ObserveSubmission(code)
	writeJSON(w, status, ErrorResponse{
		Status:  "error",
		Error:   code,
		Details: details,
	})
}

func setRateLimitHeaders(w http.ResponseWriter, limit int, rl ratelimit.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining))
	w.Header().Set("X-RateLimit-Reset", rl.ResetTime.UTC().Format(time.RFC3339))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
