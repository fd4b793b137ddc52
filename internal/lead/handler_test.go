package lead

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotenest/quotenest-api/internal/ratelimit"
)

type fakeOrigin struct{ ok bool }

func (f fakeOrigin) Verify(*http.Request) bool { return f.ok }

type fakeBotVerifier struct {
	ok       bool
	gotToken string
	gotIP    string
	calls    int
}

func (f *fakeBotVerifier) Verify(_ context.Context, token, remoteIP string) bool {
	f.calls++
	f.gotToken = token
	f.gotIP = remoteIP
	return f.ok
}

type fakeGenerator struct {
	summary *Summary
	err     error
	calls   int
}

func (f *fakeGenerator) Generate(_ context.Context, _ *Submission) (*Summary, error) {
	f.calls++
	return f.summary, f.err
}

type fakeMailer struct {
	configured bool
	err        error
	calls      int
	gotSummary *Summary
}

func (f *fakeMailer) Configured() bool { return f.configured }

func (f *fakeMailer) SendLead(_ context.Context, _ *Submission, summary *Summary) error {
	f.calls++
	f.gotSummary = summary
	return f.err
}

func testSummary() *Summary {
	return &Summary{
		Overview:                "Auto coverage review for a two-car household.",
		RecommendedCoverages:    []string{"Collision", "Comprehensive"},
		KeyRiskFactors:          []string{"Urban commute"},
		SavingsOrConsiderations: []string{"Multi-car discount"},
	}
}

func newTestHandler(t *testing.T, mutate func(*HandlerConfig)) *Handler {
	t.Helper()
	cfg := HandlerConfig{
		Origin:  fakeOrigin{ok: true},
		Limiter: ratelimit.New(15*time.Minute, 10),
		Repo:    NewInMemoryRepository(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewHandler(cfg)
}

func submitRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func validBody(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(validSubmission())
	require.NoError(t, err)
	return string(raw)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "error", resp.Status)
	return resp
}

func TestSubmitRejectsBadOrigin(t *testing.T) {
	h := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Origin = fakeOrigin{ok: false}
	})

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, validBody(t)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, ErrCodeInvalidOrigin, decodeError(t, rec).Error)
}

func TestSubmitRateLimiting(t *testing.T) {
	h := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Limiter = ratelimit.New(15*time.Minute, 2)
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.Submit(rec, submitRequest(t, validBody(t)))
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, validBody(t)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ErrCodeRateLimited, decodeError(t, rec).Error)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	_, err := time.Parse(time.RFC3339, rec.Header().Get("X-RateLimit-Reset"))
	assert.NoError(t, err)
}

func TestSubmitRateLimitsPerClient(t *testing.T) {
	h := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Limiter = ratelimit.New(15*time.Minute, 1)
	})

	first := submitRequest(t, validBody(t))
	first.Header.Set("CF-Connecting-IP", "203.0.113.10")
	rec := httptest.NewRecorder()
	h.Submit(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	blocked := submitRequest(t, validBody(t))
	blocked.Header.Set("CF-Connecting-IP", "203.0.113.10")
	rec = httptest.NewRecorder()
	h.Submit(rec, blocked)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	other := submitRequest(t, validBody(t))
	other.Header.Set("CF-Connecting-IP", "203.0.113.11")
	rec = httptest.NewRecorder()
	h.Submit(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitRejectsWrongContentType(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(validBody(t)))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeInvalidContentType, decodeError(t, rec).Error)
}

func TestSubmitAcceptsContentTypeWithCharset(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(validBody(t)))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitRejectsOversizedBody(t *testing.T) {
	h := newTestHandler(t, nil)

	big := bytes.Repeat([]byte("a"), MaxRequestSize+1)
	req := httptest.NewRequest(http.MethodPost, "/api/lead", bytes.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, ErrCodePayloadTooLarge, decodeError(t, rec).Error)
}

func TestSubmitRejectsInvalidJSON(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, "{not json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeInvalidJSON, decodeError(t, rec).Error)
}

func TestSubmitReportsMistypedField(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, `{"fullName": 42}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, ErrCodeValidationFailed, resp.Error)
	assert.Equal(t, "must be a string", resp.Details["fullName"])
}

func TestSubmitBotVerification(t *testing.T) {
	t.Run("rejection short-circuits before validation", func(t *testing.T) {
		verifier := &fakeBotVerifier{ok: false}
		h := newTestHandler(t, func(cfg *HandlerConfig) {
			cfg.Verifier = verifier
			cfg.VerifyBots = true
		})

		body := `{"fullName":"Jane","recaptchaToken":"tok-123"}`
		rec := httptest.NewRecorder()
		h.Submit(rec, submitRequest(t, body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrCodeRecaptchaFailed, decodeError(t, rec).Error)
		assert.Equal(t, 1, verifier.calls)
		assert.Equal(t, "tok-123", verifier.gotToken)
	})

	t.Run("passes client IP only when it parses", func(t *testing.T) {
		verifier := &fakeBotVerifier{ok: true}
		h := newTestHandler(t, func(cfg *HandlerConfig) {
			cfg.Verifier = verifier
			cfg.VerifyBots = true
		})

		req := submitRequest(t, validBody(t))
		req.Header.Set("CF-Connecting-IP", "203.0.113.5")
		rec := httptest.NewRecorder()
		h.Submit(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "203.0.113.5", verifier.gotIP)
	})

	t.Run("disabled flag skips the verifier", func(t *testing.T) {
		verifier := &fakeBotVerifier{ok: false}
		h := newTestHandler(t, func(cfg *HandlerConfig) {
			cfg.Verifier = verifier
			cfg.VerifyBots = false
		})

		rec := httptest.NewRecorder()
		h.Submit(rec, submitRequest(t, validBody(t)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, verifier.calls)
	})
}

func TestSubmitReturnsFieldErrors(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, `{"fullName":"Jane"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, ErrCodeValidationFailed, resp.Error)
	assert.Equal(t, "Email is required", resp.Details["email"])
	assert.Equal(t, "Location is required", resp.Details["location"])
}

func TestSubmitSuccessWithSummary(t *testing.T) {
	gen := &fakeGenerator{summary: testSummary()}
	mailer := &fakeMailer{configured: true}
	repo := NewInMemoryRepository()
	h := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Generator = gen
		cfg.Mailer = mailer
		cfg.Repo = repo
	})

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, validBody(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SuccessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.HasSummary)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, gen.summary.Overview, resp.Summary.Overview)
	assert.Empty(t, resp.EmailError)

	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, gen.summary, mailer.gotSummary)

	stored, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].HasSummary)
	assert.Empty(t, stored[0].RecaptchaToken)
}

func TestSubmitSucceedsWhenSummaryFails(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	mailer := &fakeMailer{configured: true}
	h := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Generator = gen
		cfg.Mailer = mailer
	})

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, validBody(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SuccessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.HasSummary)
	assert.Nil(t, resp.Summary)

	// Notification still goes out, without a summary.
	assert.Equal(t, 1, mailer.calls)
	assert.Nil(t, mailer.gotSummary)
}

func TestSubmitSucceedsWhenEmailFails(t *testing.T) {
	mailer := &fakeMailer{configured: true, err: errors.New("smtp down")}
	h := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Mailer = mailer
	})

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, validBody(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SuccessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Lead notification email could not be sent", resp.EmailError)
}

func TestSubmitSkipsUnconfiguredMailer(t *testing.T) {
	mailer := &fakeMailer{configured: false}
	h := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Mailer = mailer
	})

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, validBody(t)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, mailer.calls)
}

func TestSubmitSetsRateLimitHeadersOnSuccess(t *testing.T) {
	h := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Limiter = ratelimit.New(15*time.Minute, 10)
	})

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, validBody(t)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestListLeads(t *testing.T) {
	repo := NewInMemoryRepository()
	h := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Repo = repo
	})

	rec := httptest.NewRecorder()
	h.Submit(rec, submitRequest(t, validBody(t)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ListLeads(rec, httptest.NewRequest(http.MethodGet, "/admin/leads", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Leads []*StoredLead `json:"leads"`
		Count int           `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Leads, 1)
	assert.NotEmpty(t, resp.Leads[0].ID)
	assert.Equal(t, "Jane Doe", resp.Leads[0].FullName)
}
