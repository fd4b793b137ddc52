// Package recaptcha verifies client-supplied reCAPTCHA tokens against
// Google's siteverify endpoint. Verification fails closed: any transport or
// parse error is treated as a failed check, never as a pass.
package recaptcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quotenest/quotenest-api/pkg/logging"
)

const defaultBaseURL = "https://www.google.com/recaptcha/api/siteverify"

// MinScore is the minimum v3 trust score accepted, on a 0-1 scale.
const MinScore = 0.5

// Config controls how the verifier behaves.
type Config struct {
	SecretKey  string
	BaseURL    string
	DevMode    bool
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Verifier checks reCAPTCHA tokens. It supports both v2 (no score) and v3
// (score-bearing) responses.
type Verifier struct {
	secret     string
	baseURL    string
	devMode    bool
	httpClient *http.Client
	logger     *logging.Logger
}

// New creates a configured Verifier with sane defaults.
func New(cfg Config) *Verifier {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Verifier{
		secret:     strings.TrimSpace(cfg.SecretKey),
		baseURL:    baseURL,
		devMode:    cfg.DevMode,
		httpClient: httpClient,
		logger:     logger,
	}
}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks token, optionally binding it to remoteIP. With no secret key
// configured it passes open in development mode and fails closed otherwise.
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) bool {
	if v.secret == "" {
		if v.devMode {
			v.logger.Warn("recaptcha not configured, allowing in development")
			return true
		}
		v.logger.Error("recaptcha secret key not configured in production")
		return false
	}

	if token == "" {
		v.logger.Warn("recaptcha token missing")
		return false
	}

	params := url.Values{}
	params.Set("secret", v.secret)
	params.Set("response", token)
	if remoteIP != "" {
		params.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL, strings.NewReader(params.Encode()))
	if err != nil {
		v.logger.Error("recaptcha request build failed", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Error("recaptcha verification request failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Error("recaptcha endpoint returned error status", "status", resp.StatusCode)
		return false
	}

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		v.logger.Error("recaptcha response parse failed", "error", err)
		return false
	}

	if !result.Success {
		v.logger.Warn("recaptcha verification failed", "error_codes", strings.Join(result.ErrorCodes, ","))
		return false
	}

	if result.Score != nil && *result.Score < MinScore {
		v.logger.Warn("recaptcha score below threshold", "score", *result.Score, "min", MinScore)
		return false
	}

	return true
}
