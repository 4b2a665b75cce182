// Package client talks HTTP to a PuppetDB server's query endpoints. It is
// the "external collaborator" the core compiler package never touches —
// the compiler only ever produces the evaluator.Value this package sends
// over the wire.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bootc/pdbquery/compiler/evaluator"
)

// Client queries PuppetDB's facts and fact_contents endpoints with a
// compiled query.
type Client interface {
	Facts(ctx context.Context, query evaluator.Value) (json.RawMessage, error)
	FactContents(ctx context.Context, query evaluator.Value) (json.RawMessage, error)
}

// truncateForError truncates response bodies in error messages so a failed
// request doesn't dump an entire fact payload, or a leaked token, into the
// log.
func truncateForError(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		return s[:200] + "... (truncated)"
	}
	return s
}

// ErrStatus is returned when PuppetDB responds with a non-2xx status.
type ErrStatus struct {
	StatusCode int
	Body       string
}

func (e ErrStatus) Error() string {
	return fmt.Sprintf("puppetdb returned status %d: %s", e.StatusCode, e.Body)
}

// Config configures an HTTPClient.
type Config struct {
	// BaseURL is the PuppetDB server's base URL, e.g. https://puppetdb:8081.
	BaseURL string
	// Token is sent verbatim as the bearer token with every request. Empty disables auth.
	Token string
	// InsecureSkipTLS disables TLS certificate verification, for lab/test PuppetDB instances.
	InsecureSkipTLS bool
	// Timeout bounds each HTTP attempt on its own; retries and backoff waits are not counted against it.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt, with exponential backoff.
	MaxRetries int
}

func (c Config) withDefaults() Config {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// HTTPClient implements Client against a real PuppetDB server's
// /pdb/query/v4/{facts,fact_contents} endpoints.
type HTTPClient struct {
	config     Config
	httpClient *http.Client
	log        *zap.Logger
}

// NewHTTPClient builds an HTTPClient. log may be nil, in which case a no-op
// logger is used.
func NewHTTPClient(config Config, log *zap.Logger) *HTTPClient {
	config = config.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}

	transport := http.DefaultTransport
	if config.InsecureSkipTLS {
		transport = insecureTransport()
	}

	return &HTTPClient{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout, Transport: transport},
		log:        log,
	}
}

func (c *HTTPClient) Facts(ctx context.Context, query evaluator.Value) (json.RawMessage, error) {
	return c.query(ctx, "facts", query)
}

func (c *HTTPClient) FactContents(ctx context.Context, query evaluator.Value) (json.RawMessage, error) {
	return c.query(ctx, "fact_contents", query)
}

type queryBody struct {
	Query evaluator.Value `json:"query"`
}

func (c *HTTPClient) query(ctx context.Context, endpoint string, query evaluator.Value) (json.RawMessage, error) {
	bodyBytes, err := json.Marshal(queryBody{Query: query})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	url := c.config.BaseURL + "/pdb/query/v4/" + endpoint
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		body, err := c.makeRequest(ctx, url, requestID, bodyBytes)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("puppetdb %s query failed after %d attempts: %w", endpoint, c.config.MaxRetries+1, lastErr)
}

func (c *HTTPClient) makeRequest(ctx context.Context, url, requestID string, bodyBytes []byte) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	if c.config.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn("puppetdb request failed", zap.String("request_id", requestID), zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("puppetdb request completed",
		zap.String("request_id", requestID),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrStatus{StatusCode: resp.StatusCode, Body: truncateForError(body)}
	}

	return json.RawMessage(body), nil
}

// SignToken mints an HS256 bearer token for service-to-service PuppetDB RBAC
// auth, carrying the subject and its granted roles.
func SignToken(secret, subject string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken verifies an HS256 bearer token and returns its claims.
func ValidateToken(secret, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != "HS256" {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
