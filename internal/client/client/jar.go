package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/jarcover/internal/client/models"
	"github.com/dmitrijs2005/jarcover/internal/logging"
	"github.com/dmitrijs2005/jarcover/internal/netx"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	DefaultJarEndpoint = "https://send.monobank.ua/api/handler"
	// jarGreeting is the fixed "c" field the endpoint expects.
	jarGreeting = "hello"
)

type jarRequest struct {
	ClientID  string `json:"clientId"`
	C         string `json:"c"`
	RequestID string `json:"requestId"`
}

type jarResponse struct {
	JarAmount int64  `json:"jarAmount"`
	JarStatus string `json:"jarStatus"`
}

// HTTPJarClient is safe for concurrent use.
type HTTPJarClient struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	logger   logging.Logger
}

// NewHTTPJarClient builds a client. rps <= 0 disables rate limiting.
func NewHTTPJarClient(endpoint string, timeout time.Duration, rps float64, logger logging.Logger) *HTTPJarClient {
	if endpoint == "" {
		endpoint = DefaultJarEndpoint
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &HTTPJarClient{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// ParseJarClientID returns the last path segment of a jar link.
func ParseJarClientID(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidJarLink, link)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	id := segments[len(segments)-1]
	if id == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidJarLink, link)
	}
	return id, nil
}

func (c *HTTPJarClient) LoadProgress(ctx context.Context, link string) (models.JarDetails, error) {
	id, err := ParseJarClientID(link)
	if err != nil {
		return models.JarDetails{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return models.JarDetails{}, err
	}

	req := jarRequest{ClientID: id, C: jarGreeting, RequestID: uuid.NewString()}
	var resp jarResponse
	if err := netx.PostJSON(ctx, c.http, c.endpoint, req, &resp); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.JarDetails{}, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return models.JarDetails{}, err
		}
		c.logger.Debug(ctx, "jar request failed", "client_id", id, "error", err)
		return models.JarDetails{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return models.JarDetails{Amount: resp.JarAmount, Status: resp.JarStatus}, nil
}
