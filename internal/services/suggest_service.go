package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/truexpanse/mat-data-service/internal/metrics"
	"github.com/truexpanse/mat-data-service/internal/store"
)

// SuggestionClient fetches sales-challenge suggestions from the AI gateway.
// The gateway owns prompt construction; this client only consumes the list.
type SuggestionClient struct {
	URL     string
	Timeout time.Duration
}

var _ store.Suggester = (*SuggestionClient)(nil)

// Suggestions performs one GET against the gateway and decodes the
// suggestion list. The call is bounded by the configured timeout or the
// caller's deadline, whichever is sooner.
func (c *SuggestionClient) Suggestions(ctx context.Context) ([]string, error) {
	if c.URL == "" {
		metrics.SuggestionFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("suggestion gateway not configured")
	}

	agent := fiber.AcquireAgent()
	defer fiber.ReleaseAgent(agent)

	req := agent.Request()
	req.Header.SetMethod(fiber.MethodGet)
	req.SetRequestURI(c.URL)
	if err := agent.Parse(); err != nil {
		metrics.SuggestionFetches.WithLabelValues("error").Inc()
		return nil, err
	}

	timeout := c.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		metrics.SuggestionFetches.WithLabelValues("error").Inc()
		return nil, errs[0]
	}
	if code != fiber.StatusOK {
		metrics.SuggestionFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("suggestion gateway returned status %d", code)
	}

	var payload struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.SuggestionFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("undecodable suggestion payload: %w", err)
	}

	if len(payload.Suggestions) == 0 {
		metrics.SuggestionFetches.WithLabelValues("empty").Inc()
	} else {
		metrics.SuggestionFetches.WithLabelValues("ok").Inc()
	}
	return payload.Suggestions, nil
}
