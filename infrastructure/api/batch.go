package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	pkgError "github.com/qualens/qualens/pkg/error"
	"github.com/sirupsen/logrus"
)

// BatchRequest is one keyed sub-request of a batch call.
type BatchRequest struct {
	ID     string         `json:"id"`
	Path   string         `json:"path"`
	Params map[string]any `json:"params,omitempty"`
}

// BatchResult is the keyed outcome of one sub-request. Exactly one of Data
// and Error is set.
type BatchResult struct {
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *APIError       `json:"error,omitempty"`
}

// Failed reports whether this sub-request produced an error.
func (r BatchResult) Failed() bool {
	return r.Error != nil
}

type batchBody struct {
	Requests []BatchRequest `json:"requests"`
}

// Batch posts multiple sub-requests in one round trip and returns results
// keyed by sub-request id. Sub-request failures are partial: they live in
// the result map, not in the returned error. A 401 on the whole batch is
// retried once after a short delay before forcing sign-out, since batch
// calls tend to race token refreshes at dashboard load.
func (c *Client) Batch(ctx context.Context, requests []BatchRequest) (map[string]BatchResult, error) {
	if len(requests) == 0 {
		return map[string]BatchResult{}, nil
	}

	for i := range requests {
		if requests[i].ID == "" {
			requests[i].ID = uuid.NewString()
		}
	}

	id := "batch:" + uuid.NewString()
	reqCtx, handle := c.lifecycle.Begin(ctx, id)
	defer c.lifecycle.Complete(id, handle)

	opts := RequestOptions{
		Method: http.MethodPost,
		Path:   "/batch",
		Body:   batchBody{Requests: requests},
	}

	payload, _, err := c.roundTrip(reqCtx, http.MethodPost, opts, false)
	if err != nil && pkgError.IsUnauthorized(err) {
		logrus.Debugf("[API] Batch got 401, retrying once after %s", c.batch401Delay)
		select {
		case <-reqCtx.Done():
			return nil, c.classifyContext(reqCtx, nil)
		case <-time.After(c.batch401Delay):
		}
		payload, _, err = c.roundTrip(reqCtx, http.MethodPost, opts, true)
	}
	if err != nil {
		c.metrics.observe(http.MethodPost, outcomeOf(err))
		return nil, err
	}

	if cause := context.Cause(reqCtx); cause != nil {
		c.metrics.observe(http.MethodPost, "cancelled")
		return nil, c.classifyContext(reqCtx, nil)
	}

	var results []BatchResult
	if err := json.Unmarshal(LegacyPayload(payload, "results"), &results); err != nil {
		c.metrics.observe(http.MethodPost, "error")
		return nil, pkgError.ValidationError("batch response is not a result list")
	}

	out := make(map[string]BatchResult, len(results))
	for _, r := range results {
		out[r.ID] = r
	}
	c.metrics.observe(http.MethodPost, "success")
	return out, nil
}
