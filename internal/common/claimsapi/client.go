// Package claimsapi talks to the remote claims API: POST /crear to register a
// claim and GET /consultar to look one up.
package claimsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"claims-portal/internal/common/errors"
	commonhttp "claims-portal/internal/common/http"
	"claims-portal/internal/common/logger"
	"claims-portal/internal/common/metrics"
	"claims-portal/internal/common/observability"
	"claims-portal/internal/common/validation"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	createPath = "/crear"
	lookupPath = "/consultar"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *commonhttp.Client
	obs     *observability.Observability
	logger  logger.Logger
}

// NewClient trims trailing slashes from baseURL. obs may be nil.
func NewClient(baseURL string, httpClient *commonhttp.Client, obs *observability.Observability, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		obs:     obs,
		logger:  log.WithFields(map[string]interface{}{"component": "claimsapi"}),
	}
}

// Create posts rec to /crear. A payload that breaks the ClaimRecord contract
// is rejected before any request is made.
func (c *Client) Create(ctx context.Context, rec *ClaimRecord) (*CreateResult, error) {
	ctx, span := c.obs.StartSpan(ctx, "claimsapi.create", attribute.String("http.method", "POST"))
	defer span.End()

	result, err := validation.ValidateClaimRecord(rec)
	if err != nil {
		return nil, c.fail(span, "create", 0, fmt.Errorf("claim schema: %w", err))
	}
	if !result.Valid {
		c.logger.Warn("Claim record failed schema check", map[string]interface{}{
			"errors": result.GetErrorMessages(),
		})
		return nil, c.fail(span, "create", 0, errors.NewValidationError("Payload inválido", result.Fields()...))
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL+createPath, rec)
	if err != nil {
		return nil, c.fail(span, "create", 0, errors.NewNetworkError(err))
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !resp.OK() {
		var body errorBody
		_ = json.Unmarshal(resp.Body, &body)
		return nil, c.fail(span, "create", resp.StatusCode, errors.NewServerError(resp.StatusCode, body.Error))
	}

	// A 2xx with an unreadable body still means the claim was stored.
	var out CreateResult
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		c.logger.Warn("Unreadable create response body", map[string]interface{}{
			"status": resp.StatusCode,
			"error":  err.Error(),
		})
	}

	metrics.ClaimsAPIRequests.WithLabelValues("create", metrics.StatusClass(resp.StatusCode)).Inc()
	return &out, nil
}

// Lookup fetches a claim by id or DNI. Any non-2xx answer is CLAIM_NOT_FOUND.
func (c *Client) Lookup(ctx context.Context, query string) (*ClaimDetail, error) {
	ctx, span := c.obs.StartSpan(ctx, "claimsapi.lookup", attribute.String("http.method", "GET"))
	defer span.End()

	endpoint := c.baseURL + lookupPath + "?" + url.Values{"search": {query}}.Encode()

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, c.fail(span, "lookup", 0, errors.NewNetworkError(err))
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !resp.OK() {
		metrics.ClaimsAPIRequests.WithLabelValues("lookup", metrics.StatusClass(resp.StatusCode)).Inc()
		return nil, errors.NewClaimNotFoundError(query, resp.StatusCode)
	}

	var detail ClaimDetail
	if err := json.Unmarshal(resp.Body, &detail); err != nil {
		return nil, c.fail(span, "lookup", resp.StatusCode, errors.NewNetworkError(fmt.Errorf("decode response: %w", err)))
	}

	metrics.ClaimsAPIRequests.WithLabelValues("lookup", metrics.StatusClass(resp.StatusCode)).Inc()
	return &detail, nil
}

func (c *Client) fail(span trace.Span, op string, status int, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if status > 0 || !errors.HasCode(err, errors.ErrCodeValidationFailed) {
		metrics.ClaimsAPIRequests.WithLabelValues(op, metrics.StatusClass(status)).Inc()
	}
	return err
}
