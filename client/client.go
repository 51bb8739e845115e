/*
Package client is a Go client for the ledger API.

PURPOSE:
  Programmatic access to the same REST surface the dashboard uses, with
  the failure taxonomy separated for callers: a network-unreachable
  condition (TransportError) is a different thing from a rejected input
  (ValidationError), a missing record (NotFoundError), or a bad
  credential (AuthError).

RETRY POLICY:
  Reads (list, get, reports) retry automatically on transient failures.
  Mutations are never retried: re-sending a payment on a timeout could
  charge it twice. Callers who want mutation retries must implement
  them with their own idempotence story.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/smartstock/ledger-engine/api"
)

// Client talks to a ledger API server.
type Client struct {
	baseURL string
	token   string

	// reads retries transient failures; writes never retries.
	reads  *http.Client
	writes *http.Client
}

const defaultTimeout = 10 * time.Second

func New(baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = defaultTimeout
	rc.Logger = nil

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		reads:   rc.StandardClient(),
		writes:  &http.Client{Timeout: defaultTimeout},
	}
}

// Login obtains a bearer token and keeps it for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp api.LoginResponse
	err := c.do(ctx, c.writes, http.MethodPost, "/api/auth/login",
		api.LoginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// SetToken installs a previously obtained bearer token.
func (c *Client) SetToken(token string) { c.token = token }

// =============================================================================
// PARTY OPERATIONS
// =============================================================================

func (c *Client) ListParties(ctx context.Context, kind string) ([]api.PartyDTO, error) {
	path := "/api/clients-suppliers"
	if kind != "" {
		path += "?kind=" + url.QueryEscape(kind)
	}
	var parties []api.PartyDTO
	if err := c.do(ctx, c.reads, http.MethodGet, path, nil, &parties); err != nil {
		return nil, err
	}
	return parties, nil
}

func (c *Client) GetParty(ctx context.Context, id string) (api.PartyDTO, error) {
	var p api.PartyDTO
	err := c.do(ctx, c.reads, http.MethodGet, "/api/clients-suppliers/"+url.PathEscape(id), nil, &p)
	return p, err
}

func (c *Client) RegisterParty(ctx context.Context, req api.RegisterPartyRequest) (api.PartyDTO, error) {
	var p api.PartyDTO
	err := c.do(ctx, c.writes, http.MethodPost, "/api/clients-suppliers", req, &p)
	return p, err
}

func (c *Client) UpdateParty(ctx context.Context, id string, req api.UpdatePartyRequest) (api.PartyDTO, error) {
	var p api.PartyDTO
	err := c.do(ctx, c.writes, http.MethodPut, "/api/clients-suppliers/"+url.PathEscape(id), req, &p)
	return p, err
}

func (c *Client) DeleteParty(ctx context.Context, id string) error {
	return c.do(ctx, c.writes, http.MethodDelete, "/api/clients-suppliers/"+url.PathEscape(id), nil, nil)
}

func (c *Client) RecordPayment(ctx context.Context, id string, amount float64) (api.PartyDTO, error) {
	var p api.PartyDTO
	err := c.do(ctx, c.writes, http.MethodPost,
		"/api/clients-suppliers/"+url.PathEscape(id)+"/pay",
		api.PaymentRequest{Amount: amount}, &p)
	return p, err
}

func (c *Client) RecordTransaction(ctx context.Context, id string, req api.TransactionRequest) (api.PartyDTO, error) {
	var p api.PartyDTO
	err := c.do(ctx, c.writes, http.MethodPost,
		"/api/clients-suppliers/"+url.PathEscape(id)+"/transactions", req, &p)
	return p, err
}

// =============================================================================
// NOTE OPERATIONS
// =============================================================================

func (c *Client) AddNote(ctx context.Context, id, text string) (api.PartyDTO, error) {
	var p api.PartyDTO
	err := c.do(ctx, c.writes, http.MethodPost,
		"/api/clients-suppliers/"+url.PathEscape(id)+"/notes",
		api.NoteRequest{Text: text}, &p)
	return p, err
}

func (c *Client) EditNote(ctx context.Context, id, noteID, text string) (api.PartyDTO, error) {
	var p api.PartyDTO
	err := c.do(ctx, c.writes, http.MethodPut,
		"/api/clients-suppliers/"+url.PathEscape(id)+"/notes/"+url.PathEscape(noteID),
		api.NoteRequest{Text: text}, &p)
	return p, err
}

func (c *Client) DeleteNote(ctx context.Context, id, noteID string) (api.PartyDTO, error) {
	var p api.PartyDTO
	err := c.do(ctx, c.writes, http.MethodDelete,
		"/api/clients-suppliers/"+url.PathEscape(id)+"/notes/"+url.PathEscape(noteID), nil, &p)
	return p, err
}

// =============================================================================
// REPORT OPERATIONS
// =============================================================================

func (c *Client) ReportSummary(ctx context.Context) (api.ReportSummaryDTO, error) {
	var s api.ReportSummaryDTO
	err := c.do(ctx, c.reads, http.MethodGet, "/api/reports/summary", nil, &s)
	return s, err
}

func (c *Client) MonthlyTotals(ctx context.Context, year int) ([]api.MonthlyTotalDTO, error) {
	var totals []api.MonthlyTotalDTO
	err := c.do(ctx, c.reads, http.MethodGet, fmt.Sprintf("/api/reports/monthlySales/%d", year), nil, &totals)
	return totals, err
}

func (c *Client) TopProducts(ctx context.Context, limit int) ([]api.ProductTotalDTO, error) {
	path := "/api/reports/topProducts"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var products []api.ProductTotalDTO
	err := c.do(ctx, c.reads, http.MethodGet, path, nil, &products)
	return products, err
}

func (c *Client) RevenueShare(ctx context.Context) ([]api.RevenueShareDTO, error) {
	var shares []api.RevenueShareDTO
	err := c.do(ctx, c.reads, http.MethodGet, "/api/reports/revenueShare", nil, &shares)
	return shares, err
}

// =============================================================================
// TRANSPORT
// =============================================================================

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return &TransportError{URL: c.baseURL + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body api.ErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(raw, &body); err != nil {
		body.Error = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &AuthError{Message: body.Error}
	case http.StatusNotFound:
		return &NotFoundError{Message: body.Error, Details: body.Details}
	case http.StatusBadRequest:
		return &ValidationError{Message: body.Error, Details: body.Details}
	default:
		return &APIError{Status: resp.StatusCode, Message: body.Error, Details: body.Details}
	}
}
