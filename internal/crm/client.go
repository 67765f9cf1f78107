package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/pkg/logger"
	"github.com/xisxz/agente-vendas/pkg/prom"
)

var ErrNotConfigured = errors.New("crm integration not configured")

type Config struct {
	BaseURL    string
	APIToken   string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Person is the CRM-side representation of a lead.
type Person struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Emails   []string `json:"email,omitempty"`
	Phones   []string `json:"phone,omitempty"`
	OrgName  string   `json:"org_name,omitempty"`
	Location string   `json:"location,omitempty"`
	Source   string   `json:"source,omitempty"`
	Score    float64  `json:"qualification_score,omitempty"`
}

type Deal struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	PersonID int64   `json:"person_id"`
	Value    float64 `json:"value,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Status   string  `json:"status,omitempty"`
}

// SyncResult reports a best-effort sync outcome; callers attach it as
// an advisory, never as a failure of their own operation.
type SyncResult struct {
	Synced bool   `json:"synced"`
	CRMID  *int64 `json:"crm_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Client talks to a Pipedrive-compatible CRM API.
type Client struct {
	config Config
	http   *fasthttp.Client
}

func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 200 * time.Millisecond
	}

	client := &Client{
		config: config,
		http: &fasthttp.Client{
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
	}

	logger.Info("CRM client initialized", "base_url", config.BaseURL, "timeout", config.Timeout)

	return client, nil
}

func personPayload(lead *model.Lead) map[string]interface{} {
	payload := map[string]interface{}{
		"name": lead.Name,
	}
	if lead.Email != "" {
		payload["email"] = []string{lead.Email}
	}
	if lead.Phone != "" {
		payload["phone"] = []string{lead.Phone}
	}
	if lead.Company != "" {
		payload["org_name"] = lead.Company
	}

	custom := map[string]interface{}{}
	if lead.Location != "" {
		custom["location"] = lead.Location
	}
	if lead.Source != "" {
		custom["source"] = lead.Source
	}
	if lead.QualificationScore > 0 {
		custom["qualification_score"] = lead.QualificationScore
	}
	if len(custom) > 0 {
		payload["custom_fields"] = custom
	}

	return payload
}

func (c *Client) CreatePerson(ctx context.Context, lead *model.Lead) (*Person, error) {
	var person Person
	if err := c.do(ctx, "POST", "/persons", personPayload(lead), &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (c *Client) UpdatePerson(ctx context.Context, personID int64, lead *model.Lead) (*Person, error) {
	var person Person
	if err := c.do(ctx, "PUT", fmt.Sprintf("/persons/%d", personID), personPayload(lead), &person); err != nil {
		return nil, err
	}
	return &person, nil
}

func (c *Client) CreateDeal(ctx context.Context, personID int64, title string, value float64) (*Deal, error) {
	payload := map[string]interface{}{
		"title":     title,
		"person_id": personID,
		"currency":  "BRL",
		"status":    "open",
	}
	if value > 0 {
		payload["value"] = value
	}

	var deal Deal
	if err := c.do(ctx, "POST", "/deals", payload, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

func (c *Client) AddNote(ctx context.Context, personID int64, content string) error {
	payload := map[string]interface{}{
		"content":   content,
		"person_id": personID,
	}
	return c.do(ctx, "POST", "/notes", payload, nil)
}

// SyncLead pushes a lead to the CRM, creating or updating the person.
// Errors are folded into the result so the caller's transaction stays
// unaffected.
func (c *Client) SyncLead(ctx context.Context, lead *model.Lead) SyncResult {
	var (
		person *Person
		err    error
	)

	if lead.CRMID != nil {
		person, err = c.UpdatePerson(ctx, *lead.CRMID, lead)
	} else {
		person, err = c.CreatePerson(ctx, lead)
	}

	if err != nil {
		prom.IncCRMSyncError()
		logger.Warn("CRM sync failed", "lead_id", lead.ID, "error", err)
		return SyncResult{Error: err.Error()}
	}

	// converted leads become deals; escalations leave a trace note
	switch lead.Status {
	case model.LeadStatusConverted:
		if _, err := c.CreateDeal(ctx, person.ID, "Deal - "+lead.Name, 0); err != nil {
			logger.Warn("CRM deal creation failed", "lead_id", lead.ID, "error", err)
		}
	case model.LeadStatusEscalated:
		if err := c.AddNote(ctx, person.ID, "Lead escalated to a human agent"); err != nil {
			logger.Warn("CRM note creation failed", "lead_id", lead.ID, "error", err)
		}
	}

	return SyncResult{Synced: true, CRMID: &person.ID}
}

// envelope is the CRM API's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		response, err := c.doRequest(ctx, method, path, body)
		if err != nil {
			logger.Warn("CRM request failed", "method", method, "path", path, "attempt", attempt+1, "error", err)
			lastErr = err
			continue
		}

		var env envelope
		if err := json.Unmarshal(response, &env); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if !env.Success {
			return fmt.Errorf("crm rejected request: %s", env.Error)
		}
		if out != nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return fmt.Errorf("failed to unmarshal response data: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := strings.TrimSuffix(c.config.BaseURL, "/") + path
	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if c.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	}

	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusCreated {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())

	return result, nil
}
