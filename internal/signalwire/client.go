// Package signalwire wraps the SignalWire LaML (Twilio-compatible) REST API.
package signalwire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/callbridge/pkg/logging"
)

const lamlAPIPath = "/api/laml/2010-04-01"

var tracer = otel.Tracer("callbridge.internal.signalwire")

// Config controls how the LaML client behaves.
type Config struct {
	ProjectID  string
	Token      string
	SpaceURL   string // yourspace.signalwire.com, with or without scheme
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client is a SignalWire LaML REST client.
type Client struct {
	projectID  string
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// Call represents a SignalWire call resource.
type Call struct {
	SID       string `json:"sid"`
	From      string `json:"from"`
	To        string `json:"to"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
}

// CallRequest holds the options for originating a call.
type CallRequest struct {
	From                 string
	To                   string
	URL                  string // cXML webhook fetched when the call connects
	Method               string
	StatusCallback       string
	StatusCallbackEvents []string
}

// DefaultStatusCallbackEvents asks the provider for every lifecycle transition.
var DefaultStatusCallbackEvents = []string{"initiated", "ringing", "answered", "completed"}

// APIError is returned for non-2xx responses from the LaML API.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
	MoreInfo   string `json:"more_info"`
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("signalwire API error (%d) code %d: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("signalwire API error (%d): %s", e.StatusCode, e.Message)
}

// NewClient creates a configured Client.
func NewClient(cfg Config) (*Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	token := strings.TrimSpace(cfg.Token)
	if projectID == "" || token == "" {
		return nil, errors.New("signalwire: project id and token are required")
	}
	space, err := normalizeSpaceURL(cfg.SpaceURL)
	if err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		projectID:  projectID,
		token:      token,
		baseURL:    space + lamlAPIPath,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CreateCall initiates an outbound call.
func (c *Client) CreateCall(ctx context.Context, req CallRequest) (*Call, error) {
	if strings.TrimSpace(req.From) == "" || strings.TrimSpace(req.To) == "" {
		return nil, errors.New("signalwire: from and to are required")
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, errors.New("signalwire: call url is required")
	}

	ctx, span := tracer.Start(ctx, "signalwire.create_call", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("callbridge.signalwire.to", req.To))

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	form := url.Values{}
	form.Set("From", req.From)
	form.Set("To", req.To)
	form.Set("Url", req.URL)
	form.Set("Method", method)
	if req.StatusCallback != "" {
		form.Set("StatusCallback", req.StatusCallback)
		form.Set("StatusCallbackMethod", method)
		for _, evt := range req.StatusCallbackEvents {
			form.Add("StatusCallbackEvent", evt)
		}
	}

	reqURL := fmt.Sprintf("%s/Accounts/%s/Calls.json", c.baseURL, url.PathEscape(c.projectID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("signalwire: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.projectID, c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("signalwire: create call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("signalwire: read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		apiErr := decodeAPIError(resp.StatusCode, body)
		span.RecordError(apiErr)
		return nil, apiErr
	}

	var call Call
	if err := json.Unmarshal(body, &call); err != nil {
		return nil, fmt.Errorf("signalwire: decode response: %w", err)
	}
	span.SetAttributes(attribute.String("callbridge.signalwire.call_sid", call.SID))
	c.logger.Info("signalwire call created", "call_sid", call.SID, "to", call.To, "status", call.Status)
	return &call, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	trimmed := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = trimmed
	}
	if len(apiErr.Message) > 512 {
		apiErr.Message = apiErr.Message[:512]
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	apiErr.StatusCode = status
	return apiErr
}

func normalizeSpaceURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", errors.New("signalwire: space url is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("signalwire: invalid space url %q", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
