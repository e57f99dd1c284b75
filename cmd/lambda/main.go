package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/wolfman30/callbridge/internal/app/bootstrap"
	appconfig "github.com/wolfman30/callbridge/internal/config"
	"github.com/wolfman30/callbridge/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	handler, err := bootstrap.BuildHTTPHandler(cfg, logger)
	if err != nil {
		panic(err)
	}

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, handler, evt), nil
	})
}

// handle replays an API Gateway v2 event against the router and converts the recorded response.
func handle(ctx context.Context, handler http.Handler, evt events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	req, err := toRequest(ctx, evt)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: "invalid body"}
	}

	rec := newResponseBuffer()
	handler.ServeHTTP(rec, req)

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: rec.status,
		Body:       rec.body.String(),
		Headers:    map[string]string{},
	}
	for key, values := range rec.header {
		if len(values) > 0 {
			out.Headers[strings.ToLower(key)] = strings.Join(values, ", ")
		}
	}
	return out
}

func toRequest(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}
	if path == "" {
		path = "/"
	}

	body, err := decodeBody(evt)
	if err != nil {
		return nil, err
	}

	target := &url.URL{Path: path, RawQuery: strings.TrimSpace(evt.RawQueryString)}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for key, value := range evt.Headers {
		req.Header.Set(key, value)
	}
	for _, c := range evt.Cookies {
		req.Header.Add("Cookie", c)
	}

	// Preserve the original public host/proto so callback URLs point back at the gateway.
	originalHost := strings.TrimSpace(evt.RequestContext.DomainName)
	if originalHost == "" {
		originalHost = strings.TrimSpace(headerValue(evt.Headers, "host"))
	}
	originalProto := strings.TrimSpace(headerValue(evt.Headers, "x-forwarded-proto"))
	if originalProto == "" {
		originalProto = "https"
	}
	if originalHost != "" {
		req.Host = originalHost
		req.Header.Set("X-Forwarded-Host", originalHost)
	}
	req.Header.Set("X-Forwarded-Proto", originalProto)
	if ip := strings.TrimSpace(evt.RequestContext.HTTP.SourceIP); ip != "" {
		req.RemoteAddr = ip + ":0"
	}
	return req, nil
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// responseBuffer collects a handler's response for conversion into a Lambda result.
type responseBuffer struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}, status: http.StatusOK}
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) WriteHeader(status int) {
	if b.wroteHeader {
		return
	}
	b.status = status
	b.wroteHeader = true
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	b.wroteHeader = true
	return b.body.Write(p)
}
