// Package httptransport provides a http transport which logs requests with slog.
package httptransport

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// LoggedTransport adds request slog logging.
//
// Responses with status code below 400 are logged with INFO level.
// Responses with status code of 400 or higher are logged with WARNING level.
// Redirects are logged with their target location.
// When DEBUG logging is enabled, will also log headers of requests and the body of responses.
type LoggedTransport struct {
	// The RoundTripper interface actually used to make requests
	// If nil, http.DefaultTransport is used
	Transport http.RoundTripper
}

var _ http.RoundTripper = (*LoggedTransport)(nil)

func (t LoggedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	isDebug := slog.Default().Enabled(req.Context(), slog.LevelDebug)
	if isDebug {
		slog.Debug("HTTP request", "method", req.Method, "url", req.URL, "header", req.Header)
	}
	start := time.Now()
	resp, err := transport.RoundTrip(req)
	if err != nil {
		slog.Warn("HTTP request failed", "method", req.Method, "url", req.URL, "error", err)
		return resp, err
	}
	args := []any{
		"method", req.Method,
		"url", req.URL,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
	}
	if loc := resp.Header.Get("Location"); loc != "" {
		args = append(args, "location", loc)
	}
	if isDebug {
		args = append(args, "header", resp.Header, "body", peekBody(resp))
	}
	var level slog.Level
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	} else {
		level = slog.LevelInfo
	}
	slog.Log(context.Background(), level, "HTTP response", args...)
	return resp, nil
}

// peekBody returns the body of a response as string. It preserves the body.
func peekBody(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	resp.Body = io.NopCloser(bytes.NewBuffer(body))
	return string(body)
}
