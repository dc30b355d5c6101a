package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"
)

// maxLoggedBody is the maximum number of body bytes included in a log entry.
const maxLoggedBody = 1000

// logResponse is a callback for retryablehttp.
// It logs all HTTP errors and also the response when log level is DEBUG.
func logResponse(l retryablehttp.Logger, r *http.Response) {
	isDebug := slog.Default().Enabled(context.Background(), slog.LevelDebug)
	isHTTPError := r.StatusCode >= 400
	if !isDebug && !isHTTPError {
		return
	}

	var level slog.Level
	if isHTTPError {
		level = slog.LevelWarn
	} else {
		level = slog.LevelDebug
	}

	body, err := copyResponseBody(r)
	if err != nil {
		slog.Error("Failed to extract response body", "error", err)
		body = nil
	}

	args := []any{
		"method", r.Request.Method,
		"url", r.Request.URL,
		"status", statusText(r),
		"size", humanize.Bytes(uint64(len(body))),
	}
	if isDebug {
		args = append(args, "header", r.Header)
	}
	args = append(args, "body", truncate(body, maxLoggedBody))
	slog.Log(context.Background(), level, "HTTP response", args...)
}

// copyResponseBody returns a copy of the response body r. It preserves the body.
func copyResponseBody(r *http.Response) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))
	return body, nil
}

// statusText returns the status code of a response with adding information.
func statusText(r *http.Response) string {
	return fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
