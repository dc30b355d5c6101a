// Package sheet downloads the published spreadsheet and extracts texture IDs from it.
package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ErikKalkoken/go-set"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-retryablehttp"
)

var (
	ErrHTTPError       = errors.New("http error")
	ErrMalformedHeader = errors.New("malformed header")
)

// HTTPError represents a HTTP response with status code >= 400.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (r HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: %s", r.Status)
}

func (r HTTPError) Is(target error) bool {
	return target == ErrHTTPError
}

// Fetcher downloads the CSV export of a spreadsheet.
type Fetcher struct {
	client    *retryablehttp.Client
	url       string
	userAgent string
}

// NewFetcher returns a new Fetcher for url.
// When no client (nil) is provided a default retryablehttp client is used.
func NewFetcher(client *retryablehttp.Client, url, userAgent string) *Fetcher {
	if client == nil {
		client = retryablehttp.NewClient()
	}
	f := &Fetcher{
		client:    client,
		url:       url,
		userAgent: userAgent,
	}
	return f
}

// Fetch returns the raw CSV document.
// A response with a non-successful status is reported as [HTTPError].
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	slog.Debug("Sheet downloaded", "url", f.url, "size", humanize.Bytes(uint64(len(data))))
	return data, nil
}

// NewClient returns a retryablehttp client for downloading the sheet.
// Failed requests are retried up to retries times with a fixed delay.
// When all attempts failed the last response is returned to the caller.
func NewClient(retries int, delay time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = slog.Default()
	c.RetryMax = retries
	c.Backoff = FixedBackoff(delay)
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return c
}

// FixedBackoff returns a backoff for retryablehttp which always waits for d.
func FixedBackoff(d time.Duration) retryablehttp.Backoff {
	return func(_, _ time.Duration, _ int, _ *http.Response) time.Duration {
		return d
	}
}

var digitsRx = regexp.MustCompile(`^[0-9]+$`)

// ExtractTextureIDs returns the unique texture IDs found in a column of a CSV document.
// The first record is the header and must have more fields than column.
// Values which are not plain digits are ignored.
// The IDs are returned in ascending order.
func ExtractTextureIDs(r io.Reader, column int) ([]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", ErrMalformedHeader)
	} else if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) <= column {
		return nil, fmt.Errorf("%w: expected at least %d columns, got %d", ErrMalformedHeader, column+1, len(header))
	}
	ids := set.Of[int]()
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) <= column {
			continue
		}
		v := strings.TrimSpace(row[column])
		if !digitsRx.MatchString(v) {
			continue
		}
		id, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("Ignoring texture ID out of range", "value", v)
			continue
		}
		ids.Add(id)
	}
	return slices.Sorted(ids.All()), nil
}
