// Package wowhead resolves texture IDs to icon names with the Wowhead website.
//
// Wowhead redirects a request for an icon ID to the page of that icon,
// which has the icon name as last path segment, e.g.
// https://www.wowhead.com/icon=135274 redirects to https://www.wowhead.com/icon=135274/inv-sword-04
package wowhead

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	iconMarker   = "/icon="
	maxRedirects = 10
)

var ErrNotFound = errors.New("not found")

// Client is a client for looking up icon names.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient returns a new Client for the site at baseURL.
// When no httpClient (nil) is provided it will use the default client.
func NewClient(httpClient *http.Client, baseURL, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		userAgent:  userAgent,
	}
	return c
}

// IconURL returns the lookup URL for a texture ID.
func (c *Client) IconURL(id int) string {
	return fmt.Sprintf("%s/icon=%d", c.baseURL, id)
}

// IconName returns the name of the icon for a texture ID.
// It returns [ErrNotFound] when the lookup did not end on the page of a named icon.
func (c *Client) IconName(ctx context.Context, id int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.IconURL(id), nil)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	// remember where the redirects lead to
	finalURL := req.URL
	hc := *c.httpClient
	hc.CheckRedirect = func(r *http.Request, via []*http.Request) error {
		if c.httpClient.CheckRedirect != nil {
			if err := c.httpClient.CheckRedirect(r, via); err != nil {
				return err
			}
		} else if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		finalURL = r.URL
		return nil
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	name, ok := IconNameFromURL(finalURL)
	if !ok || name == strconv.Itoa(id) {
		return "", ErrNotFound
	}
	return name, nil
}

// IconNameFromURL returns the icon name from the URL of an icon page
// and reports whether it was found.
//
// The name is the last path segment as it appears in the URL,
// i.e. still percent-encoded, with hyphens replaced by underscores.
// A leading "icon=" is not part of the name.
func IconNameFromURL(u *url.URL) (string, bool) {
	s := u.String()
	if !strings.Contains(s, iconMarker) || strings.Count(s, "/") < 2 {
		return "", false
	}
	p := strings.TrimRight(u.EscapedPath(), "/")
	i := strings.LastIndex(p, "/")
	segment := strings.TrimPrefix(p[i+1:], "icon=")
	if segment == "" {
		return "", false
	}
	return strings.ReplaceAll(segment, "-", "_"), true
}
