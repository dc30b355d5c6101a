package wowhead_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/ErikKalkoken/iconmapsync/internal/wowhead"
)

func redirectTo(location string) httpmock.Responder {
	return httpmock.NewStringResponder(http.StatusMovedPermanently, "").HeaderSet(http.Header{"Location": []string{location}})
}

func TestClientIconName(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	ctx := context.Background()
	c := wowhead.NewClient(nil, "https://www.wowhead.com", "test")
	t.Run("should return name from redirect target", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder("GET", "https://www.wowhead.com/icon=135274",
			redirectTo("https://www.wowhead.com/icon=135274/inv-sword-04"))
		httpmock.RegisterResponder("GET", "https://www.wowhead.com/icon=135274/inv-sword-04",
			httpmock.NewStringResponder(http.StatusOK, "<html></html>"))
		// when
		name, err := c.IconName(ctx, 135274)
		// then
		if assert.NoError(t, err) {
			assert.Equal(t, "inv_sword_04", name)
			assert.Equal(t, 2, httpmock.GetTotalCallCount())
		}
	})
	t.Run("should return name when redirected to other host", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder("GET", "https://www.wowhead.com/icon=42",
			redirectTo("https://example.com/icon=fel-blade"))
		httpmock.RegisterResponder("GET", "https://example.com/icon=fel-blade",
			httpmock.NewStringResponder(http.StatusOK, ""))
		// when
		name, err := c.IconName(ctx, 42)
		// then
		if assert.NoError(t, err) {
			assert.Equal(t, "fel_blade", name)
		}
	})
	t.Run("should report not found when redirected to unrelated page", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder("GET", "https://www.wowhead.com/icon=1",
			redirectTo("https://www.wowhead.com/icons"))
		httpmock.RegisterResponder("GET", "https://www.wowhead.com/icons",
			httpmock.NewStringResponder(http.StatusOK, ""))
		// when
		_, err := c.IconName(ctx, 1)
		// then
		assert.ErrorIs(t, err, wowhead.ErrNotFound)
	})
	t.Run("should report not found when not redirected", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder("GET", "https://www.wowhead.com/icon=2",
			httpmock.NewStringResponder(http.StatusNotFound, ""))
		// when
		_, err := c.IconName(ctx, 2)
		// then
		assert.ErrorIs(t, err, wowhead.ErrNotFound)
	})
	t.Run("should report request errors", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder("GET", "https://www.wowhead.com/icon=3",
			httpmock.NewErrorResponder(fmt.Errorf("some error")))
		// when
		_, err := c.IconName(ctx, 3)
		// then
		assert.Error(t, err)
		assert.NotErrorIs(t, err, wowhead.ErrNotFound)
	})
	t.Run("should send user agent", func(t *testing.T) {
		// given
		httpmock.Reset()
		httpmock.RegisterResponder("GET", "https://www.wowhead.com/icon=4", func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "test", req.Header.Get("User-Agent"))
			return httpmock.NewStringResponse(http.StatusOK, ""), nil
		})
		// when
		_, err := c.IconName(ctx, 4)
		// then
		assert.ErrorIs(t, err, wowhead.ErrNotFound)
	})
}

func TestClientIconNameWithServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/icon=7", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/icon=7/spell-holy-holybolt", http.StatusFound)
	})
	mux.HandleFunc("/icon=7/spell-holy-holybolt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	c := wowhead.NewClient(server.Client(), server.URL+"/", "")
	t.Run("should follow real redirects", func(t *testing.T) {
		name, err := c.IconName(context.Background(), 7)
		if assert.NoError(t, err) {
			assert.Equal(t, "spell_holy_holybolt", name)
		}
	})
	t.Run("should report not found for unknown page", func(t *testing.T) {
		_, err := c.IconName(context.Background(), 8)
		assert.ErrorIs(t, err, wowhead.ErrNotFound)
	})
}

func TestClientIconURL(t *testing.T) {
	c := wowhead.NewClient(nil, "https://www.wowhead.com/", "")
	assert.Equal(t, "https://www.wowhead.com/icon=42", c.IconURL(42))
}

func TestIconNameFromURL(t *testing.T) {
	cases := []struct {
		in   string
		name string
		ok   bool
	}{
		{"https://www.wowhead.com/icon=135274/inv-sword-04", "inv_sword_04", true},
		{"https://www.wowhead.com/icon=135274/inv-sword-04/", "inv_sword_04", true},
		{"https://www.wowhead.com/icon=135274/inv_misc_gem_01?x=1#top", "inv_misc_gem_01", true},
		{"https://example.com/icon=fel-blade", "fel_blade", true},
		{"https://www.wowhead.com/mop-classic/icon=1/trade-alchemy", "trade_alchemy", true},
		{"https://www.wowhead.com/icons", "", false},
		{"https://www.wowhead.com/", "", false},
		{"https://www.wowhead.com/icon=", "", false},
		{"https://www.wowhead.com/icon=5/inv%22sword", "inv%22sword", true},
		{"https://www.wowhead.com/icon=5/inv%5Csword", "inv%5Csword", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			u, err := url.Parse(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			name, ok := wowhead.IconNameFromURL(u)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.name, name)
		})
	}
}
