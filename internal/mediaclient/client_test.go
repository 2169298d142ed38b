// GeoLens - Geotagged Media Map Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geolens

package mediaclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/geolens/internal/query"
)

var testParams = query.Parameters{
	Lat:       "40",
	Lng:       "-160",
	Radius:    "30150000",
	StartDate: "0001-01-01T00:00:00.000Z",
	EndDate:   "9999-12-31T23:59:59.000Z",
}

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL + "/", SkipBrowserWarning: true}
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewClient(cfg)
	checkNoError(t, err)
	return c
}

func TestClient_FetchMediaSuccess(t *testing.T) {
	var gotReq *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"media":[{"id":1,"lat":1,"lng":2},{"id":2}]}`))
	}, nil)

	recs, err := c.FetchMedia(context.Background(), testParams)
	checkNoError(t, err)
	if len(recs) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(recs))
	}

	checkStringEqual(t, "path", gotReq.URL.Path, "/media")
	q := gotReq.URL.Query()
	checkStringEqual(t, "lat", q.Get("lat"), "40")
	checkStringEqual(t, "lng", q.Get("lng"), "-160")
	checkStringEqual(t, "radius", q.Get("radius"), "30150000")
	checkStringEqual(t, "start_date", q.Get("start_date"), "0001-01-01T00:00:00.000Z")
	checkStringEqual(t, "end_date", q.Get("end_date"), "9999-12-31T23:59:59.000Z")
	checkStringEqual(t, "Content-Type", gotReq.Header.Get("Content-Type"), "application/json")
	checkStringEqual(t, BrowserWarningHeader, gotReq.Header.Get(BrowserWarningHeader), "true")
	checkStringEqual(t, "User-Agent", gotReq.Header.Get("User-Agent"), DefaultUserAgent)
}

func TestClient_BrowserWarningHeaderOptional(t *testing.T) {
	var header string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get(BrowserWarningHeader)
		_, _ = w.Write([]byte(`{"media":[]}`))
	}, func(cfg *Config) { cfg.SkipBrowserWarning = false })

	_, err := c.FetchMedia(context.Background(), testParams)
	checkNoError(t, err)
	checkStringEqual(t, BrowserWarningHeader, header, "")
}

func TestClient_MissingMediaField(t *testing.T) {
	for _, body := range []string{`{}`, `{"media":null}`} {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		}, nil)

		recs, err := c.FetchMedia(context.Background(), testParams)
		checkNoError(t, err)
		if recs == nil || len(recs) != 0 {
			t.Errorf("body %s: records = %#v, want empty non-nil", body, recs)
		}
	}
}

func TestClient_ServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail string", http.StatusNotFound, `{"detail":"not found"}`, "HTTP error! status: 404, message: not found"},
		{"no detail", http.StatusInternalServerError, `{}`, "HTTP error! status: 500, message: Unknown error"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP error! status: 502, message: Unknown error"},
		{"empty body", http.StatusServiceUnavailable, ``, "HTTP error! status: 503, message: Unknown error"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"bad lat"}]}`, `HTTP error! status: 422, message: [{"msg":"bad lat"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			_, err := c.FetchMedia(context.Background(), testParams)
			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("expected *ServerError, got %T: %v", err, err)
			}
			if serverErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", serverErr.StatusCode, tt.status)
			}
			checkStringEqual(t, "message", err.Error(), tt.wantMsg)
		})
	}
}

func TestClient_ParseErrors(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"media":[`))
		}, nil)
		_, err := c.FetchMedia(context.Background(), testParams)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %T: %v", err, err)
		}
	})

	t.Run("oversized body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"media":[` + strings.Repeat(`{},`, 100) + `{}]}`))
		}, func(cfg *Config) { cfg.MaxResponseBytes = 64 })
		_, err := c.FetchMedia(context.Background(), testParams)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected *ParseError, got %T: %v", err, err)
		}
		if !strings.Contains(err.Error(), "exceeds 64 bytes") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestClient_TransportErrors(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		c, err := NewClient(Config{BaseURL: base})
		checkNoError(t, err)
		_, err = c.FetchMedia(context.Background(), testParams)
		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			t.Fatalf("expected *TransportError, got %T: %v", err, err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		release := make(chan struct{})
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}, nil)
		defer close(release)

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(20*time.Millisecond, cancel)

		_, err := c.FetchMedia(ctx, testParams)
		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			t.Fatalf("expected *TransportError, got %T: %v", err, err)
		}
		if !IsCanceled(err) {
			t.Errorf("IsCanceled(%v) = false", err)
		}
	})
}

func TestClient_Cache(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"media":[{"id":1}]}`))
	}, func(cfg *Config) { cfg.CacheTTL = time.Minute })

	if c.Cache() == nil {
		t.Fatal("Cache() should not be nil when CacheTTL > 0")
	}

	for i := 0; i < 3; i++ {
		recs, err := c.FetchMedia(context.Background(), testParams)
		checkNoError(t, err)
		if len(recs) != 1 {
			t.Fatalf("len(records) = %d", len(recs))
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1", got)
	}

	other := testParams
	other.Radius = "25"
	_, err := c.FetchMedia(context.Background(), other)
	checkNoError(t, err)
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2 after a different query", got)
	}
}

func TestClient_ErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *Config) { cfg.CacheTTL = time.Minute })

	_, _ = c.FetchMedia(context.Background(), testParams)
	_, _ = c.FetchMedia(context.Background(), testParams)
	if got := calls.Load(); got != 2 {
		t.Errorf("server calls = %d, want 2", got)
	}
}

func TestClient_RateLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"media":[]}`))
	}, func(cfg *Config) {
		cfg.RateLimit = 0.001
		cfg.RateBurst = 1
	})

	_, err := c.FetchMedia(context.Background(), testParams)
	checkNoError(t, err)

	// The bucket is empty; the next call cannot be admitted before the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.FetchMedia(ctx, testParams)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError from limiter, got %T: %v", err, err)
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "not a url", "ftp://example.com", "http://"} {
		if _, err := NewClient(Config{BaseURL: base}); err == nil {
			t.Errorf("NewClient(%q) should fail", base)
		}
	}
}

func TestServerError_Temporary(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}
	for _, tt := range tests {
		if got := (&ServerError{StatusCode: tt.status}).Temporary(); got != tt.want {
			t.Errorf("Temporary() for %d = %v, want %v", tt.status, got, tt.want)
		}
	}
}
