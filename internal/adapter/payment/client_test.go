package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/polkiloo/storefront/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestStatusReturnsReport(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"transaction_id":"tx-1","status":"PAID"}`)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL+"/gateway", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	report, err := client.Status(context.Background(), "tx-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TransactionID != "tx-1" || report.Status != model.PaymentStatusPaid {
		t.Fatalf("unexpected report: %+v", report)
	}
	if gotPath != "/gateway/api/payments/tx-1" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected json accept header, got %q", gotAccept)
	}
}

func TestStatusFillsMissingTransactionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"failed"}`)
	}))
	defer srv.Close()

	client, _ := NewHTTPClient(srv.URL, testLogger())
	report, err := client.Status(context.Background(), "tx-2")
	if err != nil || report.TransactionID != "tx-2" || report.Status != model.PaymentStatusFailed {
		t.Fatalf("unexpected report: %+v err=%v", report, err)
	}
}

func TestStatusRejectsBadPayloads(t *testing.T) {
	bodies := map[string]string{
		"malformed json": `{"status":`,
		"unknown status": `{"transaction_id":"tx","status":"settled"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			defer srv.Close()

			client, _ := NewHTTPClient(srv.URL, testLogger())
			if _, err := client.Status(context.Background(), "tx"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestStatusHandlesSpecialStatuses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		header     http.Header
		wantErr    error
	}{
		{name: "not registered", statusCode: http.StatusNoContent, wantErr: ErrPaymentNotRegistered},
		{name: "too many requests", statusCode: http.StatusTooManyRequests, header: http.Header{"Retry-After": []string{"5"}}, wantErr: TooManyRequestsError{RetryAfter: 5 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tt.header {
					for _, v := range values {
						w.Header().Add(key, v)
					}
				}
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			client, err := NewHTTPClient(srv.URL, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			_, err = client.Status(context.Background(), "tx")
			if tt.statusCode == http.StatusTooManyRequests {
				var tm TooManyRequestsError
				if !errors.As(err, &tm) {
					t.Fatalf("expected TooManyRequestsError, got %v", err)
				}
				if tm.RetryAfter != 5*time.Second {
					t.Fatalf("expected retry after 5s, got %v", tm.RetryAfter)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStatusLogsErrorResponses(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})
	logger := slog.New(handler)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.Status(context.Background(), "tx"); err == nil {
		t.Fatal("expected error from server")
	}

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("expected error log to be written")
	}
}

func TestStatusTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client, _ := NewHTTPClient(srv.URL, testLogger())
	if _, err := client.Status(context.Background(), "tx"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Now()
	httpTime := now.Add(2 * time.Second).UTC().Format(http.TimeFormat)

	cases := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "empty", header: "", want: 5 * time.Second},
		{name: "seconds", header: "7", want: 7 * time.Second},
		{name: "http date", header: httpTime, want: 2 * time.Second},
		{name: "fallback", header: "bad", want: 5 * time.Second},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseRetryAfter(tc.header)
			if tc.header == httpTime {
				if got <= 0 || got > 3*time.Second {
					t.Fatalf("unexpected retry duration %v", got)
				}
			} else if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDisabledClient(t *testing.T) {
	if _, err := (DisabledClient{}).Status(context.Background(), "tx"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if (DisabledClient{}).Enabled() {
		t.Fatal("disabled client must report itself disabled")
	}
	client, err := NewHTTPClient("http://processor", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if !client.Enabled() {
		t.Fatal("http client must report itself enabled")
	}
}

func TestStatusEscapesTransactionID(t *testing.T) {
	var gotPaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL+"/gateway/", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	cases := []struct {
		id   string
		want string
	}{
		{"../../admin", "/gateway/api/payments/..%2F..%2Fadmin"},
		{"a/b", "/gateway/api/payments/a%2Fb"},
		{"tx?x=1", "/gateway/api/payments/tx%3Fx=1"},
	}
	for _, tc := range cases {
		if _, err := client.Status(context.Background(), tc.id); !errors.Is(err, ErrPaymentNotRegistered) {
			t.Fatalf("%q: expected not registered, got %v", tc.id, err)
		}
	}
	if len(gotPaths) != len(cases) {
		t.Fatalf("expected %d requests, got %v", len(cases), gotPaths)
	}
	for i, tc := range cases {
		if gotPaths[i] != tc.want {
			t.Fatalf("%q: expected path %s, got %s", tc.id, tc.want, gotPaths[i])
		}
	}
}
