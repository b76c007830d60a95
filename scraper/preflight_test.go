package scraper

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

func TestPreflightStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLabel string
	}{
		{name: "ok", status: http.StatusOK, wantLabel: ""},
		{name: "forbidden", status: http.StatusForbidden, wantLabel: "forbidden"},
		{name: "not found", status: http.StatusNotFound, wantLabel: "not_found"},
		{name: "rate limited", status: http.StatusTooManyRequests, wantLabel: "rate_limited"},
		{name: "server error", status: http.StatusInternalServerError, wantLabel: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewPreflightClient("test-agent", time.Second)
			httpmock.ActivateNonDefault(client.GetClient())
			defer httpmock.DeactivateAndReset()

			url := "https://site.test/listing/"
			httpmock.RegisterResponder("GET", url,
				httpmock.NewStringResponder(tt.status, "body"))

			err := Preflight(context.Background(), client, url)
			if tt.wantLabel == "" {
				if err != nil {
					t.Fatalf("Preflight() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Preflight() = nil, want error for status %d", tt.status)
			}
			if got := errorTypeLabel(err); got != tt.wantLabel {
				t.Fatalf("errorTypeLabel = %q, want %q", got, tt.wantLabel)
			}
		})
	}
}

func TestPreflightConnectionFailure(t *testing.T) {
	client := NewPreflightClient("test-agent", time.Second)
	httpmock.ActivateNonDefault(client.GetClient())
	defer httpmock.DeactivateAndReset()

	url := "https://down.test/"
	httpmock.RegisterResponder("GET", url,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	err := Preflight(context.Background(), client, url)
	if err == nil {
		t.Fatalf("Preflight() = nil, want connection error")
	}
	var conn ErrConnection
	if !errors.As(err, &conn) {
		t.Fatalf("error = %v, want ErrConnection", err)
	}
}
