package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

// erroringModel is an llms.Model double whose calls always fail.
type erroringModel struct {
	err   error
	calls int
}

func (m *erroringModel) GenerateContent(_ context.Context, _ []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	return nil, m.err
}

func (m *erroringModel) Call(_ context.Context, _ string, _ ...llms.CallOption) (string, error) {
	m.calls++
	return "", m.err
}

func TestGenerateWithSystemStopsCallingAfterFatalError(t *testing.T) {
	provider := &erroringModel{err: errors.New("insufficient credit balance")}
	m := &Model{llm: provider, modelName: "test-model"}

	_, err := m.GenerateWithSystem(context.Background(), "sys", "user")
	if !errors.Is(err, ErrFatalAPI) {
		t.Fatalf("expected ErrFatalAPI, got %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.calls)
	}

	// The fatal error disables the provider: later calls fail immediately
	// without reaching it.
	_, err = m.GenerateWithSystem(context.Background(), "sys", "user")
	if !errors.Is(err, ErrFatalAPI) {
		t.Fatalf("expected ErrFatalAPI on later calls, got %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d after fatal error, want 1", provider.calls)
	}
}

func TestGenerateWithSystemRetriesAfterTransientError(t *testing.T) {
	provider := &erroringModel{err: errors.New("connection reset")}
	m := &Model{llm: provider, modelName: "test-model"}

	for i := 0; i < 2; i++ {
		_, err := m.GenerateWithSystem(context.Background(), "sys", "user")
		if err == nil {
			t.Fatal("expected an error")
		}
		if errors.Is(err, ErrFatalAPI) {
			t.Fatalf("transient error misreported as fatal: %v", err)
		}
	}
	if provider.calls != 2 {
		t.Errorf("provider calls = %d, want 2 (transient errors must not disable it)", provider.calls)
	}
}

func TestIsFatalAPIError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("connection reset"), false},
		{"credit balance", errors.New("insufficient credit balance"), true},
		{"rate limit", errors.New("rate limit exceeded"), true},
		{"quota exceeded", errors.New("quota exceeded for model"), true},
		{"billing issue", errors.New("billing account inactive"), true},
		{"invalid api key", errors.New("invalid api key"), true},
		{"authentication failed", errors.New("authentication failed"), true},
		{"unauthorized", errors.New("unauthorized request"), true},
		{"401 status", errors.New("HTTP 401: not allowed"), true},
		{"403 status", errors.New("HTTP 403: forbidden"), true},
		{"wrapped error", fmt.Errorf("classify: %w", errors.New("credit balance too low")), true},
		{"404 not fatal", errors.New("HTTP 404: not found"), false},
		{"timeout not fatal", errors.New("context deadline exceeded"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isFatalAPIError(tt.err)
			if got != tt.fatal {
				t.Errorf("isFatalAPIError(%v) = %v, want %v", tt.err, got, tt.fatal)
			}
		})
	}
}

func TestWrapFatalError(t *testing.T) {
	t.Run("wraps fatal error", func(t *testing.T) {
		err := errors.New("invalid api key provided")
		wrapped := wrapFatalError(err)
		if !errors.Is(wrapped, ErrFatalAPI) {
			t.Errorf("expected wrapped error to match ErrFatalAPI")
		}
	})

	t.Run("passes through non-fatal error", func(t *testing.T) {
		err := errors.New("network timeout")
		result := wrapFatalError(err)
		if errors.Is(result, ErrFatalAPI) {
			t.Errorf("non-fatal error should not be wrapped with ErrFatalAPI")
		}
		if result != err {
			t.Errorf("expected original error returned, got %v", result)
		}
	})

	t.Run("nil error", func(t *testing.T) {
		result := wrapFatalError(nil)
		if result != nil {
			t.Errorf("expected nil, got %v", result)
		}
	})
}

func TestDecodeJSONResponse(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"bare object", `{"name": "Lead Sync"}`, "Lead Sync", false},
		{"json fence", "```json\n{\"name\": \"Lead Sync\"}\n```", "Lead Sync", false},
		{"plain fence", "```\n{\"name\": \"Lead Sync\"}\n```", "Lead Sync", false},
		{"leading prose", "Sure, here you go: {\"name\": \"Lead Sync\"} hope that helps", "Lead Sync", false},
		{"no json", "I cannot answer that.", "", true},
		{"malformed", `{"name": `, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := DecodeJSONResponse(tt.raw, &got)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.want {
				t.Errorf("got %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestDecodeJSONResponseArray(t *testing.T) {
	var got []string
	err := DecodeJSONResponse("```json\n[\"a\", \"b\"]\n```", &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("got %v", got)
	}
}
