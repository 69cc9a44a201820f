package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMorphology_FirstResultReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/morphology" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req morphologyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Text != "كتاب" {
			t.Errorf("expected word %q, got %q", "كتاب", req.Text)
		}
		w.Write([]byte(`{"result":[{"root":"ك ت ب","pattern":"فِعَال"},{"root":"ignored"}]}`))
	}))
	defer srv.Close()

	client := NewMorphology(srv.URL, time.Second)
	got, err := client.Analyze(context.Background(), "كتاب")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["root"] != "ك ت ب" || got["pattern"] != "فِعَال" {
		t.Errorf("unexpected analysis: %v", got)
	}
}

func TestMorphology_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[]}`))
	}))
	defer srv.Close()

	client := NewMorphology(srv.URL, time.Second)
	_, err := client.Analyze(context.Background(), "غامض")
	if !errors.Is(err, ErrNoAnalysis) {
		t.Fatalf("expected ErrNoAnalysis, got %v", err)
	}
}

func TestMorphology_ServerErrorRetriedThenSurfaced(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewMorphology(srv.URL, time.Second)
	_, err := client.Analyze(context.Background(), "كتاب")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if calls != retryConfig.MaxAttempts {
		t.Errorf("expected %d attempts for a 500, got %d", retryConfig.MaxAttempts, calls)
	}
}

func TestMorphology_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewMorphology(srv.URL, time.Second)
	_, err := client.Analyze(context.Background(), "كتاب")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if calls != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", calls)
	}
}

func TestMorphology_EventualSuccessAfterTransientFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"result":[{"root":"ك ت ب"}]}`))
	}))
	defer srv.Close()

	client := NewMorphology(srv.URL, time.Second)
	got, err := client.Analyze(context.Background(), "كتاب")
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if got["root"] != "ك ت ب" {
		t.Errorf("unexpected analysis: %v", got)
	}
}

func TestMeaning_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req meaningRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Word != "سعيد" || req.Type != LookupAntonyms {
			t.Errorf("unexpected request: %+v", req)
		}
		w.Write([]byte(`{"result":"حزين"}`))
	}))
	defer srv.Close()

	client := NewMeaning(srv.URL, time.Second)
	got, err := client.Lookup(context.Background(), "سعيد", LookupAntonyms)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "حزين" {
		t.Errorf("expected %q, got %q", "حزين", got)
	}
}

func TestMeaning_EmptyResultIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":""}`))
	}))
	defer srv.Close()

	client := NewMeaning(srv.URL, time.Second)
	got, err := client.Lookup(context.Background(), "غامض", LookupPlural)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

func TestMeaning_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewMeaning(srv.URL, time.Second)
	if _, err := client.Lookup(context.Background(), "سعيد", LookupSynonyms); err == nil {
		t.Fatal("expected error for malformed body")
	}
}
