package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/malakhossam/murshid/common/trace"
)

// echoTutor replies with a fixed string and records what it was asked.
type echoTutor struct {
	reply       string
	lastUserID  string
	lastMessage string
	lastTraceID string
}

func (e *echoTutor) Handle(ctx context.Context, userID, message string) string {
	e.lastUserID = userID
	e.lastMessage = message
	e.lastTraceID = trace.FromContext(ctx)
	return e.reply
}

func newTestServer(t *testing.T, tutor *echoTutor) *httptest.Server {
	t.Helper()
	s := New("127.0.0.1:0", "test", tutor)
	ts := httptest.NewServer(s.TestHandler())
	t.Cleanup(ts.Close)
	return ts
}

func postChat(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/chat", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /chat: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestChatRoundTrip(t *testing.T) {
	tutor := &echoTutor{reply: "مرحباً بك"}
	ts := newTestServer(t, tutor)

	resp := postChat(t, ts, `{"user_id":"u1","message":"مرحبا"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Response != "مرحباً بك" {
		t.Errorf("response = %q, want reply from tutor", out.Response)
	}
	if tutor.lastUserID != "u1" || tutor.lastMessage != "مرحبا" {
		t.Errorf("tutor saw user=%q message=%q", tutor.lastUserID, tutor.lastMessage)
	}
}

func TestChatRequiresUserID(t *testing.T) {
	ts := newTestServer(t, &echoTutor{reply: "x"})

	for name, body := range map[string]string{
		"missing": `{"message":"مرحبا"}`,
		"blank":   `{"user_id":"   ","message":"مرحبا"}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp := postChat(t, ts, body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestChatRejectsMalformedJSON(t *testing.T) {
	ts := newTestServer(t, &echoTutor{reply: "x"})

	resp := postChat(t, ts, `{"user_id":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if out["error"] == "" {
		t.Error("error body missing error field")
	}
}

func TestChatRejectsOversizeBody(t *testing.T) {
	ts := newTestServer(t, &echoTutor{reply: "x"})

	big := bytes.Repeat([]byte("ا"), maxChatBodyBytes+1024)
	body := `{"user_id":"u1","message":"` + string(big) + `"}`
	resp := postChat(t, ts, body)
	if resp.StatusCode == http.StatusOK {
		t.Errorf("oversize body accepted, status = %d", resp.StatusCode)
	}
}

func TestTracePropagation(t *testing.T) {
	tutor := &echoTutor{reply: "x"}
	ts := newTestServer(t, tutor)

	resp := postChat(t, ts, `{"user_id":"u1","message":"م"}`)
	traceID := resp.Header.Get("X-Trace-ID")
	if traceID == "" {
		t.Fatal("X-Trace-ID header missing")
	}
	if tutor.lastTraceID != traceID {
		t.Errorf("tutor trace = %q, header trace = %q", tutor.lastTraceID, traceID)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &echoTutor{reply: "x"})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Status != "ok" || out.Version != "test" {
		t.Errorf("health = %+v", out)
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &echoTutor{reply: "x"})

	resp, err := http.Get(ts.URL + "/chat")
	if err != nil {
		t.Fatalf("GET /chat: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
