package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"poker-miniapp/internal/config"
	"poker-miniapp/internal/identity"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(src identity.Source, fn roundTripFunc) *Client {
	c := New(config.ClientConfig{BaseURL: "http://backend.test/api", DevUserID: 1}, src)
	c.http = &http.Client{Transport: fn}
	return c
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/plain"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type callRecorder struct {
	mu   sync.Mutex
	reqs []*http.Request
}

func (r *callRecorder) record(req *http.Request) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return len(r.reqs)
}

func (r *callRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

const telegramPayload = "query_id=abc&user=%7B%22id%22%3A7%7D&hash=ff"

func TestDevModeAlwaysCarriesDevIdentity(t *testing.T) {
	var rec callRecorder
	c := newTestClient(identity.StaticSource(""), func(req *http.Request) (*http.Response, error) {
		rec.record(req)
		if got := req.URL.Query().Get("user_id"); got != "1" {
			t.Fatalf("user_id = %q, want 1", got)
		}
		if req.Header.Get(identity.HeaderInitData) != "" {
			t.Fatal("dev request must not carry the Telegram header")
		}
		return jsonResponse(200, `{"ok":true}`), nil
	})

	out := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/tables"})
	if !out.OK() {
		t.Fatalf("outcome = %+v, want success", out)
	}
	if rec.count() != 1 {
		t.Fatalf("calls = %d, want 1", rec.count())
	}
}

func TestTelegramModeCarriesHeaderNotQuery(t *testing.T) {
	c := newTestClient(identity.StaticSource(telegramPayload), func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get(identity.HeaderInitData); got != telegramPayload {
			t.Fatalf("init data header = %q", got)
		}
		if req.URL.Query().Get("user_id") != "" {
			t.Fatal("telegram request must not carry user_id")
		}
		return jsonResponse(200, `{}`), nil
	})

	if out := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/tables"}); !out.OK() {
		t.Fatalf("outcome = %+v, want success", out)
	}
}

func TestUnauthenticatedFallbackRetriesExactlyOnce(t *testing.T) {
	var rec callRecorder
	c := newTestClient(identity.StaticSource(telegramPayload), func(req *http.Request) (*http.Response, error) {
		n := rec.record(req)
		if n == 1 {
			if req.URL.Query().Get("user_id") != "" {
				t.Fatal("first attempt must not carry user_id")
			}
			return jsonResponse(401, `{"error":"invalid session"}`), nil
		}
		// fallback attempt keeps the credential and adds the dev id
		if req.Header.Get(identity.HeaderInitData) != telegramPayload {
			t.Fatal("fallback attempt dropped the Telegram header")
		}
		if got := req.URL.Query().Get("user_id"); got != "1" {
			t.Fatalf("fallback user_id = %q, want 1", got)
		}
		return jsonResponse(200, `{"ok":true}`), nil
	})

	out := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/game/state/T1"})
	if !out.OK() {
		t.Fatalf("outcome = %+v, want success after fallback", out)
	}
	if rec.count() != 2 {
		t.Fatalf("calls = %d, want 2", rec.count())
	}
}

func TestFallbackFailureIsNotRetriedAgain(t *testing.T) {
	var rec callRecorder
	c := newTestClient(identity.StaticSource(telegramPayload), func(req *http.Request) (*http.Response, error) {
		rec.record(req)
		return jsonResponse(401, `nope`), nil
	})

	out := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/tables"})
	if out.Kind != KindUnauthenticated {
		t.Fatalf("kind = %q, want unauthenticated", out.Kind)
	}
	if rec.count() != 2 {
		t.Fatalf("calls = %d, want exactly 2 (initial + one fallback)", rec.count())
	}
}

func TestNoFallbackWhenCallerPinnedUserID(t *testing.T) {
	var rec callRecorder
	c := newTestClient(identity.StaticSource(telegramPayload), func(req *http.Request) (*http.Response, error) {
		rec.record(req)
		return jsonResponse(401, ``), nil
	})

	out := c.Send(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/user/stats",
		Query:  url.Values{"user_id": {"7"}},
	})
	if out.Kind != KindUnauthenticated {
		t.Fatalf("kind = %q, want unauthenticated", out.Kind)
	}
	if rec.count() != 1 {
		t.Fatalf("calls = %d, want 1", rec.count())
	}
}

func TestNoFallbackInDevMode(t *testing.T) {
	var rec callRecorder
	c := newTestClient(identity.StaticSource(""), func(req *http.Request) (*http.Response, error) {
		rec.record(req)
		return jsonResponse(401, ``), nil
	})

	if out := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/tables"}); out.Kind != KindUnauthenticated {
		t.Fatalf("kind = %q, want unauthenticated", out.Kind)
	}
	if rec.count() != 1 {
		t.Fatalf("calls = %d, want 1", rec.count())
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		name    string
		resp    *http.Response
		kind    Kind
		detail  string
		payload string
	}{
		{"not found", jsonResponse(404, `{"error":"gone"}`), KindNotFound, `{"error":"gone"}`, ""},
		{"server error", textResponse(500, "boom"), KindError, "boom", ""},
		{"json success", jsonResponse(200, `{"pot":40}`), KindSuccess, "", `{"pot":40}`},
		{"non-json success", textResponse(200, "ok"), KindSuccess, "", `{}`},
		{"empty json success", jsonResponse(204, ""), KindSuccess, "", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(identity.StaticSource(""), func(*http.Request) (*http.Response, error) {
				return tc.resp, nil
			})
			out := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
			if out.Kind != tc.kind {
				t.Fatalf("kind = %q, want %q", out.Kind, tc.kind)
			}
			if tc.detail != "" && out.Detail != tc.detail {
				t.Fatalf("detail = %q, want %q", out.Detail, tc.detail)
			}
			if tc.payload != "" && string(out.Payload) != tc.payload {
				t.Fatalf("payload = %s, want %s", out.Payload, tc.payload)
			}
		})
	}
}

func TestNetworkFailureBecomesErrorOutcome(t *testing.T) {
	c := newTestClient(identity.StaticSource(""), func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})

	out := c.Send(context.Background(), Request{Method: http.MethodGet, Path: "/tables"})
	if out.Kind != KindError || out.Status != 0 {
		t.Fatalf("outcome = %+v, want error with status 0", out)
	}
	var te *TransportError
	if err := out.Err(); !errors.As(err, &te) || !errors.Is(err, ErrTransport) {
		t.Fatalf("Err() = %v, want TransportError wrapping ErrTransport", err)
	}
}

func TestContentTypeOnlyWhenBodyPresent(t *testing.T) {
	c := newTestClient(identity.StaticSource(""), func(req *http.Request) (*http.Response, error) {
		switch req.Method {
		case http.MethodGet:
			if req.Header.Get("Content-Type") != "" {
				t.Fatal("GET without body must not carry Content-Type")
			}
		case http.MethodPost:
			if got := req.Header.Get("Content-Type"); got != "application/json" {
				t.Fatalf("Content-Type = %q, want application/json", got)
			}
		}
		if req.Header.Get("Accept") != "application/json" {
			t.Fatal("every request must accept JSON")
		}
		return jsonResponse(200, `{}`), nil
	})

	ctx := context.Background()
	c.Send(ctx, Request{Method: http.MethodGet, Path: "/tables"})
	c.Send(ctx, Request{Method: http.MethodPost, Path: "/game/ready", Body: map[string]string{"game_id": "T1"}})
}

func TestOutcomeErrMapping(t *testing.T) {
	if err := (Outcome{Kind: KindUnauthenticated}).Err(); !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("unauthenticated Err() = %v", err)
	}
	if err := (Outcome{Kind: KindNotFound}).Err(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("not found Err() = %v", err)
	}
	if err := (Outcome{Kind: KindSuccess}).Err(); err != nil {
		t.Fatalf("success Err() = %v, want nil", err)
	}
}
