package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"poker-miniapp/internal/config"
	"poker-miniapp/internal/identity"
)

// Client issues backend calls with the identity decided per request by the
// identity package and classifies every response into an Outcome. It holds
// no mutable state and is safe for concurrent use.
type Client struct {
	baseURL   string
	devUserID int64
	src       identity.Source
	http      *http.Client
	log       zerolog.Logger
}

func New(cfg config.ClientConfig, src identity.Source) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		devUserID: cfg.DevUserID,
		src:       src,
		http:      &http.Client{Timeout: timeout},
		log:       log.With().Str("component", "gateway").Logger(),
	}
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is marshalled as JSON when non-nil. RawBody wins over Body and
	// is sent verbatim with ContentType (no header when ContentType is
	// empty, e.g. opaque binary uploads).
	Body        any
	RawBody     []byte
	ContentType string
}

// Send performs at most two HTTP round trips: the request itself, plus one
// dev-identity fallback attempt when a Telegram credential was presented
// and rejected with 401. The fallback keeps the client usable while the
// backend's init data validation lags a rollout; it never triggers when the
// caller already pinned an explicit user_id.
func (c *Client) Send(ctx context.Context, req Request) Outcome {
	id := identity.Resolve(c.src)
	out := c.attempt(ctx, req, id, false)
	if out.Kind == KindUnauthenticated &&
		id.Mode == identity.ModeTelegram &&
		req.Query.Get(identity.QueryUserID) == "" {
		c.log.Warn().
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("telegram credential rejected, retrying once with dev identity")
		return c.attempt(ctx, req, id, true)
	}
	return out
}

func (c *Client) attempt(ctx context.Context, req Request, id identity.Identity, devFallback bool) Outcome {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimLeft(req.Path, "/"))
	if err != nil {
		return Outcome{Kind: KindError, Detail: err.Error()}
	}

	q := u.Query()
	for k, vs := range req.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	devID := strconv.FormatInt(c.devUserID, 10)
	switch {
	case id.Mode == identity.ModeDev:
		if q.Get(identity.QueryUserID) == "" {
			q.Set(identity.QueryUserID, devID)
		}
	case devFallback:
		q.Set(identity.QueryUserID, devID)
	}
	u.RawQuery = q.Encode()

	var body io.Reader
	contentType := ""
	switch {
	case req.RawBody != nil:
		body = bytes.NewReader(req.RawBody)
		contentType = req.ContentType
	case req.Body != nil:
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return Outcome{Kind: KindError, Detail: err.Error()}
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return Outcome{Kind: KindError, Detail: err.Error()}
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if id.Mode == identity.ModeTelegram {
		httpReq.Header.Set(identity.HeaderInitData, id.Credential)
	}
	reqID := newRequestID()
	httpReq.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("request_id", reqID).
			Msg("request failed before a response arrived")
		return Outcome{Kind: KindError, Detail: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{Kind: KindError, Status: resp.StatusCode, Detail: err.Error()}
	}

	out := classify(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Str("request_id", reqID).
		Int("status", resp.StatusCode).
		Str("kind", string(out.Kind)).
		Msg("request settled")
	return out
}

// classify maps one HTTP response onto the outcome set. Ordering matters:
// auth and not-found are recognised before the generic non-2xx bucket.
func classify(status int, contentType string, body []byte) Outcome {
	detail := strings.TrimSpace(string(body))
	switch {
	case status == http.StatusUnauthorized:
		return Outcome{Kind: KindUnauthenticated, Status: status, Detail: detail}
	case status == http.StatusNotFound:
		return Outcome{Kind: KindNotFound, Status: status, Detail: detail}
	case status < 200 || status > 299:
		return Outcome{Kind: KindError, Status: status, Detail: detail}
	}
	if isJSONContentType(contentType) {
		payload := bytes.TrimSpace(body)
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		if !json.Valid(payload) {
			return Outcome{Kind: KindError, Status: status, Detail: "invalid_json_body"}
		}
		return Outcome{Kind: KindSuccess, Status: status, Payload: payload}
	}
	// 2xx without a JSON body still counts as success, e.g. a bare 204
	// from an action endpoint.
	return Outcome{Kind: KindSuccess, Status: status, Payload: []byte("{}")}
}

func isJSONContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
