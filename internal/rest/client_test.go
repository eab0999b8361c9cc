package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return New(srv.URL, srv.Client(), "accountflow-test", logger), srv
}

func TestGetDecodesSuccessBody(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		w.Write([]byte(`{"email":"a@b.nl"}`))
	}))

	var out struct {
		Email string `json:"email"`
	}
	if err := c.Get(context.Background(), "/api/whoami", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out.Email != "a@b.nl" {
		t.Fatalf("unexpected body: %+v", out)
	}
}

func TestPostSendsJSONAndUserAgent(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if ua := r.Header.Get("User-Agent"); ua != "accountflow-test" {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.Write([]byte(`{}`))
	}))

	if err := c.Post(context.Background(), "/api/login", map[string]string{"email": "a@b.nl"}, nil); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
}

func TestPostNilBodySendsEmptyObject(t *testing.T) {
	var got []byte
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 16)
		n, _ := r.Body.Read(buf)
		got = buf[:n]
		w.Write([]byte(`{}`))
	}))

	if err := c.Post(context.Background(), "/api/logout", nil, nil); err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("expected empty JSON object body, got %q", got)
	}
}

func TestNonSuccessStatusYieldsCallError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":1,"message":"invalid_credentials"}`))
	}))

	err := c.Post(context.Background(), "/api/login", nil, nil)
	var call *CallError
	if !errors.As(err, &call) {
		t.Fatalf("expected *CallError, got %v", err)
	}
	if call.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", call.Status)
	}
	if call.MessageKey() != "invalid_credentials" {
		t.Fatalf("unexpected key %q", call.MessageKey())
	}
}

func TestErrorBodyWithoutCodeMapsToUnknown(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))

	err := c.Get(context.Background(), "/api/whoami", nil)
	var call *CallError
	if !errors.As(err, &call) {
		t.Fatalf("expected *CallError, got %v", err)
	}
	if call.MessageKey() != KeyUnknownError {
		t.Fatalf("expected %s, got %q", KeyUnknownError, call.MessageKey())
	}
}

func TestDeadServerYieldsNetworkError(t *testing.T) {
	c, srv := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := c.Get(context.Background(), "/api/whoami", nil)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %v", err)
	}
}

func TestUndecodableSuccessBodyYieldsNetworkError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))

	var out struct{}
	err := c.Get(context.Background(), "/api/whoami", &out)
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %v", err)
	}
}
