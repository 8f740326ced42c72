package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api/")
}

func TestRequestSuccessEnvelope(t *testing.T) {
	var gotPath, gotQuery, gotReqID string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = io.WriteString(w, `{"success":true,"data":[{"_id":"1"}]}`)
	})

	env := c.Get(context.Background(), "/energy/historical", map[string][]string{"interval": {"daily"}})
	require.NoError(t, env.Err())
	assert.Equal(t, "/api/energy/historical", gotPath)
	assert.Equal(t, "interval=daily", gotQuery)
	assert.NotEmpty(t, gotReqID)

	var out []struct {
		ID string `json:"_id"`
	}
	require.NoError(t, env.Decode(&out))
	assert.Equal(t, "1", out[0].ID)
}

func TestRequestSendsJSONBody(t *testing.T) {
	var body map[string]any
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"success":true,"data":{}}`)
	})

	env := c.Put(context.Background(), "recommendations/r1/status", map[string]bool{"implemented": true})
	require.NoError(t, env.Err())
	assert.Equal(t, true, body["implemented"])
}

func TestApplicationFailureEnvelope(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"error":"Appliance not found"}`)
	})

	env := c.Get(context.Background(), "/appliances/x", nil)
	err := env.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrApplication)
	assert.Contains(t, err.Error(), "Appliance not found")
	assert.False(t, IsTransport(err))
}

func TestNon2xxBecomesFailure(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"success":false,"error":"boom"}`)
	})

	env := c.Post(context.Background(), "/recommendations/generate", nil)
	assert.False(t, env.Success)
	assert.ErrorIs(t, env.Err(), ErrApplication)
	assert.Contains(t, env.Err().Error(), "boom")
}

func TestNon2xxWithoutEnvelopeUsesStatus(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	})

	err := c.Get(context.Background(), "/settings", nil).Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	env := New(url).Get(context.Background(), "/appliances", nil)
	assert.False(t, env.Success)
	assert.True(t, IsTransport(env.Err()))
}

func TestCancelledContextIsTransportFailure(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/appliances", nil).Err()
	assert.True(t, IsTransport(err))
}

func TestMalformedEnvelope(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>not json</html>`)
	})

	err := c.Get(context.Background(), "/appliances", nil).Err()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeRejectsEmptyData(t *testing.T) {
	env := &Envelope{Success: true}
	var out []int
	err := env.Decode(&out)

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, ErrMalformed, f.Kind)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithDoer(t *testing.T) {
	called := false
	c := New("http://api.invalid", WithDoer(doerFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("offline")
	})))

	err := c.Delete(context.Background(), "/settings/automation/1").Err()
	assert.True(t, called)
	assert.True(t, IsTransport(err))
}
