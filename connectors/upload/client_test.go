package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osa-stats/domain/config"
)

func TestSendMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		f, fh, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "Uganda_OSA_2024Q1.csv", fh.Filename)
		assert.Equal(t, "text/csv", fh.Header.Get("Content-Type"))
		assert.Equal(t, "a,b\n1,2", string(b))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","rows":1}`))
	}))
	defer srv.Close()

	got, err := NewClient(nil, srv.URL).Send(context.Background(), "Uganda_OSA_2024Q1.csv", []byte("a,b\n1,2"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": "ok", "rows": float64(1)}, got)
}

func TestSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(nil, srv.URL).Send(context.Background(), "x.csv", []byte("a"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpload))
	var ue *Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusTooManyRequests, ue.StatusCode)
	assert.Contains(t, ue.Body, "quota exceeded")
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	_, err := NewClient(nil, srv.URL).Send(context.Background(), "x.csv", nil)
	assert.ErrorIs(t, err, ErrUpload)
}

func TestSendWithClientCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewFromConfig(context.Background(), config.Upload{
		Endpoint: srv.URL + "/upload",
		Timeout:  5 * time.Second,
		OAuth2:   config.OAuth2{TokenURL: srv.URL + "/token", ClientID: "osa", ClientSecret: "s3"},
	})
	got, err := c.Send(context.Background(), "x.csv", []byte("a"))
	require.NoError(t, err)
	assert.Nil(t, got)
}
