package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cqerrors "github.com/berrythewa/clipqr/internal/errors"
	"github.com/berrythewa/clipqr/internal/types"
)

func TestDirectLink(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://tmpfiles.org/123/a.png", want: "https://tmpfiles.org/dl/123/a.png"},
		{in: "http://tmpfiles.org/9/report%20v2.pdf", want: "http://tmpfiles.org/dl/9/report%20v2.pdf"},
		{in: "https://tmpfiles.org/dl/123/a.png", want: "https://tmpfiles.org/dl/123/a.png"},
		{in: "https://other.example/123/a.png", want: "https://other.example/123/a.png"},
		{in: "", wantErr: true},
		{in: "tmpfiles.org/123/a.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DirectLink(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUploadSuccess(t *testing.T) {
	var gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		gotName, gotBody = header.Filename, string(data)
		w.Write([]byte(`{"status":"success","data":{"url":"https://tmpfiles.org/42/hello.txt"}}`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{Endpoint: srv.URL})
	link, err := c.Upload(context.Background(), types.FileFromBytes("hello.txt", "text/plain", []byte("hello")))

	require.NoError(t, err)
	assert.Equal(t, "https://tmpfiles.org/dl/42/hello.txt", link)
	assert.Equal(t, "hello.txt", gotName)
	assert.Equal(t, "hello", gotBody)
}

func TestUploadFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-success status", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"error"}`))
		}},
		{"http error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		}},
		{"missing url", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"success","data":{}}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(ClientConfig{Endpoint: srv.URL})
			_, err := c.Upload(context.Background(), types.FileFromBytes("a.txt", "text/plain", []byte("a")))

			assert.True(t, cqerrors.Is(err, cqerrors.ErrUploadFailure), "got %v", err)
		})
	}
}

func TestUploadNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := NewClient(ClientConfig{Endpoint: endpoint})
	_, err := c.Upload(context.Background(), types.FileFromBytes("a.txt", "text/plain", []byte("a")))

	assert.True(t, cqerrors.Is(err, cqerrors.ErrUploadFailure))
}

func TestUploadOpenFailure(t *testing.T) {
	c := NewClient(ClientConfig{Endpoint: "http://127.0.0.1:1"})
	f := &types.File{Name: "x", Open: func() (io.ReadCloser, error) { return nil, errors.New("denied") }}

	_, err := c.Upload(context.Background(), f)

	assert.True(t, cqerrors.Is(err, cqerrors.ErrUploadFailure))
}
