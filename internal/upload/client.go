package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	cqerrors "github.com/berrythewa/clipqr/internal/errors"
	"github.com/berrythewa/clipqr/internal/types"
)

const (
	// DefaultEndpoint is the temporary file host
	DefaultEndpoint = "https://tmpfiles.org/api/v1/upload"
	defaultTimeout  = 60 * time.Second
	// maxResponseSize bounds how much of the service reply is read
	maxResponseSize = 1 << 20
)

// response is the reply of the hosting service
type response struct {
	Status string `json:"status"`
	Data   struct {
		URL string `json:"url"`
	} `json:"data"`
}

// ClientConfig holds configuration for a Client
type ClientConfig struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client submits files to the hosting service as multipart uploads
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new upload Client
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Upload sends f and returns its direct-download URL. Every failure is an
// UPLOAD_FAILURE error.
func (c *Client) Upload(ctx context.Context, f *types.File) (string, error) {
	if f == nil || f.Open == nil {
		return "", cqerrors.NewUploadFailure("nothing to upload", nil)
	}

	src, err := f.Open()
	if err != nil {
		return "", cqerrors.NewUploadFailure("failed to open file", err)
	}

	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)
	go func() {
		defer src.Close()
		part, err := form.CreateFormFile("file", f.Name)
		if err == nil {
			_, err = io.Copy(part, src)
		}
		if err == nil {
			err = form.Close()
		}
		writer.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		body.Close()
		return "", cqerrors.NewUploadFailure("failed to build request", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		body.Close()
		return "", cqerrors.NewUploadFailure("upload request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", cqerrors.NewUploadFailure(fmt.Sprintf("upload service returned %s", resp.Status), nil)
	}

	var reply response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&reply); err != nil {
		return "", cqerrors.NewUploadFailure("malformed upload response", err)
	}
	if reply.Status != "success" {
		return "", cqerrors.NewUploadFailure(fmt.Sprintf("upload service reported status %q", reply.Status), nil)
	}

	link, err := DirectLink(reply.Data.URL)
	if err != nil {
		return "", cqerrors.NewUploadFailure("malformed upload response", err)
	}

	c.logger.Info("File uploaded",
		zap.String("name", f.Name),
		zap.Int64("size", f.Size),
		zap.Duration("took", time.Since(start)),
		zap.String("url", link))
	return link, nil
}

// DirectLink turns the landing-page URL returned by the host into its
// direct-download form: https://tmpfiles.org/123/a.png becomes
// https://tmpfiles.org/dl/123/a.png. Other hosts are returned unchanged.
func DirectLink(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("not an absolute http(s) URL: %q", raw)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "tmpfiles.org" && !strings.HasPrefix(u.Path, "/dl/") {
		u.Path = "/dl" + u.Path
		if u.RawPath != "" {
			u.RawPath = "/dl" + u.RawPath
		}
	}
	return u.String(), nil
}
