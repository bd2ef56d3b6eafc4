package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"osa-stats/domain/config"
)

// ErrUpload marks every rejected or failed submission.
var ErrUpload = errors.New("upload failed")

// Error is returned when the ingestion endpoint answers with a non-2xx status.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upload failed: endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrUpload) match.
func (e *Error) Is(target error) bool { return target == ErrUpload }

const maxErrorBody = 2048

// Client posts CSV documents to the ingestion endpoint as a multipart form.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient returns a client for endpoint. A nil hc gets a plain client with a 30s timeout.
func NewClient(hc *http.Client, endpoint string) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: hc, endpoint: endpoint}
}

// NewFromConfig builds a client; when oauth2 is configured every request carries a
// client-credentials bearer token.
func NewFromConfig(ctx context.Context, cfg config.Upload) *Client {
	hc := &http.Client{}
	if cfg.OAuth2.Enabled() {
		cc := clientcredentials.Config{
			ClientID:     cfg.OAuth2.ClientID,
			ClientSecret: cfg.OAuth2.ClientSecret,
			TokenURL:     cfg.OAuth2.TokenURL,
			Scopes:       cfg.OAuth2.Scopes,
		}
		hc = cc.Client(ctx)
	}
	hc.Timeout = cfg.Timeout
	return NewClient(hc, cfg.Endpoint)
}

// Send uploads content as the "file" field named filename and returns the decoded JSON
// response body (nil when the body is empty or not JSON).
func (c *Client) Send(ctx context.Context, filename string, content []byte) (any, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", "text/csv")
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	slog.Info("upload.start", "endpoint", c.endpoint, "file", filename, "bytes", len(content))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(b) > maxErrorBody {
			b = b[:maxErrorBody]
		}
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var result any
	if len(b) > 0 {
		if err := json.Unmarshal(b, &result); err != nil {
			slog.Warn("upload.response.decode", "error", err)
			result = nil
		}
	}
	slog.Info("upload.done", "file", filename, "status", resp.StatusCode, "result", result)
	return result, nil
}
