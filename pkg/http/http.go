package http

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/rohanverma/upq/internal/logger"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultIdleTimeout    = 90 * time.Second
	keepAlivePeriod       = 30 * time.Second
	maxIdleConns          = 100
	tlsHandshakeTimeout   = 10 * time.Second
	expectContinueTimeout = 1 * time.Second
	maxConnsPerHost       = 16

	DefaultUserAgent = "upq/1.0"
	DefaultFieldName = "file"
)

type Client struct {
	*http.Client
}

// NewClient creates a new HTTP client with custom transport settings.
func NewClient() *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultConnectTimeout,
			KeepAlive: keepAlivePeriod,
		}).DialContext,
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       defaultIdleTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: expectContinueTimeout,
		DisableCompression:    true,
		MaxConnsPerHost:       maxConnsPerHost,
	}

	return &Client{
		&http.Client{
			Transport: transport,
		},
	}
}

// IsUploadEndpoint checks that the given URL is a well-formed http(s) URL.
func IsUploadEndpoint(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Upload streams body as a multipart form POST to the endpoint. fields are
// written before the file part so servers can reject on metadata without
// consuming the payload. The body is read exactly once; callers own retry
// semantics and must supply a fresh reader per attempt.
func (c *Client) Upload(ctx context.Context, endpoint, fieldName, filename string, fields map[string]string, body io.Reader) error {
	if fieldName == "" {
		fieldName = DefaultFieldName
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		for k, v := range fields {
			if err := mw.WriteField(k, v); err != nil {
				pw.CloseWithError(err)
				return
			}
		}

		part, err := mw.CreateFormFile(fieldName, filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		if _, err := io.Copy(part, body); err != nil {
			pw.CloseWithError(err)
			return
		}

		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		logger.Errorf("Failed to create upload request for %s: %v", endpoint, err)
		return ErrRequestCreation
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	logger.Debugf("Sending upload POST to %s (file part %q)", endpoint, filename)

	resp, err := c.Do(req)
	if err != nil {
		// A reader failure surfaces through the pipe as a url.Error wrapping
		// the original cause; unwrap before classifying.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}

		logger.Errorf("Upload request failed for %s: %v", endpoint, err)

		return ClassifyError(err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warnf("Failed to close response body: %v", err)
		}
	}()

	logger.Debugf("Upload response for %s: status=%d", endpoint, resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		return ClassifyHTTPError(resp.StatusCode)
	}

	return nil
}
