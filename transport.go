package cheddargetter

import (
	"context"
	"net/http"
	"strings"

	"github.com/flexprice/cheddargetter-go/httpclient"
)

// get issues an authenticated GET against the provider and returns the raw
// XML body. A non-2xx response with a structured payload comes back as a
// *ProviderError instead of a transport fault.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, path, "")
}

// post issues an authenticated form-urlencoded POST. The single leading "&"
// the parameter encoder produces is stripped before sending.
func (c *Client) post(ctx context.Context, path string, body string) ([]byte, error) {
	return c.send(ctx, http.MethodPost, path, strings.TrimPrefix(body, "&"))
}

func (c *Client) send(ctx context.Context, method, path, body string) ([]byte, error) {
	req := &httpclient.Request{
		Method:   method,
		URL:      c.config.BaseURL + path,
		Username: c.config.Username,
		Password: c.config.Password,
	}
	if method == http.MethodPost {
		req.Headers = map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
		}
		req.Body = []byte(body)
	}

	resp, err := c.httpClient.Send(ctx, req)
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			providerErr := newProviderError(httpErr.StatusCode, parseEmbeddedErrors(httpErr.Response))
			c.logger.Errorw("provider rejected request",
				"method", method,
				"path", path,
				"status_code", providerErr.StatusCode,
				"errors", providerErr.Errors)
			return nil, providerErr
		}
		c.logger.Errorw("request failed",
			"method", method,
			"path", path,
			"error", err)
		return nil, err
	}

	return resp.Body, nil
}
