// Package xero makes read-only calls to the Xero accounting API,
// covering the invoice and account endpoints.
package xero

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// XeroAccountingURL is the base url of the Xero accounting API
const XeroAccountingURL = "https://api.xero.com/api.xro/2.0"

// apiTimeout bounds each API call; accounting endpoints can be slow
const apiTimeout = 30 * time.Second

// Client calls the accounting API for one tenant using a bearer
// access token. The token is expected to stay fresh for the lifetime
// of the client.
type Client struct {
	baseURL     string
	accessToken string
	tenantID    string
	timeout     time.Duration
}

// NewClient makes a Client for the tenant identified by tenantID
func NewClient(accessToken, tenantID string) *Client {
	return &Client{
		baseURL:     XeroAccountingURL,
		accessToken: accessToken,
		tenantID:    tenantID,
		timeout:     apiTimeout,
	}
}

// StatusError reports a non-200 response from the accounting API
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("xero api status %d: %s", e.Code, e.Body)
}

// get makes a GET call to path with the Xero authorization and tenant
// headers, decoding the json response into v
func (c *Client) get(path string, query url.Values, v any) error {

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	req.Header.Add("Authorization", "Bearer "+c.accessToken)
	req.Header.Add("Xero-tenant-id", c.tenantID)
	req.Header.Add("Accept", "application/json")

	client := http.Client{
		Timeout: c.timeout,
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			body = []byte("could not read body")
		}
		return &StatusError{resp.StatusCode, string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("json decoding error: %s", err)
	}
	return nil
}
