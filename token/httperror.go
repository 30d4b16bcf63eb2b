package token

import "fmt"

// HTTPClientError reports a non-200 response from the Xero identity
// service
type HTTPClientError struct {
	Code    int
	Message string
}

func (e *HTTPClientError) Error() string {
	return fmt.Sprintf("xero identity status %d: %s", e.Code, e.Message)
}
