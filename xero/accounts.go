package xero

import (
	"fmt"
	"net/url"
)

// Account is a Xero chart of accounts entry
type Account struct {
	AccountID string `json:"AccountID"`
	Code      string `json:"Code"`
	Name      string `json:"Name"`
	Type      string `json:"Type"`
	Status    string `json:"Status"`
}

// accountsEnvelope is the envelope the API wraps account results in
type accountsEnvelope struct {
	Accounts []Account `json:"Accounts"`
}

// AccountByID retrieves one account by AccountID or account code. As
// with invoices the API returns the single result wrapped in a list
// envelope.
func (c *Client) AccountByID(id string) (Account, error) {

	var envelope accountsEnvelope
	err := c.get("/Accounts/"+url.PathEscape(id), nil, &envelope)
	if err != nil {
		return Account{}, err
	}
	if len(envelope.Accounts) == 0 {
		return Account{}, fmt.Errorf("account %s not found", id)
	}
	return envelope.Accounts[0], nil
}
