package xero

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Invoice is a Xero invoice. Only the fields used for display are
// decoded; the API returns many more.
type Invoice struct {
	InvoiceID     string     `json:"InvoiceID"`
	InvoiceNumber string     `json:"InvoiceNumber"`
	Type          string     `json:"Type"`
	Status        string     `json:"Status"`
	Total         float64    `json:"Total"`
	LineItems     []LineItem `json:"LineItems"`
}

// LineItem is a line of an invoice. The account the line is coded to
// may be carried as an AccountID, an AccountCode or both.
type LineItem struct {
	Description string  `json:"Description"`
	Quantity    float64 `json:"Quantity"`
	UnitAmount  float64 `json:"UnitAmount"`
	LineAmount  float64 `json:"LineAmount"`
	AccountCode string  `json:"AccountCode"`
	AccountID   string  `json:"AccountID"`
}

// AccountRef returns the identifier to look the line's account up by,
// preferring the AccountID
func (l LineItem) AccountRef() string {
	if l.AccountID != "" {
		return l.AccountID
	}
	return l.AccountCode
}

// Summary returns the line item as "<description> <amount>"
func (l LineItem) Summary() string {
	return fmt.Sprintf("%s %s", l.Description, formatAmount(l.LineAmount))
}

// Summary returns the invoice as "<number> <status> <total>"
func (i Invoice) Summary() string {
	return fmt.Sprintf("%s %s %s", i.InvoiceNumber, i.Status, formatAmount(i.Total))
}

// formatAmount renders a monetary amount without exponent notation or
// trailing zeros
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// invoicesEnvelope is the envelope the API wraps invoice results in
type invoicesEnvelope struct {
	Invoices []Invoice `json:"Invoices"`
}

// Invoices lists the tenant's invoices, filtered to the given
// statuses unless none are given
func (c *Client) Invoices(statuses []string) ([]Invoice, error) {

	query := url.Values{}
	if len(statuses) > 0 {
		query.Set("Statuses", strings.Join(statuses, ","))
	}

	var envelope invoicesEnvelope
	if err := c.get("/Invoices", query, &envelope); err != nil {
		return nil, err
	}
	return envelope.Invoices, nil
}

// InvoiceByNumber retrieves the invoice with the given invoice
// number. The API returns a single invoice wrapped in the usual list
// envelope.
func (c *Client) InvoiceByNumber(number string) (Invoice, error) {

	var envelope invoicesEnvelope
	err := c.get("/Invoices/"+url.PathEscape(number), nil, &envelope)
	if err != nil {
		return Invoice{}, err
	}
	if len(envelope.Invoices) == 0 {
		return Invoice{}, fmt.Errorf("invoice %s not found", number)
	}
	return envelope.Invoices[0], nil
}
