package xero

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

// accountsString is shaped per the accounts endpoint documentation at
// https://developer.xero.com/documentation/api/accounting/accounts
var accountsString = `{
  "Accounts": [
    {
      "AccountID": "ebd06280-af70-4bed-97c6-7451a454ad85",
      "Code": "200",
      "Name": "Sales",
      "Type": "REVENUE",
      "Status": "ACTIVE"
    }
  ]
}`

func TestAccountByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/ebd06280-af70-4bed-97c6-7451a454ad85" {
			t.Errorf("path unexpected: %s", r.URL.Path)
		}
		w.Write([]byte(accountsString))
	})

	account, err := client.AccountByID("ebd06280-af70-4bed-97c6-7451a454ad85")
	if err != nil {
		t.Fatalf("error %s", err)
	}
	if account.Name != "Sales" {
		t.Errorf("account name want(Sales) got(%s)", account.Name)
	}
	if account.Code != "200" {
		t.Errorf("account code want(200) got(%s)", account.Code)
	}
}

func TestAccountByCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Accounts/200" {
			t.Errorf("path unexpected: %s", r.URL.Path)
		}
		w.Write([]byte(accountsString))
	})

	account, err := client.AccountByID("200")
	if err != nil {
		t.Fatalf("error %s", err)
	}
	if account.AccountID != "ebd06280-af70-4bed-97c6-7451a454ad85" {
		t.Errorf("account id unexpected: %s", account.AccountID)
	}
}

func TestAccountNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Accounts": []}`))
	})

	_, err := client.AccountByID("999")
	if err == nil || !strings.Contains(err.Error(), "account 999 not found") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestAccountHTTPFail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	})

	_, err := client.AccountByID("200")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T (%v)", err, err)
	}
	if statusErr.Code != 404 {
		t.Errorf("code want(404) got(%d)", statusErr.Code)
	}
}
