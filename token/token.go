// Package token drives the Xero OAuth2 authorization code flow and
// holds the resulting tokens, persisting each rotated refresh token
// so later runs can skip the interactive grant.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/UCLALibrary/xero-invoicing/config"
	"github.com/UCLALibrary/xero-invoicing/randstring"
)

// XeroAuthURL is the Xero authorization url
const XeroAuthURL string = "https://login.xero.com/identity/connect/authorize"

// XeroTokenURL is the Xero token receipt url
const XeroTokenURL string = "https://identity.xero.com/connect/token"

// XeroTenantURL is the Xero tenant endpoint
const XeroTenantURL = "https://api.xero.com/connections"

// XeroRevokeURL is the Xero revocation endpoint
const XeroRevokeURL = "https://identity.xero.com/connect/revocation"

// DefaultExpirySecs is the number of seconds before the access token
// expiry to trigger a refresh
const DefaultExpirySecs int = 60

// stateLength is the length of a generated anti-forgery state string
const stateLength = 10

// Token represents the Xero API tokens provided by the OAuth2 flow,
// particularly the AccessToken which is valid for 30 minutes and the
// RefreshToken which may be exchanged exactly once for a replacement
// pair. The tokens are also scoped by Scopes.
//
// The private identifiers redirectURL, clientID and clientSecret are
// used for initial authentication which, together with a "state"
// identifier, returns a code which is exchanged for an access token
// and refresh token. Each refresh token is written to the store
// before the in-process fields are updated.
//
// The Token data structure is locked via a sync.Mutex on update.
type Token struct {
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiryUTC time.Time `json:"access_token_expiry_utc"`
	RefreshToken         string    `json:"refresh_token"`
	Scopes               []string  `json:"scopes"`
	clientID             string
	clientSecret         string
	state                string
	authURL              string
	redirectURL          string
	scopesRequested      []string
	tokenURL             string
	tenantURL            string
	revokeURL            string
	store                *Store
	httpclientTimeout    time.Duration
	expirySecs           time.Duration
	locker               sync.Mutex
}

// NewToken returns a new Token configured from cfg, persisting
// refresh tokens to store. Empty endpoint urls fall back to the Xero
// production endpoints and an empty state is randomised.
func NewToken(cfg config.Xero, store *Store) (*Token, error) {

	if cfg.ClientID == "" {
		return nil, errors.New("client id cannot be empty")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret cannot be empty")
	}
	if _, err := url.ParseRequestURI(cfg.RedirectURL); err != nil {
		return nil, errors.New("redirect url invalid")
	}
	scopes := strings.Fields(cfg.Scope)
	if len(scopes) < 1 {
		return nil, errors.New("scope cannot be empty")
	}
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}

	t := &Token{
		clientID:          cfg.ClientID,
		clientSecret:      cfg.ClientSecret,
		state:             cfg.State,
		redirectURL:       cfg.RedirectURL,
		scopesRequested:   scopes,
		authURL:           cfg.AuthorizationURL,
		tokenURL:          cfg.TokenURL,
		tenantURL:         cfg.TenantURL,
		revokeURL:         cfg.RevocationURL,
		store:             store,
		httpclientTimeout: time.Second * 3,
		expirySecs:        time.Second * time.Duration(DefaultExpirySecs),
	}
	if t.authURL == "" {
		t.authURL = XeroAuthURL
	}
	if t.tokenURL == "" {
		t.tokenURL = XeroTokenURL
	}
	if t.tenantURL == "" {
		t.tenantURL = XeroTenantURL
	}
	if t.revokeURL == "" {
		t.revokeURL = XeroRevokeURL
	}
	if t.state == "" {
		t.state = randstring.RandString(stateLength)
	}

	return t, nil
}

// String represents Token for printing
func (t *Token) String() string {
	tpl := `
access_token  %s
expiry        %s
refresh_token %s
scopes        %v
`
	return fmt.Sprintf(
		tpl,
		t.AccessToken,
		t.AccessTokenExpiryUTC,
		t.RefreshToken,
		t.Scopes,
	)
}

// VerifyScopes ensures that all intended scopes are in the token's
// scopes from Xero
func (t *Token) VerifyScopes() error {
	if len(t.scopesRequested) < 1 {
		return errors.New("no requested scopes provided to verify")
	}
	for _, req := range t.scopesRequested {
		var matcher string
		for _, has := range t.Scopes {
			if req == has {
				matcher = has
				break
			}
		}
		if matcher != req {
			return fmt.Errorf("scope %s not found in xero scopes", req)
		}
	}
	return nil
}

// AuthURL returns the authorization url which is the beginning of the
// authorization code grant
func (t *Token) AuthURL() string {
	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("client_id", t.clientID)
	v.Set("redirect_uri", t.redirectURL)
	v.Set("scope", strings.Join(t.scopesRequested, " "))
	v.Set("state", t.state)
	return t.authURL + "?" + v.Encode()
}

// CodeFromRedirect extracts the authorization code from the url Xero
// redirected the browser to, checking the anti-forgery state on the
// way
func (t *Token) CodeFromRedirect(redirect string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(redirect))
	if err != nil {
		return "", fmt.Errorf("could not parse redirect url: %s", err)
	}
	q := u.Query()
	if state := q.Get("state"); state != "" && state != t.state {
		return "", errors.New("state mismatch in redirect url")
	}
	code := q.Get("code")
	if code == "" {
		return "", errors.New("no code found in redirect url")
	}
	return code, nil
}

// setExpiry sets the UTC expiration time of the access token
func (t *Token) setExpiry(expiry int) {
	t.AccessTokenExpiryUTC = time.Now().UTC().Add(time.Duration(expiry) * time.Second)
}

// tokenResults is the type of the Xero token endpoint results
type tokenResults struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// tokenExchange posts form to the token endpoint and decodes the
// token pair in the response
func (t *Token) tokenExchange(form url.Values) (tokenResults, error) {

	var results tokenResults

	req, err := http.NewRequest("POST", t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return results, err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(t.clientID), url.QueryEscape(t.clientSecret))

	client := http.Client{
		Timeout: t.httpclientTimeout,
	}

	resp, err := client.Do(req)
	if err != nil {
		return results, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			body = []byte("could not read body")
		}
		return results, &HTTPClientError{resp.StatusCode, string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return results, fmt.Errorf("json decoding error: %s", err)
	}
	if results.AccessToken == "" || results.RefreshToken == "" || results.ExpiresIn == 0 {
		return results, errors.New("empty response received from server")
	}

	return results, nil
}

// setResults persists the rotated refresh token, then updates the
// in-process token; the stored copy must never lag a successful
// exchange.
func (t *Token) setResults(results tokenResults) error {

	if err := t.store.Save(results.RefreshToken); err != nil {
		return err
	}

	t.locker.Lock()
	t.AccessToken = results.AccessToken
	t.RefreshToken = results.RefreshToken
	t.Scopes = strings.Split(results.Scope, " ")
	t.setExpiry(results.ExpiresIn)
	t.locker.Unlock()

	if err := t.VerifyScopes(); err != nil {
		log.Printf("scope warning: %s", err)
	}

	return nil
}

// GetToken exchanges an authorization code for an access token and
// refresh token
func (t *Token) GetToken(code string) error {

	form := url.Values{}
	form.Add("grant_type", "authorization_code")
	form.Add("code", code)
	form.Add("redirect_uri", t.redirectURL)

	results, err := t.tokenExchange(form)
	if err != nil {
		return err
	}

	return t.setResults(results)
}

// Refresh exchanges the current refresh token for a new access token
// and replacement refresh token, bypassing the interactive grant
func (t *Token) Refresh() error {

	if t.RefreshToken == "" {
		return errors.New("no refresh token to exchange")
	}

	form := url.Values{}
	form.Add("grant_type", "refresh_token")
	form.Add("refresh_token", t.RefreshToken)

	results, err := t.tokenExchange(form)
	if err != nil {
		return err
	}
	if err := t.setResults(results); err != nil {
		return err
	}

	log.Println("new refresh token registered")

	return nil
}

// CodeGetter obtains an authorization code for the given
// authorization url, for example by prompting the user to visit it
// and paste back the redirect, or by catching the redirect on a local
// listener
type CodeGetter func(authURL string) (string, error)

// Acquire readies the token for API use. A stored refresh token is
// exchanged directly; otherwise the authorization code grant is run,
// using getCode to obtain the code.
func (t *Token) Acquire(getCode CodeGetter) error {

	refresh, ok, err := t.store.Load()
	if err != nil {
		return err
	}
	if ok {
		t.locker.Lock()
		t.RefreshToken = refresh
		t.locker.Unlock()
		if err := t.Refresh(); err != nil {
			return fmt.Errorf("stored refresh token exchange failed: %s", err)
		}
		return nil
	}

	code, err := getCode(t.AuthURL())
	if err != nil {
		return err
	}
	return t.GetToken(code)
}

// Get returns the Token after refreshing if necessary. An assumption
// is made that some latitude (expirySecs) is needed when determining
// expiration.
func (t *Token) Get() (tt *Token, err error) {
	now := time.Now().UTC()
	if t.AccessTokenExpiryUTC.Add(-t.expirySecs).After(now) {
		return t, nil
	}
	log.Println("running refresh")
	err = t.Refresh()
	return t, err
}

// Revoke revokes the refresh token and all its connections, and
// removes the stored copy
// see https://developer.xero.com/documentation/guides/oauth2/auth-flow#revoking-tokens
func (t *Token) Revoke() error {

	if t.RefreshToken == "" {
		refresh, ok, err := t.store.Load()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no stored refresh token: nothing to revoke")
		}
		t.locker.Lock()
		t.RefreshToken = refresh
		t.locker.Unlock()
	}

	form := url.Values{}
	form.Add("grant_type", "refresh_token")
	form.Add("token", t.RefreshToken)
	req, err := http.NewRequest("POST", t.revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(url.QueryEscape(t.clientID), url.QueryEscape(t.clientSecret))

	client := http.Client{
		Timeout: t.httpclientTimeout,
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
		return fmt.Errorf("revoke returned %d: %s", resp.StatusCode, body)
	}

	// clear current structure
	t.locker.Lock()
	t.AccessToken = ""
	t.RefreshToken = ""
	t.Scopes = []string{}
	t.AccessTokenExpiryUTC = time.Time{}
	t.locker.Unlock()

	return t.store.Clear()
}
