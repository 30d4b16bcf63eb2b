package token

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/braintree/manners"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// HandleHome provides a small home page linking to the Xero login so
// the authorization url does not have to be pasted into a browser by
// hand
func (t *Token) HandleHome(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "<html><title>Xero login</title><body>")
	fmt.Fprint(w, "<h4>Code generation</h4>")
	fmt.Fprintf(w, "<p>Generate a code by <a href=\"%s\">logging into Xero</a></p>",
		t.AuthURL())
	fmt.Fprint(w, "<p>The code will then be swapped for a token and refresh token.</p>")
	fmt.Fprint(w, "</body></html>")
}

// redirectCatcher returns a handler for the redirect Xero makes after
// login. The "state" in the redirect is checked against the
// randomised string stored in the token struct; this is a security
// measure to avoid spoofed callouts. A code passing that check is
// sent on codeCh and stop is called to wind up the server.
func (t *Token) redirectCatcher(codeCh chan<- string, stop func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			msg := "no code to extract"
			log.Println(msg)
			http.Error(w, msg, http.StatusForbidden)
			return
		}
		state := r.URL.Query().Get("state")
		if state != t.state {
			msg := fmt.Sprintf(
				"url state != saved state: %s %s",
				r.URL.RawQuery, t.state,
			)
			log.Println(msg)
			http.Error(w, msg, http.StatusForbidden)
			return
		}
		select {
		case codeCh <- code:
		default:
		}
		fmt.Fprint(w, "<html><title>Xero login</title><body>")
		fmt.Fprint(w, "<h4>Code received</h4>")
		fmt.Fprint(w, "<p>The code will now be swapped for a token and refresh token. This window can be closed.</p>")
		fmt.Fprint(w, "</body></html>")
		stop()
	}
}

// RedirectListenAddr derives the local listen address and url path
// from the configured redirect url. The url must carry an explicit
// port since the redirect registered with Xero and the local listener
// have to agree on it.
func (t *Token) RedirectListenAddr() (addr, path string, err error) {
	u, err := url.Parse(t.redirectURL)
	if err != nil {
		return "", "", fmt.Errorf("could not parse redirect url: %s", err)
	}
	if u.Port() == "" {
		return "", "", errors.New("redirect url must carry an explicit port to listen on")
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return u.Host, path, nil
}

// CatchRedirect runs a local web server on the configured redirect
// url's host and port until the post-login redirect from Xero
// delivers an authorization code, then shuts the server down
// gracefully and returns the code
func (t *Token) CatchRedirect() (string, error) {
	addr, path, err := t.RedirectListenAddr()
	if err != nil {
		return "", err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("could not listen on %s: %s", addr, err)
	}
	return t.catchRedirect(ln, path)
}

// catchRedirect serves on ln until the redirect catcher stops the
// server, separated from CatchRedirect so tests can supply a listener
// on an ephemeral port
func (t *Token) catchRedirect(ln net.Listener, path string) (string, error) {

	codeCh := make(chan string, 1)
	var server *manners.GracefulServer

	r := mux.NewRouter()
	r.HandleFunc(path, t.redirectCatcher(codeCh, func() { server.Close() }))
	// the "/" path catches all paths not otherwise registered
	if path != "/" {
		r.HandleFunc("/", t.HandleHome)
	}
	hdl := handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stdout, r))

	server = manners.NewWithServer(&http.Server{
		Addr:         ln.Addr().String(),
		Handler:      hdl,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	log.Printf("listening on %s for the Xero redirect", ln.Addr())
	if err := server.Serve(ln); err != nil {
		return "", err
	}

	select {
	case code := <-codeCh:
		return code, nil
	default:
		return "", errors.New("listener closed before a code arrived")
	}
}
