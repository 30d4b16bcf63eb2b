package token_test

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/UCLALibrary/xero-invoicing/config"
	"github.com/UCLALibrary/xero-invoicing/token"
)

// Example shows the full acquisition flow. A refresh token stored by
// an earlier run is exchanged silently; otherwise the user logs into
// Xero in a browser and pastes the url Xero redirected to back into
// the terminal.
func Example() {

	cfg := config.Xero{
		ClientID:         os.Getenv("XEROCLIENTID"),
		ClientSecret:     os.Getenv("XEROCLIENTSECRET"),
		RedirectURL:      "http://localhost:5001/code",
		Scope:            "offline_access accounting.transactions accounting.settings",
		RefreshTokenFile: ".xero_refresh_token",
	}

	store, err := token.NewStore(cfg.RefreshTokenFile)
	if err != nil {
		log.Fatal(err)
	}
	ts, err := token.NewToken(cfg, store)
	if err != nil {
		log.Fatal(err)
	}

	pasteBack := func(authURL string) (string, error) {
		fmt.Printf("Visit this URL to authorize:\n\n%s\n\n", authURL)
		fmt.Print("What URL did Xero return? ")
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return ts.CodeFromRedirect(scanner.Text())
	}

	if err := ts.Acquire(pasteBack); err != nil {
		log.Fatal(err)
	}

	tenantID, err := ts.OrganisationTenant()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("connected to tenant", tenantID)
}
