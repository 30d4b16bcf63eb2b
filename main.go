package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/UCLALibrary/xero-invoicing/config"
	"github.com/UCLALibrary/xero-invoicing/token"
	"github.com/UCLALibrary/xero-invoicing/xero"
)

const description = "Xero invoice fetcher"
const version = "0.1.0 August 2026"
const usage = " <options>" + "\n\n  " + description

// Opts are the command line options
type Opts struct {
	ConfigFile string   `short:"c" long:"config" description:"path to the toml configuration file" required:"true"`
	Statuses   []string `short:"s" long:"status" description:"invoice status to list, repeatable (eg DRAFT, AUTHORISED, PAID)"`
	Invoice    string   `short:"i" long:"invoice" description:"show one invoice by invoice number with its line items"`
	Listen     bool     `short:"l" long:"listen" description:"catch the Xero redirect on a local web server instead of pasting it back"`
	Revoke     bool     `long:"revoke" description:"revoke the stored refresh token and exit"`
	Verbose    bool     `short:"v" long:"verbose" description:"print token details after acquisition"`
}

func main() {

	var options Opts
	var parser = flags.NewParser(&options, flags.Default)
	parser.Usage = fmt.Sprintf("%s : %s", usage, version)

	if _, err := parser.Parse(); err != nil {
		flagError := err.(*flags.Error)
		if flagError.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
		}
		os.Exit(1)
	}

	cfg, err := config.Load(options.ConfigFile)
	if err != nil {
		log.Fatalf("config error: %s", err)
	}

	store, err := token.NewStore(cfg.RefreshTokenFile)
	if err != nil {
		log.Fatalf("store error: %s", err)
	}
	ts, err := token.NewToken(cfg, store)
	if err != nil {
		log.Fatalf("token setup error: %s", err)
	}

	if options.Revoke {
		if err := ts.Revoke(); err != nil {
			log.Fatalf("revoke error: %s", err)
		}
		fmt.Println("stored refresh token revoked")
		return
	}

	getCode := pasteBack(ts)
	if options.Listen {
		getCode = func(authURL string) (string, error) {
			fmt.Printf("Visit this URL to authorize:\n\n%s\n\n", authURL)
			return ts.CatchRedirect()
		}
	}

	if err := ts.Acquire(getCode); err != nil {
		log.Fatalf("token acquisition error: %s", err)
	}
	if options.Verbose {
		fmt.Println(ts)
	}

	tt, err := ts.Get()
	if err != nil {
		log.Fatalf("token error: %s", err)
	}
	tenantID, err := ts.OrganisationTenant()
	if err != nil {
		log.Fatalf("tenant error: %s", err)
	}

	client := xero.NewClient(tt.AccessToken, tenantID)

	if options.Invoice != "" {
		err = showInvoice(client, options.Invoice)
	} else {
		err = listInvoices(client, options.Statuses)
	}
	if err != nil {
		log.Fatalf("xero api error: %s", err)
	}
}

// pasteBack prompts the user to log into Xero and paste the url Xero
// redirected the browser to back into the terminal
func pasteBack(ts *token.Token) token.CodeGetter {
	return func(authURL string) (string, error) {
		fmt.Printf("Visit this URL to authorize:\n\n%s\n\n", authURL)
		fmt.Print("What URL did Xero return? ")
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return ts.CodeFromRedirect(scanner.Text())
	}
}

// listInvoices prints one "<number> <status> <total>" line per
// invoice
func listInvoices(client *xero.Client, statuses []string) error {
	invoices, err := client.Invoices(statuses)
	if err != nil {
		return err
	}
	for _, invoice := range invoices {
		fmt.Println(invoice.Summary())
	}
	return nil
}

// showInvoice prints one invoice with its line items, resolving the
// account each line is coded to. Accounts are fetched per line item,
// even when an account recurs.
func showInvoice(client *xero.Client, number string) error {
	invoice, err := client.InvoiceByNumber(number)
	if err != nil {
		return err
	}
	fmt.Println(invoice.Summary())
	for _, item := range invoice.LineItems {
		ref := item.AccountRef()
		if ref == "" {
			fmt.Printf("  %s\n", item.Summary())
			continue
		}
		account, err := client.AccountByID(ref)
		if err != nil {
			return err
		}
		fmt.Printf("  %s %s\n", item.Summary(), account.Name)
	}
	return nil
}
