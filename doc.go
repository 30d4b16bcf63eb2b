/*
xero-invoicing

https://github.com/UCLALibrary/xero-invoicing

Summary:

xero-invoicing is a proof of concept command line program for reading
invoices from the accounting software as a service system Xero,
authenticating with the OAuth2 authorization code flow.

The program lists invoices, optionally filtered by status, printing
one "<number> <status> <total>" line per invoice, or shows a single
invoice by invoice number together with its line items and the
accounts they are coded to.

On first run the user logs into Xero in a browser and either pastes
the url Xero redirects to back into the terminal, or has the program
catch the redirect on a local web server (-l). The refresh token
returned by each token exchange is saved to the file named in the
configuration, so later runs authenticate without a browser. Xero
rotates refresh tokens; each exchange invalidates the exchanged token
and the saved file is overwritten with its replacement.

Configuration is a toml file:

	[xero]
	client_id = "IDIDIDIDIDIDIDIDIDIDIDIDIDIDIDID"
	client_secret = "SECRETSECRETSECRETSECRETSECRETSECRETSECRETSECRET"
	# endpoint urls default to the Xero production endpoints
	authorization_url = ""
	token_url = ""
	tenant_url = ""
	revocation_url = ""
	redirect_url = "http://localhost:5001/code"
	scope = "offline_access accounting.transactions accounting.settings"
	# an empty state is randomised per run
	state = ""
	refresh_token_file = ".xero_refresh_token"

Usage:

	xero-invoicing -c config.toml
	xero-invoicing -c config.toml -s DRAFT -s AUTHORISED
	xero-invoicing -c config.toml -i INV-0001
	xero-invoicing -c config.toml --revoke

This software is provided under an MIT licence, with no warranty.
*/

package main
