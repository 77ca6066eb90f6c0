// Package auth is the authentication core of the server: bcrypt password
// checks, and issuing and verifying the HS256-signed session tokens that
// replace server-side sessions.
//
// Tokens are self-contained. Any instance holding the signing secret can
// verify them, and nothing can revoke one before it expires: logging out only
// removes the cookie from the browser.
package auth
