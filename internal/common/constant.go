// Package common contains shared constants and sentinel errors used across
// the chapel site server.
package common

// TokenCookieName is the cookie that carries the signed session token.
const TokenCookieName = "token"

// TokenIssuer is the fixed iss claim of every token this service mints.
const TokenIssuer = "whitbyec"
