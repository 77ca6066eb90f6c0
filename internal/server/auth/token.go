package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/chapel/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Clock returns the current time. Issuer and verifier take one so tests can
// pin time.
type Clock func() time.Time

// Claims is the signed payload of a session token. It carries exactly
// sub, iss, iat, exp and isAdmin; tokens with any other shape are rejected.
type Claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"isAdmin"`
}

// Validate is called by the jwt parser after the registered claims checks.
func (c Claims) Validate() error {
	if c.Subject == "" {
		return errors.New("missing subject")
	}
	if c.IssuedAt == nil {
		return errors.New("missing issued-at")
	}
	return nil
}

// payloadShape mirrors Claims field by field and is decoded with unknown
// fields disallowed, so a payload must carry every claim and nothing else.
type payloadShape struct {
	Sub     *string          `json:"sub"`
	Iss     *string          `json:"iss"`
	Iat     *json.RawMessage `json:"iat"`
	Exp     *json.RawMessage `json:"exp"`
	IsAdmin *bool            `json:"isAdmin"`
}

// TokenIssuer mints session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    Clock
}

// NewTokenIssuer returns an issuer signing with secret. A nil clock means time.Now.
func NewTokenIssuer(secret []byte, ttl time.Duration, clock Clock) *TokenIssuer {
	if clock == nil {
		clock = time.Now
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: clock}
}

// Issue signs a token for subject valid from now until now+TTL.
func (i *TokenIssuer) Issue(subject string, isAdmin bool) (string, error) {
	if subject == "" {
		return "", errors.New("issue token: empty subject")
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    common.TokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		IsAdmin: isAdmin,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// TTL is the lifetime of the tokens this issuer mints.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// TokenVerifier checks session tokens.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier returns a verifier for tokens signed with secret. A nil
// clock means time.Now.
func NewTokenVerifier(secret []byte, clock Clock) *TokenVerifier {
	if clock == nil {
		clock = time.Now
	}
	return &TokenVerifier{
		secret: secret,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(common.TokenIssuer),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(clock),
			jwt.WithStrictDecoding(),
		),
	}
}

// Verify returns the claims of a valid token. Every failure (empty input,
// malformed segments, bad signature, wrong algorithm or issuer, expiry at or
// after exp, wrong payload shape) returns an error wrapping
// common.ErrInvalidToken. Callers must not branch on anything finer than that;
// the rest of the chain is for logs.
func (v *TokenVerifier) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty token", common.ErrInvalidToken)
	}

	claims := &Claims{}
	if _, err := v.parser.ParseWithClaims(raw, claims, v.key); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if err := v.checkShape(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	return claims, nil
}

func (v *TokenVerifier) key(*jwt.Token) (any, error) {
	return v.secret, nil
}

func (v *TokenVerifier) checkShape(raw string) error {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return errors.New("token must have three segments")
	}

	payload, err := v.parser.DecodeSegment(parts[1])
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()

	var shape payloadShape
	if err := dec.Decode(&shape); err != nil {
		return fmt.Errorf("payload shape: %w", err)
	}
	if shape.Sub == nil || shape.Iss == nil || shape.Iat == nil || shape.Exp == nil || shape.IsAdmin == nil {
		return errors.New("payload shape: missing claim")
	}
	return nil
}
