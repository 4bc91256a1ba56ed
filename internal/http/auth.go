package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const ownerContextKey contextKey = "owner_id"

var errNoToken = errors.New("missing bearer token")

// Authenticator resolves the owner id from a signed bearer token. The
// token's subject claim carries the owner id; the core below this layer
// only ever sees the resolved id.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// OwnerFromRequest validates the Authorization header and returns the
// owner id it is bound to.
func (a *Authenticator) OwnerFromRequest(r *http.Request) (int64, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, errNoToken
	}
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return 0, errNoToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	ownerID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || ownerID <= 0 {
		return 0, fmt.Errorf("invalid subject claim %q", claims.Subject)
	}
	return ownerID, nil
}

// IssueToken signs a token for an owner id. Used by tooling and tests;
// the service itself never mints tokens for clients.
func (a *Authenticator) IssueToken(ownerID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: strconv.FormatInt(ownerID, 10),
	})
	return token.SignedString(a.secret)
}

func withOwner(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ownerContextKey, ownerID)
}

// ownerID returns the owner resolved by the auth middleware. Handlers
// call this once and pass the id explicitly into the services.
func ownerID(r *http.Request) int64 {
	id, _ := r.Context().Value(ownerContextKey).(int64)
	return id
}
