package server

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/voidshard/conveyor/pkg/api/http/common"
	cerr "github.com/voidshard/conveyor/pkg/errors"
)

const (
	bearerPrefix = "bearer "
)

// Identity works out who is making a request. Authentication itself happens upstream,
// we only need the identity it produced.
type Identity interface {
	Identify(r *http.Request) (string, error)
}

// JWTIdentity reads the caller from the subject of a HS256 signed bearer token.
type JWTIdentity struct {
	secret []byte
	parser *jwt.Parser
}

func NewJWTIdentity(secret []byte) *JWTIdentity {
	return &JWTIdentity{
		secret: secret,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (i *JWTIdentity) Identify(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if len(auth) <= len(bearerPrefix) || !strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return "", cerr.Unauthorized("Missing bearer token")
	}

	tok, err := i.parser.ParseWithClaims(
		strings.TrimSpace(auth[len(bearerPrefix):]),
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
	)
	if err != nil || !tok.Valid {
		return "", cerr.Unauthorized("Invalid bearer token")
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", cerr.Unauthorized("Bearer token has no subject")
	}
	return sub, nil
}

// HeaderIdentity trusts a header set by an auth proxy.
type HeaderIdentity struct {
	Header string
}

func (i *HeaderIdentity) Identify(r *http.Request) (string, error) {
	h := i.Header
	if h == "" {
		h = common.HeaderUser
	}
	user := strings.TrimSpace(r.Header.Get(h))
	if user == "" {
		return "", cerr.Unauthorized("Missing %s header", h)
	}
	return user, nil
}
