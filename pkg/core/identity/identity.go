//
//  Copyright © Stackport Inc. All rights reserved.
//

// Package identity extracts a [model.UserIdentity] from bearer tokens.
//
// The caller's entity reference is taken from the standard "sub" claim and
// ownership references (group memberships and any directly-claimed entities)
// from the "ent" claim, an array of entity reference strings:
//
//	{
//	    "sub": "user:default/alice",
//	    "ent": ["group:default/platform-team", "group:default/oncall"]
//	}
//
// Tokens are verified against the HMAC secret configured under
// "identity.jwt.secret". Setting "identity.jwt.insecure" to true skips
// signature verification entirely, which is intended for development behind
// a trusted gateway that has already verified the token.
package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/stackport/ownerengine/pkg/core/config"
	"github.com/stackport/ownerengine/pkg/core/model"
)

// FromAuthorizationHeader extracts an identity from an HTTP Authorization
// header value, which must carry a bearer token.
func FromAuthorizationHeader(header string) (*model.UserIdentity, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, errors.New("authorization header is not a bearer token")
	}

	return FromToken(strings.TrimSpace(token))
}

// FromToken parses and verifies a JWT and extracts the caller identity from
// its claims.
func FromToken(tokenString string) (*model.UserIdentity, error) {
	if tokenString == "" {
		return nil, errors.New("no token supplied")
	}

	var claims jwt.MapClaims

	if config.VConfig.GetBool(config.IdentityJWTInsecure) {
		// Trusted-gateway mode. The gateway has already verified the
		// signature, so only the claims are extracted here.
		token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
		if err != nil {
			return nil, errors.Wrap(err, "token parse failed")
		}
		claims = token.Claims.(jwt.MapClaims)
	} else {
		secret := config.VConfig.GetString(config.IdentityJWTSecret)
		if secret == "" {
			return nil, errors.New("identity.jwt.secret is not configured")
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return nil, errors.Wrap(err, "token verification failed")
		}

		var ok bool
		claims, ok = token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, errors.Errorf("unsupported claim type %T", token.Claims)
		}
	}

	return fromClaims(claims)
}

func fromClaims(claims jwt.MapClaims) (*model.UserIdentity, error) {
	identity := &model.UserIdentity{}

	if sub, ok := claims["sub"].(string); ok {
		identity.UserRef = sub
	}
	if identity.UserRef == "" {
		return nil, errors.New("token has no sub claim")
	}

	switch ent := claims["ent"].(type) {
	case []interface{}:
		for _, e := range ent {
			if ref, ok := e.(string); ok {
				identity.OwnershipRefs = append(identity.OwnershipRefs, ref)
			}
		}
	case []string:
		identity.OwnershipRefs = append(identity.OwnershipRefs, ent...)
	case string:
		identity.OwnershipRefs = append(identity.OwnershipRefs, ent)
	}

	return identity, nil
}
