// Package auth issues and verifies recorder keys: signed capability
// tokens binding a request to one recorder identity.
package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"audiolab/apperr"
)

// recorderClaims carries the single identity claim of a recorder key.
type recorderClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// EncodeRecorderKey mints a signed key for the given recorder uid.
// Keys do not expire; revocation happens by deleting the recorder.
func EncodeRecorderKey(recorderUID, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, recorderClaims{UID: recorderUID})
	return token.SignedString([]byte(secret))
}

// DecodeRecorderKey verifies the signature of a recorder key and
// extracts the embedded recorder uid. A missing, malformed or forged
// key fails with an invalid-credential error.
func DecodeRecorderKey(key, secret string) (string, error) {
	if key == "" {
		return "", apperr.New(apperr.Unauthorized, "recorder key is required")
	}

	claims := &recorderClaims{}
	token, err := jwt.ParseWithClaims(key, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", apperr.Wrap(apperr.Unauthorized, err, "invalid recorder key")
	}
	if !token.Valid || claims.UID == "" {
		return "", apperr.New(apperr.Unauthorized, "recorder key carries no identity")
	}

	return claims.UID, nil
}
