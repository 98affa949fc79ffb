// Package auth keeps the player bearer token in the system keyring.
package auth

import (
	"errors"

	"github.com/karaberus/karaplay/constant"
	"github.com/zalando/go-keyring"
)

const user = "player-token"

var service = constant.App

// SetToken stores the token handed to mpv as an Authorization header.
func SetToken(token string) error {
	return keyring.Set(service, user, token)
}

// GetToken returns the stored token.
func GetToken() (string, error) {
	return keyring.Get(service, user)
}

// Token returns the stored token, or "" when none has been saved.
func Token() (string, error) {
	token, err := GetToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// DeleteToken forgets the stored token.
func DeleteToken() error {
	return keyring.Delete(service, user)
}
