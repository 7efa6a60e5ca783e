package model

import (
	"encoding/json"
	"fmt"
)

const (
	userKeyPrefix = "user:"
	// PublicKeysKey is the storage key of the public key index document.
	PublicKeysKey = "keys"
)

// User is a directory entry. PublicKey is immutable after creation.
type User struct {
	UUID           string `json:"uuid"`
	PublicKey      string `json:"pubKey"`
	CredentialHash string `json:"hash"`
}

// UserKey returns the storage key of the user record.
func UserKey(uuid string) string {
	return userKeyPrefix + uuid
}

// EncodeUser serializes a user record.
func EncodeUser(user User) (Document, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("%w: encode user: %v", ErrSerialization, err)
	}
	return data, nil
}

// DecodeUser parses a user record. Records without an identifier or a public
// key are treated as undecodable.
func DecodeUser(doc Document) (User, error) {
	var user User
	if err := json.Unmarshal(doc, &user); err != nil {
		return User{}, fmt.Errorf("%w: decode user: %v", ErrSerialization, err)
	}
	if user.UUID == "" || user.PublicKey == "" {
		return User{}, fmt.Errorf("%w: decode user: missing uuid or public key", ErrSerialization)
	}
	return user, nil
}
