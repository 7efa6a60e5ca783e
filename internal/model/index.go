package model

import (
	"encoding/json"
	"fmt"
)

// PublicKeyIndex maps a public key to the UUID of the user owning it.
// A public key maps to at most one UUID; the last registration wins.
type PublicKeyIndex map[string]string

// Put registers publicKey for uuid, replacing any previous mapping.
func (i PublicKeyIndex) Put(publicKey, uuid string) {
	i[publicKey] = uuid
}

// Lookup returns the UUID registered for publicKey.
func (i PublicKeyIndex) Lookup(publicKey string) (string, bool) {
	uuid, ok := i[publicKey]
	return uuid, ok
}

// Remove drops the entry for publicKey only while it still points at uuid,
// so removing a stale owner never drops a newer registration.
func (i PublicKeyIndex) Remove(publicKey, uuid string) bool {
	if current, ok := i[publicKey]; !ok || current != uuid {
		return false
	}
	delete(i, publicKey)
	return true
}

// EncodeIndex serializes the index document.
func EncodeIndex(index PublicKeyIndex) (Document, error) {
	if index == nil {
		index = PublicKeyIndex{}
	}
	data, err := json.Marshal(index)
	if err != nil {
		return nil, fmt.Errorf("%w: encode index: %v", ErrSerialization, err)
	}
	return data, nil
}

// DecodeIndex parses the index document.
func DecodeIndex(doc Document) (PublicKeyIndex, error) {
	index := PublicKeyIndex{}
	if err := json.Unmarshal(doc, &index); err != nil {
		return nil, fmt.Errorf("%w: decode index: %v", ErrSerialization, err)
	}
	if index == nil {
		index = PublicKeyIndex{}
	}
	return index, nil
}
