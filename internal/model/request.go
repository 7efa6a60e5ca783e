package model

import "fmt"

// StatusAccepted is returned by a successful delete.
const StatusAccepted = 202

// Status is a bare status-code result.
type Status struct {
	Code int
}

// CreateUserRequest registers a new user.
type CreateUserRequest struct {
	PublicKey      string
	CredentialHash string
}

// Validate checks required fields.
func (r CreateUserRequest) Validate() error {
	if r.PublicKey == "" {
		return fmt.Errorf("%w: public key is required", ErrInvalidArgument)
	}
	if r.CredentialHash == "" {
		return fmt.Errorf("%w: hash is required", ErrInvalidArgument)
	}
	return nil
}

// GetUserRequest fetches a user by UUID.
type GetUserRequest struct {
	UUID string
}

// Validate checks required fields.
func (r GetUserRequest) Validate() error {
	if r.UUID == "" {
		return fmt.Errorf("%w: uuid is required", ErrInvalidArgument)
	}
	return nil
}

// DeleteUserRequest removes a user. Hash is the signed payload.
type DeleteUserRequest struct {
	Timestamp string
	UUID      string
	Hash      string
	Signature string
}

// Signed returns the gate input of the request.
func (r DeleteUserRequest) Signed() SignedRequest {
	return SignedRequest{Timestamp: r.Timestamp, UUID: r.UUID, Payload: r.Hash, Signature: r.Signature}
}

// UpdateHashRequest replaces the credential hash of a user with NewHash.
type UpdateHashRequest struct {
	Timestamp string
	UUID      string
	NewHash   string
	Signature string
}

// Signed returns the gate input of the request.
func (r UpdateHashRequest) Signed() SignedRequest {
	return SignedRequest{Timestamp: r.Timestamp, UUID: r.UUID, Payload: r.NewHash, Signature: r.Signature}
}

// SignedRequest is the part of a mutating request covered by the signature.
type SignedRequest struct {
	Timestamp string
	UUID      string
	Payload   string
	Signature string
}

// Validate checks required fields.
func (r SignedRequest) Validate() error {
	switch {
	case r.Timestamp == "":
		return fmt.Errorf("%w: timestamp is required", ErrInvalidArgument)
	case r.UUID == "":
		return fmt.Errorf("%w: uuid is required", ErrInvalidArgument)
	case r.Payload == "":
		return fmt.Errorf("%w: hash is required", ErrInvalidArgument)
	}
	return nil
}

// Message returns the canonical signed message: timestamp, uuid and payload
// concatenated in this order without delimiters.
func (r SignedRequest) Message() string {
	return r.Timestamp + r.UUID + r.Payload
}
