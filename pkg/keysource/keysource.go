// Package keysource abstracts the remote signing service that owns the
// secp256k1 key material. The rest of the system only ever sees public key
// bytes or one of the error kinds below; signing and key generation stay on
// the service side.
package keysource

import (
	"context"
	"errors"
)

// Source returns the public key bytes for a key id. Implementations must
// return bytes that end in a 65-byte uncompressed point; the address deriver
// does not validate curve membership.
type Source interface {
	PublicKey(ctx context.Context, keyID string) ([]byte, error)
}

var (
	// ErrKeyNotFound means the service has no key under this id.
	ErrKeyNotFound = errors.New("keysource: key not found")

	// ErrKeyDisabled means the key exists but has been disabled.
	ErrKeyDisabled = errors.New("keysource: key disabled")

	// ErrServiceUnavailable means the service itself failed.
	ErrServiceUnavailable = errors.New("keysource: service unavailable")
)

// Kind classifies a retrieval failure for callers that map errors onto
// transport responses.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindDisabled
	KindService
)

// Classify maps an error from a Source onto its Kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrKeyNotFound):
		return KindNotFound
	case errors.Is(err, ErrKeyDisabled):
		return KindDisabled
	case errors.Is(err, ErrServiceUnavailable):
		return KindService
	default:
		return KindUnknown
	}
}

// Static is a fixed in-memory Source for tests and offline use.
type Static map[string][]byte

func (s Static) PublicKey(_ context.Context, keyID string) ([]byte, error) {
	pub, ok := s[keyID]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return pub, nil
}
