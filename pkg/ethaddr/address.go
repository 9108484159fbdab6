// Package ethaddr turns secp256k1 public keys into Ethereum account
// addresses and applies the EIP-55 mixed-case checksum encoding.
//
// The package performs no curve arithmetic and does not check that the key
// material is a valid secp256k1 point; that is the signing service's job.
// It operates purely on byte strings of the expected shape.
package ethaddr

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/keylab-io/keyaddr/pkg/keccak"
)

// uncompressedPointLen is one format-marker byte plus two 32-byte coordinates.
const uncompressedPointLen = 65

var (
	// ErrInvalidPublicKeyLength reports fewer than 65 bytes of key material.
	// Fatal input error, not retryable.
	ErrInvalidPublicKeyLength = errors.New("ethaddr: public key shorter than 65 bytes")

	// ErrInvalidAddressFormat reports checksum input that is not exactly
	// 40 lowercase hex characters. Indicates a malformed address upstream.
	ErrInvalidAddressFormat = errors.New("ethaddr: address is not 40 lowercase hex characters")
)

// DeriveAddress computes the 20-byte account address from public key bytes
// ending in a 65-byte uncompressed point (marker || X || Y). Only the trailing
// 65 bytes are read, so callers may pass either the raw point or a larger
// encoded structure that carries it as a suffix. The marker byte is dropped
// without checking its value: garbage in, garbage out.
func DeriveAddress(pub []byte) (common.Address, error) {
	if len(pub) < uncompressedPointLen {
		return common.Address{}, fmt.Errorf("%w: got %d bytes", ErrInvalidPublicKeyLength, len(pub))
	}
	point := pub[len(pub)-uncompressedPointLen:]

	sum := keccak.Sum256(point[1:])

	var addr common.Address
	copy(addr[:], sum[keccak.Size-common.AddressLength:])
	return addr, nil
}

// Checksum applies EIP-55 casing to a 40-character lowercase hex address.
// Letter i is uppercased when nibble i of keccak256(address bytes) exceeds 7;
// digits pass through. Anything but exactly 40 chars of [0-9a-f] is rejected.
func Checksum(hexaddr string) (string, error) {
	if len(hexaddr) != 2*common.AddressLength {
		return "", fmt.Errorf("%w: got %d characters", ErrInvalidAddressFormat, len(hexaddr))
	}
	for i := 0; i < len(hexaddr); i++ {
		c := hexaddr[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: bad character %q at position %d", ErrInvalidAddressFormat, c, i)
		}
	}

	sum := keccak.Sum256([]byte(hexaddr))

	out := make([]byte, len(hexaddr))
	for i := 0; i < len(hexaddr); i++ {
		c := hexaddr[i]
		if c >= 'a' && c <= 'f' {
			// Each hex char maps to 4 bits: i>>1 picks the hash byte,
			// even/odd picks the high/low nibble.
			nibble := sum[i>>1] >> 4
			if i%2 == 1 {
				nibble = sum[i>>1] & 0x0f
			}
			if nibble > 7 {
				c -= 'a' - 'A'
			}
		}
		out[i] = c
	}
	return string(out), nil
}

// ChecksumAddress renders a derived address as the 0x-prefixed EIP-55 string.
func ChecksumAddress(addr common.Address) string {
	cs, err := Checksum(hex.EncodeToString(addr[:]))
	if err != nil {
		// hex.EncodeToString of 20 bytes is always 40 lowercase hex chars.
		panic(err)
	}
	return "0x" + cs
}
