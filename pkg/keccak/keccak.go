// Package keccak implements Keccak-256, the pre-standardization SHA-3 variant
// used throughout Ethereum tooling.
//
// This is the original Keccak with domain-separation byte 0x01, NOT the NIST
// SHA3-256 (0x06). Go's stdlib crypto/sha3 exposes only the NIST variant, so
// the sponge and permutation live here; tests cross-check every output against
// x/crypto/sha3.NewLegacyKeccak256.
package keccak

import "encoding/binary"

const (
	// rate is the sponge block size for a 256-bit digest:
	// (1600 - 2*256) / 8 = 136 bytes. The remaining 64 bytes of state
	// form the capacity and never touch input or output.
	rate = 136

	// Size is the digest length in bytes.
	Size = 32
)

// Sum256 computes the Keccak-256 digest of data. The state is private to the
// call, so concurrent invocations need no coordination.
func Sum256(data []byte) [Size]byte {
	var st [25]uint64

	for len(data) >= rate {
		absorb(&st, data[:rate])
		keccakF1600(&st)
		data = data[rate:]
	}

	// Final block: copy the tail, XOR in the 0x01 domain byte right after it
	// and the 0x80 end bit at byte 135. When the input fills the block to its
	// penultimate byte the two land on the same byte (0x81).
	var block [rate]byte
	copy(block[:], data)
	block[len(data)] ^= 0x01
	block[rate-1] ^= 0x80
	absorb(&st, block[:])
	keccakF1600(&st)

	return squeeze(&st)
}

// Hasher is a streaming Keccak-256 hasher for callers that feed input in
// pieces. The zero value is ready to use.
type Hasher struct {
	state    [25]uint64
	buf      [rate]byte
	absorbed int
}

// Reset returns the hasher to its initial state.
func (h *Hasher) Reset() {
	h.state = [25]uint64{}
	h.absorbed = 0
}

// Write absorbs p into the sponge. It never fails.
func (h *Hasher) Write(p []byte) (int, error) {
	n := len(p)

	if h.absorbed > 0 {
		c := copy(h.buf[h.absorbed:], p)
		h.absorbed += c
		p = p[c:]
		if h.absorbed == rate {
			absorb(&h.state, h.buf[:])
			keccakF1600(&h.state)
			h.absorbed = 0
		}
	}

	for len(p) >= rate {
		absorb(&h.state, p[:rate])
		keccakF1600(&h.state)
		p = p[rate:]
	}

	if len(p) > 0 {
		h.absorbed = copy(h.buf[:], p)
	}
	return n, nil
}

// Sum256 pads, permutes and returns the digest. The hasher itself is left
// untouched, so more input may be written afterwards.
func (h *Hasher) Sum256() [Size]byte {
	st := h.state
	var block [rate]byte
	copy(block[:], h.buf[:h.absorbed])
	block[h.absorbed] ^= 0x01
	block[rate-1] ^= 0x80
	absorb(&st, block[:])
	keccakF1600(&st)
	return squeeze(&st)
}

// absorb XORs one full rate-sized block into the first 17 lanes.
func absorb(st *[25]uint64, block []byte) {
	for i := 0; i < rate/8; i++ {
		st[i] ^= binary.LittleEndian.Uint64(block[8*i:])
	}
}

// squeeze reads the digest from lanes 0-3 in little-endian byte order.
// 32 bytes fit inside one rate block, so no extra permutation is needed.
func squeeze(st *[25]uint64) [Size]byte {
	var out [Size]byte
	for i := 0; i < Size/8; i++ {
		binary.LittleEndian.PutUint64(out[8*i:], st[i])
	}
	return out
}
