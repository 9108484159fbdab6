package ethaddr

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	eth_crypto "github.com/ethereum/go-ethereum/crypto"
)

// Uncompressed secp256k1 generator point, i.e. the public key of private
// key 1. Its address is a well-known fixture.
const generatorPubHex = "0479be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798" +
	"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"

func TestDeriveAddressGeneratorPoint(t *testing.T) {
	pub, err := hex.DecodeString(generatorPubHex)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}

	addr, err := DeriveAddress(pub)
	if err != nil {
		t.Fatalf("DeriveAddress: %v", err)
	}

	want := "7e5f4552091a69125d5dfcb7b8c2659029395bdf"
	if got := hex.EncodeToString(addr[:]); got != want {
		t.Errorf("address = %s, want %s", got, want)
	}
}

func TestDeriveAddressTrailingSuffix(t *testing.T) {
	pub, _ := hex.DecodeString(generatorPubHex)
	want, _ := DeriveAddress(pub)

	// A longer encoded structure whose final 65 bytes are the raw point
	// (e.g. a DER SubjectPublicKeyInfo) must derive the same address.
	wrapped := append(make([]byte, 26), pub...)
	got, err := DeriveAddress(wrapped)
	if err != nil {
		t.Fatalf("DeriveAddress(wrapped): %v", err)
	}
	if got != want {
		t.Errorf("wrapped key address = %x, want %x", got, want)
	}
}

func TestDeriveAddressTooShort(t *testing.T) {
	for _, n := range []int{0, 1, 64} {
		_, err := DeriveAddress(make([]byte, n))
		if !errors.Is(err, ErrInvalidPublicKeyLength) {
			t.Errorf("length %d: err = %v, want ErrInvalidPublicKeyLength", n, err)
		}
	}
}

// Cross-check derivation against go-ethereum for freshly generated keys.
func TestDeriveAddressAgainstReference(t *testing.T) {
	for i := 0; i < 16; i++ {
		priv, err := eth_crypto.GenerateKey()
		if err != nil {
			t.Fatalf("generate key: %v", err)
		}
		pub := eth_crypto.FromECDSAPub(&priv.PublicKey) // 65-byte uncompressed

		got, err := DeriveAddress(pub)
		if err != nil {
			t.Fatalf("DeriveAddress: %v", err)
		}
		want := eth_crypto.PubkeyToAddress(priv.PublicKey)
		if got != want {
			t.Fatalf("address = %s, want %s", got.Hex(), want.Hex())
		}
	}
}

func TestChecksumEIP55Vectors(t *testing.T) {
	// Official EIP-55 test vectors.
	vectors := []string{
		"5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"fB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"dbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"D1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
		// All-caps and all-lowercase extremes.
		"52908400098527886E0F7030069857D2E4169EE7",
		"de709f2102306220921060314715629080e2fb77",
		// Generator-point address from the derivation test.
		"7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
	}

	for _, want := range vectors {
		got, err := Checksum(strings.ToLower(want))
		if err != nil {
			t.Fatalf("Checksum(%s): %v", want, err)
		}
		if got != want {
			t.Errorf("Checksum = %s, want %s", got, want)
		}
	}
}

func TestChecksumIdempotent(t *testing.T) {
	in := "fb6916095ca1df60bb79ce92ce3ea74c37c5d359"
	once, err := Checksum(in)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	twice, err := Checksum(strings.ToLower(once))
	if err != nil {
		t.Fatalf("Checksum(lowered): %v", err)
	}
	if once != twice {
		t.Errorf("not idempotent: %s vs %s", once, twice)
	}
}

func TestChecksumPreservesCharacters(t *testing.T) {
	in := "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	out, err := Checksum(in)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("length changed: %d -> %d", len(in), len(out))
	}
	for i := 0; i < len(in); i++ {
		if in[i] >= '0' && in[i] <= '9' {
			if out[i] != in[i] {
				t.Errorf("digit at %d changed: %c -> %c", i, in[i], out[i])
			}
			continue
		}
		if out[i] != in[i] && out[i] != in[i]-('a'-'A') {
			t.Errorf("letter at %d replaced, not re-cased: %c -> %c", i, in[i], out[i])
		}
	}
}

func TestChecksumAllDigitsUnchanged(t *testing.T) {
	in := strings.Repeat("0", 40)
	out, err := Checksum(in)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if out != in {
		t.Errorf("all-zero address changed: %s", out)
	}

	in = "1234567890123456789012345678901234567890"
	out, err = Checksum(in)
	if err != nil {
		t.Fatalf("Checksum: %v", err)
	}
	if out != in {
		t.Errorf("all-numeric address changed: %s", out)
	}
}

func TestChecksumRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"5aaeb6053f3e94c9b9a09f33669435e7ef1beae",    // 39 chars
		"5aaeb6053f3e94c9b9a09f33669435e7ef1beaed0",  // 41 chars
		"5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED",   // uppercase input
		"5aaeb6053f3e94c9b9a09f33669435e7ef1beaeg",   // non-hex char
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", // prefixed
	}
	for _, in := range bad {
		if _, err := Checksum(in); !errors.Is(err, ErrInvalidAddressFormat) {
			t.Errorf("Checksum(%q): err = %v, want ErrInvalidAddressFormat", in, err)
		}
	}
}

func TestChecksumAddressMatchesReference(t *testing.T) {
	addr := common.HexToAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	got := ChecksumAddress(addr)
	if want := addr.Hex(); got != want { // common.Address.Hex is EIP-55
		t.Errorf("ChecksumAddress = %s, want %s", got, want)
	}
}
