package storage

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/ethereum/go-ethereum/common"
)

// AddressCache persists derived addresses keyed by the opaque key id, so a
// restart does not have to re-fetch key material from the signing service.
//
// Key schema: addr:<key id> → 20 raw address bytes.
type AddressCache struct {
	db *pebble.DB
}

const prefixAddress = "addr:"

func addressKey(keyID string) []byte {
	return []byte(prefixAddress + keyID)
}

// NewAddressCache opens (or creates) the cache at path.
func NewAddressCache(path string) (*AddressCache, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("storage: open cache: %w", err)
	}
	return &AddressCache{db: db}, nil
}

func (c *AddressCache) Close() error { return c.db.Close() }

// Get returns the cached address for keyID, or ok=false when absent.
func (c *AddressCache) Get(keyID string) (common.Address, bool, error) {
	val, closer, err := c.db.Get(addressKey(keyID))
	if err == pebble.ErrNotFound {
		return common.Address{}, false, nil
	}
	if err != nil {
		return common.Address{}, false, fmt.Errorf("storage: get %q: %w", keyID, err)
	}
	defer closer.Close()

	if len(val) != common.AddressLength {
		return common.Address{}, false, fmt.Errorf("storage: corrupt entry for %q: %d bytes", keyID, len(val))
	}
	var addr common.Address
	copy(addr[:], val)
	return addr, true, nil
}

// Put stores the address for keyID. Derived addresses are immutable, so an
// overwrite with a different value only happens if the upstream key changed.
func (c *AddressCache) Put(keyID string, addr common.Address) error {
	if err := c.db.Set(addressKey(keyID), addr[:], pebble.Sync); err != nil {
		return fmt.Errorf("storage: put %q: %w", keyID, err)
	}
	return nil
}
