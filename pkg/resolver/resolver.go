// Package resolver wires the pipeline together: cache lookup, key retrieval
// from the signing service, address derivation.
package resolver

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/keylab-io/keyaddr/pkg/ethaddr"
	"github.com/keylab-io/keyaddr/pkg/keysource"
	"github.com/keylab-io/keyaddr/pkg/storage"
)

// Resolver resolves an opaque key id to its Ethereum address.
type Resolver struct {
	source keysource.Source
	cache  *storage.AddressCache // nil disables caching
	log    *zap.SugaredLogger

	// OnResolve, when set, is called after every successful resolution.
	// Used by the API server to broadcast events.
	OnResolve func(keyID string, addr common.Address)
}

// New builds a resolver. cache may be nil; log must not be.
func New(source keysource.Source, cache *storage.AddressCache, log *zap.SugaredLogger) *Resolver {
	return &Resolver{source: source, cache: cache, log: log}
}

// Resolve returns the address for keyID, consulting the cache first. The
// derivation core is only invoked once key material has actually been
// obtained; key source failures propagate unchanged so callers can classify
// them. Cache write failures are logged and swallowed since the answer is
// already in hand.
func (r *Resolver) Resolve(ctx context.Context, keyID string) (common.Address, error) {
	if keyID == "" {
		return common.Address{}, fmt.Errorf("resolver: empty key id")
	}

	if r.cache != nil {
		addr, ok, err := r.cache.Get(keyID)
		if err != nil {
			r.log.Warnw("cache_read_failed", "key_id", keyID, "err", err)
		} else if ok {
			r.log.Debugw("cache_hit", "key_id", keyID, "address", addr.Hex())
			return addr, nil
		}
	}

	pub, err := r.source.PublicKey(ctx, keyID)
	if err != nil {
		r.log.Infow("key_fetch_failed", "key_id", keyID, "err", err)
		return common.Address{}, err
	}

	addr, err := ethaddr.DeriveAddress(pub)
	if err != nil {
		r.log.Errorw("derive_failed", "key_id", keyID, "pub_len", len(pub), "err", err)
		return common.Address{}, err
	}

	if r.cache != nil {
		if err := r.cache.Put(keyID, addr); err != nil {
			r.log.Warnw("cache_write_failed", "key_id", keyID, "err", err)
		}
	}

	r.log.Infow("address_resolved", "key_id", keyID, "address", addr.Hex())
	if r.OnResolve != nil {
		r.OnResolve(keyID, addr)
	}
	return addr, nil
}
