// keyaddr resolves a signing-service key id to its EIP-55 Ethereum address
// and prints it as a single line.
//
// Usage:
//
//	keyaddr [-no-cache] <key-id>
//
// Configuration comes from .env / environment (KEYSVC_URL, KEYSVC_TIMEOUT_MS,
// CACHE_PATH).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/keylab-io/keyaddr/params"
	"github.com/keylab-io/keyaddr/pkg/ethaddr"
	"github.com/keylab-io/keyaddr/pkg/keysource"
	"github.com/keylab-io/keyaddr/pkg/resolver"
	"github.com/keylab-io/keyaddr/pkg/storage"
)

func main() {
	noCache := flag.Bool("no-cache", false, "skip the local address cache")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: keyaddr [-no-cache] <key-id>")
		os.Exit(2)
	}
	keyID := flag.Arg(0)

	cfg := params.LoadFromEnv("")

	// Logs go to stderr; stdout carries only the address line.
	log := zap.NewNop().Sugar()
	if os.Getenv("VERBOSE") == "true" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "keyaddr: logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		log = logger.Sugar()
	}

	var cache *storage.AddressCache
	if !*noCache && cfg.Cache.Path != "" {
		c, err := storage.NewAddressCache(cfg.Cache.Path)
		if err != nil {
			// Cache is an optimization; resolve without it.
			log.Warnw("cache_unavailable", "path", cfg.Cache.Path, "err", err)
		} else {
			cache = c
			defer cache.Close()
		}
	}

	source := keysource.NewHTTPSource(cfg.KeyService.URL, cfg.KeyService.Timeout)
	r := resolver.New(source, cache, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr, err := r.Resolve(ctx, keyID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keyaddr: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(ethaddr.ChecksumAddress(addr))
}
