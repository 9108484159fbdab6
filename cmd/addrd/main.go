// addrd serves address resolution over HTTP: REST lookups plus a WebSocket
// feed of resolution events.
package main

import (
	"log"

	"github.com/keylab-io/keyaddr/params"
	"github.com/keylab-io/keyaddr/pkg/api"
	"github.com/keylab-io/keyaddr/pkg/keysource"
	"github.com/keylab-io/keyaddr/pkg/resolver"
	"github.com/keylab-io/keyaddr/pkg/storage"
	"github.com/keylab-io/keyaddr/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	logger, err := util.NewLoggerWithFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.LogFile)

	var cache *storage.AddressCache
	if cfg.Cache.Path != "" {
		cache, err = storage.NewAddressCache(cfg.Cache.Path)
		if err != nil {
			sugar.Fatalw("cache_open_failed", "path", cfg.Cache.Path, "err", err)
		}
		defer cache.Close()
		sugar.Infow("cache_open", "path", cfg.Cache.Path)
	} else {
		sugar.Info("cache disabled")
	}

	source := keysource.NewHTTPSource(cfg.KeyService.URL, cfg.KeyService.Timeout)
	r := resolver.New(source, cache, sugar)

	server := api.NewServer(r, sugar)

	sugar.Infow("addrd_starting",
		"api_addr", cfg.API.Addr,
		"key_service", cfg.KeyService.URL,
		"timeout_ms", cfg.KeyService.Timeout.Milliseconds())

	if err := server.Start(cfg.API.Addr); err != nil {
		sugar.Fatalw("api_server_failed", "err", err)
	}
}
