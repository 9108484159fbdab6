package params

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type KeyService struct {
	URL     string
	Timeout time.Duration
}

type Cache struct {
	// Path of the pebble directory; empty disables the cache.
	Path string
}

type API struct {
	Addr string
}

type Config struct {
	KeyService KeyService
	Cache      Cache
	API        API
	LogFile    string
}

func Default() Config {
	return Config{
		KeyService: KeyService{
			URL:     "http://localhost:9090",
			Timeout: 5 * time.Second,
		},
		Cache: Cache{
			Path: "data/addrcache.db",
		},
		API: API{
			Addr: ":8080",
		},
		LogFile: "data/addrd.log",
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if url := os.Getenv("KEYSVC_URL"); url != "" {
		cfg.KeyService.URL = url
	}
	if timeout := os.Getenv("KEYSVC_TIMEOUT_MS"); timeout != "" {
		if ms, err := strconv.Atoi(timeout); err == nil {
			cfg.KeyService.Timeout = time.Duration(ms) * time.Millisecond
		}
	}
	if path, ok := os.LookupEnv("CACHE_PATH"); ok {
		cfg.Cache.Path = path // set CACHE_PATH= (empty) to disable
	}
	if addr := os.Getenv("API_ADDR"); addr != "" {
		cfg.API.Addr = addr
	}
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}

	return cfg
}
