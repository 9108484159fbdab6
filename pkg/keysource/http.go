package keysource

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxKeyResponse bounds the response body; a public key payload is tiny.
const maxKeyResponse = 64 * 1024

// HTTPSource fetches public keys from the signing service over HTTP:
// GET {base}/v1/keys/{id} returning {"public_key": "<hex>"}.
type HTTPSource struct {
	base   string
	client *http.Client
}

// NewHTTPSource builds a source for the service at base (scheme://host[:port]).
// A zero timeout falls back to 5s.
func NewHTTPSource(base string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

type keyResponse struct {
	PublicKey string `json:"public_key"`
}

// PublicKey implements Source. Service statuses map onto the error taxonomy:
// 404 not found, 403 disabled, 5xx service unavailable.
func (s *HTTPSource) PublicKey(ctx context.Context, keyID string) ([]byte, error) {
	endpoint := s.base + "/v1/keys/" + url.PathEscape(keyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("keysource: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, keyID)
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %q", ErrKeyDisabled, keyID)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("keysource: unexpected status %d for %q", resp.StatusCode, keyID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxKeyResponse))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrServiceUnavailable, err)
	}

	var kr keyResponse
	if err := json.Unmarshal(body, &kr); err != nil {
		return nil, fmt.Errorf("keysource: decode response: %w", err)
	}

	pub, err := hex.DecodeString(strings.TrimPrefix(kr.PublicKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("keysource: public key is not hex: %w", err)
	}
	return pub, nil
}

var _ Source = (*HTTPSource)(nil)
