package api

// API response types for REST endpoints and WebSocket messages

// AddressInfo is the response for a resolved address.
type AddressInfo struct {
	KeyID   string `json:"key_id"`
	Address string `json:"address"` // 0x-prefixed, EIP-55 checksummed
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ResolutionEvent is broadcast on the WebSocket feed after each successful
// resolution.
type ResolutionEvent struct {
	Type      string `json:"type"` // "resolution"
	KeyID     string `json:"key_id"`
	Address   string `json:"address"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}
