// Package jwks verifies bearer tokens against a remotely published signing
// key set. The set is fetched per verification; nothing is persisted.
package jwks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrKeyNotFound means no key in the fetched set matches the token's kid
	// (or the token header carries no kid at all).
	ErrKeyNotFound = errors.New("key not found in JWKS")
	// ErrInvalidToken means the compact token is malformed.
	ErrInvalidToken = errors.New("invalid JWT token format")
)

// NetworkError wraps failures reaching the key-set endpoint.
type NetworkError struct {
	Msg string
}

func (e *NetworkError) Error() string { return "network error: " + e.Msg }

// ParseError wraps failures decoding the key set or the token header.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "parse error: " + e.Msg }

// VerificationError wraps unsupported algorithms and signature failures.
type VerificationError struct {
	Msg string
}

func (e *VerificationError) Error() string { return "verification error: " + e.Msg }

// JWKS is a JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK is one published key. Only the RSA fields are consumed here; the rest
// ride along so unsupported keys still parse.
type JWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid,omitempty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	N   string `json:"n,omitempty"`
	E   string `json:"e,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
	Crv string `json:"crv,omitempty"`
}

// Header is the decoded JOSE header of a compact token.
type Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ,omitempty"`
	Kid string `json:"kid,omitempty"`
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

// Fetch retrieves the key set from url. Non-2xx responses are NetworkError,
// unparseable bodies ParseError.
func Fetch(ctx context.Context, url string) (*JWKS, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Msg: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Msg: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{Msg: fmt.Sprintf("HTTP %d from JWKS endpoint", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("failed to read response: %v", err)}
	}

	var set JWKS
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("failed to parse JWKS: %v", err)}
	}
	return &set, nil
}

// FindKey locates a key by kid.
func (s *JWKS) FindKey(kid string) *JWK {
	for i := range s.Keys {
		if s.Keys[i].Kid == kid {
			return &s.Keys[i]
		}
	}
	return nil
}

// ParseHeader splits a compact token and decodes its header segment. An
// uneven segment count or undecodable header is ErrInvalidToken.
func ParseHeader(token string) (*Header, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	raw, err := DecodeSegment(parts[0])
	if err != nil {
		return nil, ErrInvalidToken
	}

	var header Header
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("failed to parse JWT header: %v", err)}
	}
	return &header, nil
}

// DecodeSegment decodes base64url with or without padding.
func DecodeSegment(s string) ([]byte, error) {
	if rem := len(s) % 4; rem > 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return base64.URLEncoding.DecodeString(s)
}
