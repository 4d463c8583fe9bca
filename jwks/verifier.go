package jwks

import (
	"context"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks token signatures against one fetched key set.
type Verifier struct {
	jwks *JWKS
}

// NewVerifier fetches the key set from url. Each verifier holds one snapshot
// of the set; callers wanting fresh keys construct a new verifier.
func NewVerifier(ctx context.Context, url string) (*Verifier, error) {
	set, err := Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return &Verifier{jwks: set}, nil
}

// NewVerifierWithKeys wraps an already-fetched key set.
func NewVerifierWithKeys(set *JWKS) *Verifier {
	return &Verifier{jwks: set}
}

var supportedRSAAlgs = map[string]bool{
	"RS256": true,
	"RS384": true,
	"RS512": true,
}

// VerifyToken validates the token's structure and signature. Any error means
// unauthenticated; there is no partial success. Payload claims are not
// checked beyond what signature verification requires.
func (v *Verifier) VerifyToken(token string) (bool, error) {
	header, err := ParseHeader(token)
	if err != nil {
		return false, err
	}

	if header.Kid == "" {
		return false, ErrKeyNotFound
	}

	key := v.jwks.FindKey(header.Kid)
	if key == nil {
		return false, ErrKeyNotFound
	}

	if key.Kty != "RSA" || !supportedRSAAlgs[header.Alg] {
		return false, &VerificationError{Msg: fmt.Sprintf(
			"unsupported key type %q or algorithm %q, supported: RSA with RS256/RS384/RS512",
			key.Kty, header.Alg)}
	}

	pub, err := key.rsaPublicKey()
	if err != nil {
		return false, err
	}

	_, err = jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return pub, nil
	}, jwt.WithValidMethods([]string{header.Alg}), jwt.WithoutClaimsValidation())
	if err != nil {
		return false, &VerificationError{Msg: fmt.Sprintf("JWT verification failed: %v", err)}
	}

	return true, nil
}

// rsaPublicKey reconstructs the public key from the JWK's modulus and
// exponent components.
func (k *JWK) rsaPublicKey() (*rsa.PublicKey, error) {
	if k.N == "" || k.E == "" {
		return nil, ErrKeyNotFound
	}
	nBytes, err := DecodeSegment(k.N)
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("invalid modulus encoding: %v", err)}
	}
	eBytes, err := DecodeSegment(k.E)
	if err != nil {
		return nil, &ParseError{Msg: fmt.Sprintf("invalid exponent encoding: %v", err)}
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}
