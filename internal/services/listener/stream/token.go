package stream

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/id"
)

// DefaultTokenTTL bounds the lifetime of a viewer token.
const DefaultTokenTTL = 15 * time.Minute

// ErrSigningKey indicates a missing token signing key.
var ErrSigningKey = errors.New("stream signing key is required")

// viewerClaims identifies the viewer a stream is opened for.
type viewerClaims struct {
	jwt.RegisteredClaims
}

// TokenSigner issues HS256 viewer tokens for the stream handshake. The
// remote store verifies them with the shared key.
type TokenSigner struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenSigner builds a signer. A non-positive ttl selects DefaultTokenTTL.
func NewTokenSigner(key []byte, issuer string, ttl time.Duration) (*TokenSigner, error) {
	if len(key) == 0 {
		return nil, ErrSigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenSigner{
		key:    append([]byte(nil), key...),
		issuer: strings.TrimSpace(issuer),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Sign issues a token whose subject is viewerID.
func (s *TokenSigner) Sign(viewerID string) (string, error) {
	viewerID = strings.TrimSpace(viewerID)
	if viewerID == "" {
		return "", errors.New("viewer id is required")
	}
	tokenID, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	now := s.now().UTC()
	claims := viewerClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        tokenID,
		Issuer:    s.issuer,
		Subject:   viewerID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign viewer token: %w", err)
	}
	return signed, nil
}
