package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/bcrypt"

	"go.hackfix.me/hypersphere/resource"
)

// tokenSize is the number of random bytes in a generated token.
const tokenSize = 32

// Authenticator validates the credentials of a request.
type Authenticator interface {
	Authenticate(req *resource.Request) bool
}

// Chain is an Authenticator that succeeds if any of its authenticators does.
// They are tried in order.
type Chain []Authenticator

var _ Authenticator = Chain(nil)

// Authenticate implements the Authenticator interface.
func (c Chain) Authenticate(req *resource.Request) bool {
	for _, a := range c {
		if a.Authenticate(req) {
			return true
		}
	}
	return false
}

// Basic authenticates requests with HTTP Basic credentials, checked against
// bcrypt password hashes.
type Basic struct {
	users map[string][]byte
}

var _ Authenticator = (*Basic)(nil)

// NewBasic returns a Basic authenticator for the given user name to bcrypt
// hash mapping. It returns an error if any hash is malformed.
func NewBasic(users map[string]string) (*Basic, error) {
	b := &Basic{users: make(map[string][]byte, len(users))}
	for name, hash := range users {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid password hash for user '%s': %w", name, err)
		}
		b.users[name] = []byte(hash)
	}

	return b, nil
}

// Authenticate implements the Authenticator interface.
func (b *Basic) Authenticate(req *resource.Request) bool {
	payload, ok := parseAuthHeader(req.Header.Get("Authorization"), "Basic")
	if !ok {
		return false
	}

	userpass, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return false
	}
	name, password, ok := strings.Cut(string(userpass), ":")
	if !ok {
		return false
	}

	hash, ok := b.users[name]
	if !ok {
		return false
	}
	if err = bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return false
	}

	return req.SetIdentity(name) == nil
}

// HashPassword returns the bcrypt hash of password, suitable for NewBasic.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed hashing password: %w", err)
	}
	return string(hash), nil
}

// Tokens authenticates requests with Base58 encoded bearer tokens. Only the
// SHA-256 digests of tokens are stored.
type Tokens struct {
	digests map[string][]byte
	names   []string
}

var _ Authenticator = (*Tokens)(nil)

// NewTokens returns a Tokens authenticator for the given user name to
// hex-encoded token digest mapping.
func NewTokens(digests map[string]string) (*Tokens, error) {
	t := &Tokens{digests: make(map[string][]byte, len(digests))}
	for name, digestHex := range digests {
		digest, err := hex.DecodeString(digestHex)
		if err != nil || len(digest) != sha256.Size {
			return nil, fmt.Errorf("invalid token digest for user '%s'", name)
		}
		t.digests[name] = digest
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)

	return t, nil
}

// Authenticate implements the Authenticator interface.
func (t *Tokens) Authenticate(req *resource.Request) bool {
	payload, ok := parseAuthHeader(req.Header.Get("Authorization"), "Bearer")
	if !ok {
		return false
	}

	token, err := base58.Decode(payload)
	if err != nil || len(token) == 0 {
		return false
	}
	digest := sha256.Sum256(token)

	// Compare against every digest, so that timing doesn't reveal which user
	// matched.
	var matched string
	for _, name := range t.names {
		if subtle.ConstantTimeCompare(digest[:], t.digests[name]) == 1 {
			matched = name
		}
	}
	if matched == "" {
		return false
	}

	return req.SetIdentity(matched) == nil
}

// NewToken generates a random bearer token. It returns the Base58 encoded
// token to hand to the client, and the hex-encoded digest to configure with
// NewTokens.
func NewToken() (token, digest string, err error) {
	raw := make([]byte, tokenSize)
	if _, err = rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed generating token: %w", err)
	}
	sum := sha256.Sum256(raw)

	return base58.Encode(raw), hex.EncodeToString(sum[:]), nil
}

// parseAuthHeader returns the credentials of an Authorization header using the
// given scheme. Schemes are matched case-insensitively.
func parseAuthHeader(header, scheme string) (string, bool) {
	s, payload, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(s, scheme) {
		return "", false
	}
	payload = strings.TrimSpace(payload)

	return payload, payload != ""
}
