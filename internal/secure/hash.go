// Package secure implements password hashing for channel credentials.
//
// Passwords are peppered with HMAC-SHA256 under a process-wide secret and then
// stretched with Argon2id. The result is encoded in the PHC string format
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// so that the salt and cost parameters travel with the hash and Verify does
// not depend on the current configuration.
//
// When a fixed salt is configured every record shares it, which keeps hashes
// reproducible across deployments. Leaving the salt empty switches to a
// random per-record salt; that is the recommended setting.
package secure

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrHash is returned when a hash could not be produced.
	ErrHash = errors.New("secure: hash failed")
	// ErrMalformedHash is returned by Verify for strings it cannot decode.
	ErrMalformedHash = errors.New("secure: malformed hash")
)

const saltLen = 16

// Params are the Argon2id cost parameters.
type Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
}

// DefaultParams matches the cost the service has always used.
var DefaultParams = Params{Time: 1, MemoryKiB: 64 * 1024, Threads: 4, KeyLen: 32}

// Hasher hashes and verifies channel passwords. It is safe for concurrent use.
type Hasher struct {
	pepper []byte
	salt   []byte
	params Params

	// rand is the entropy source for per-record salts.
	rand io.Reader
}

// NewHasher returns a Hasher keyed by pepper. An empty salt enables random
// per-record salts. Zero fields in p fall back to DefaultParams.
func NewHasher(pepper, salt string, p Params) *Hasher {
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.MemoryKiB == 0 {
		p.MemoryKiB = DefaultParams.MemoryKiB
	}
	if p.Threads == 0 {
		p.Threads = DefaultParams.Threads
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultParams.KeyLen
	}
	h := &Hasher{pepper: []byte(pepper), params: p, rand: rand.Reader}
	if salt != "" {
		h.salt = []byte(salt)
	}
	return h
}

// Hash returns the encoded hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	salt := h.salt
	if salt == nil {
		salt = make([]byte, saltLen)
		if _, err := io.ReadFull(h.rand, salt); err != nil {
			return "", fmt.Errorf("%w: salt: %v", ErrHash, err)
		}
	}
	key := argon2.IDKey(h.pepperize(password), salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, h.params.KeyLen)
	return encode(h.params, salt, key), nil
}

// Verify reports whether password matches encoded.
func (h *Hasher) Verify(encoded, password string) (bool, error) {
	p, salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}
	p.KeyLen = uint32(len(key))
	got := argon2.IDKey(h.pepperize(password), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)
	return subtle.ConstantTimeCompare(got, key) == 1, nil
}

func (h *Hasher) pepperize(password string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

var b64 = base64.RawStdEncoding

func encode(p Params, salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

func decode(encoded string) (Params, []byte, []byte, error) {
	var p Params
	parts := strings.Split(encoded, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, ErrMalformedHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Time, &p.Threads); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	// argon2 panics on a zero time or thread count.
	if p.Time == 0 || p.Threads == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	return p, salt, key, nil
}
