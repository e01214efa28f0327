// Package password hashes and verifies user passwords.
//
// New hashes are Argon2id in PHC string format:
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<hash_b64>
//
// Verify also understands bcrypt hashes so accounts created by older
// deployments can still log in.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	algorithmID = "argon2id"

	defaultSaltLength uint32 = 16
	defaultKeyLength  uint32 = 32

	minMemoryKiB uint32 = 8 * 1024

	// maxBcryptCost caps legacy hashes; each step doubles the work.
	maxBcryptCost = bcrypt.DefaultCost + 4
)

// ErrInvalidParams is returned by NewHasher for unusable cost parameters.
var ErrInvalidParams = errors.New("password: invalid argon2id parameters")

// Params are the Argon2id cost settings used for new hashes.
type Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams follows the RFC 9106 "second recommended" profile.
func DefaultParams() Params {
	return Params{
		MemoryKiB:   64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  defaultSaltLength,
		KeyLength:   defaultKeyLength,
	}
}

// Hasher is safe for concurrent use; build one at startup and share it.
type Hasher struct {
	params Params
}

// NewHasher validates params and returns a Hasher. Zero salt/key lengths
// fall back to the defaults.
func NewHasher(p Params) (*Hasher, error) {
	if p.SaltLength == 0 {
		p.SaltLength = defaultSaltLength
	}
	if p.KeyLength == 0 {
		p.KeyLength = defaultKeyLength
	}
	if p.MemoryKiB < minMemoryKiB || p.Iterations == 0 || p.Parallelism == 0 {
		return nil, ErrInvalidParams
	}
	if p.SaltLength < 8 || p.KeyLength < 16 {
		return nil, ErrInvalidParams
	}
	return &Hasher{params: p}, nil
}

// Hash returns a freshly salted Argon2id encoding of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.params.Iterations, h.params.MemoryKiB, h.params.Parallelism, h.params.KeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Iterations,
		h.params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches encoded. Malformed or
// unsupported encodings yield false, never an error.
func (h *Hasher) Verify(plaintext, encoded string) bool {
	if isBcrypt(encoded) {
		cost, err := bcrypt.Cost([]byte(encoded))
		if err != nil || cost > maxBcryptCost {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext)) == nil
	}

	p, salt, expected, err := decode(encoded)
	if err != nil || !h.withinBounds(p) {
		return false
	}

	key := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.MemoryKiB, p.Parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1
}

// NeedsRehash reports whether encoded was produced with weaker settings
// than the current ones (or by bcrypt) and should be replaced on next login.
func (h *Hasher) NeedsRehash(encoded string) bool {
	if isBcrypt(encoded) {
		return true
	}
	p, _, _, err := decode(encoded)
	if err != nil {
		return true
	}
	return p.MemoryKiB < h.params.MemoryKiB ||
		p.Iterations < h.params.Iterations ||
		p.Parallelism < h.params.Parallelism ||
		p.KeyLength != h.params.KeyLength
}

// withinBounds refuses encodings whose cost is far above ours, so a planted
// hash cannot make Verify burn unbounded memory or CPU.
func (h *Hasher) withinBounds(got Params) bool {
	if got.MemoryKiB > h.params.MemoryKiB*4 {
		return false
	}
	if got.Iterations > h.params.Iterations*4 {
		return false
	}
	if uint32(got.Parallelism) > uint32(h.params.Parallelism)*4 {
		return false
	}
	return got.SaltLength >= 8 && got.SaltLength <= 64 && got.KeyLength >= 16 && got.KeyLength <= 128
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

var errInvalidHash = errors.New("password: invalid hash encoding")

func decode(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithmID {
		return Params{}, nil, nil, errInvalidHash
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return Params{}, nil, nil, errInvalidHash
	}

	var mem, iter, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iter, &par); err != nil {
		return Params{}, nil, nil, errInvalidHash
	}
	if mem == 0 || iter == 0 || par == 0 || par > 255 {
		return Params{}, nil, nil, errInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, errInvalidHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, errInvalidHash
	}

	return Params{
		MemoryKiB:   mem,
		Iterations:  iter,
		Parallelism: uint8(par),
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(key)),
	}, salt, key, nil
}
