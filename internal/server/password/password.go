// Package password hashes and verifies publisher passwords with argon2id.
//
// Hashes are stored as PHC strings, so every hash carries its own cost
// parameters and salt:
//
//	$argon2id$v=19$m=15000,t=2,p=1$<salt>$<key>
package password

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/newsletter/internal/common"
	"golang.org/x/crypto/argon2"
)

var (
	// ErrMismatch means the password does not match the hash.
	ErrMismatch = errors.New("password does not match")
	// ErrMalformedHash means the stored string is not a supported PHC hash.
	ErrMalformedHash = errors.New("malformed password hash")
)

// DefaultDummyHash is a valid hash with DefaultParams. It is verified against
// when a username is unknown so both paths cost the same.
const DefaultDummyHash = "$argon2id$v=19$m=15000,t=2,p=1$gZiV/M1gPc22ElAH/Jh1Hw$CWOrkoo7oJBQ/iyh7uJ0LO2aLEfrHwTWllSAxT0zRno"

// Params is the argon2id cost.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultParams = Params{
	Memory:      15000,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

var b64 = base64.RawStdEncoding

// Hasher produces and checks PHC hashes.
type Hasher struct {
	params Params
}

func NewHasher(p Params) *Hasher {
	return &Hasher{params: p}
}

// Hash derives a new hash for pw with a random salt.
func (h *Hasher) Hash(pw string) (string, error) {
	salt := common.GenerateRandByteArray(int(h.params.SaltLength))
	if salt == nil {
		return "", errors.New("salt: random source failed")
	}
	key := argon2.IDKey([]byte(pw), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Iterations, h.params.Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// Verify checks pw against phc using the parameters encoded in phc.
// It is CPU and memory heavy; callers on a request path should run it
// through a worker pool.
func (h *Hasher) Verify(phc, pw string) error {
	p, salt, key, err := decode(phc)
	if err != nil {
		return err
	}
	other := argon2.IDKey([]byte(pw), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(key)))
	if subtle.ConstantTimeCompare(key, other) != 1 {
		return ErrMismatch
	}
	return nil
}

// ParseParams returns the cost encoded in phc, or ErrMalformedHash.
func ParseParams(phc string) (Params, error) {
	p, _, _, err := decode(phc)
	return p, err
}

func decode(phc string) (Params, []byte, []byte, error) {
	var p Params

	parts := strings.Split(phc, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, ErrMalformedHash
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return p, nil, nil, ErrMalformedHash
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))

	return p, salt, key, nil
}
