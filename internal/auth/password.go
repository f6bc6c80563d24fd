package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Password algorithms accepted by NewPasswordHasher.
const (
	AlgoBcrypt   = "bcrypt"
	AlgoArgon2id = "argon2id"
)

const (
	argon2SaltLen = 16
	argon2KeyLen  = 32
	argon2Prefix  = "$argon2id$"
)

// PasswordHasher produces salted one-way digests and checks plaintexts against them.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// BcryptHasher hashes with bcrypt at a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash hashes a plaintext password with the configured cost.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain produced digest.
func (h *BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// Argon2Params tunes argon2id.
type Argon2Params struct {
	MemoryKiB   uint32
	Time        uint32
	Parallelism uint8
}

// Argon2Hasher hashes with argon2id and PHC-encodes the result.
type Argon2Hasher struct {
	params Argon2Params
}

// NewArgon2Hasher fills zero params with conservative defaults.
func NewArgon2Hasher(params Argon2Params) *Argon2Hasher {
	if params.MemoryKiB == 0 {
		params.MemoryKiB = 64 * 1024
	}
	if params.Time == 0 {
		params.Time = 3
	}
	if params.Parallelism == 0 {
		params.Parallelism = 2
	}
	return &Argon2Hasher{params: params}
}

// Hash returns $argon2id$v=19$m=..,t=..,p=..$salt$key.
func (h *Argon2Hasher) Hash(plain string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plain), salt, h.params.Time, h.params.MemoryKiB, h.params.Parallelism, argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Time,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the key with the digest's own parameters.
func (h *Argon2Hasher) Verify(plain, digest string) bool {
	params, salt, key, err := decodeArgon2(digest)
	if err != nil {
		return false
	}
	computed := argon2.IDKey([]byte(plain), salt, params.Time, params.MemoryKiB, params.Parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(computed, key) == 1
}

func decodeArgon2(digest string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, errors.New("invalid argon2id digest")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Argon2Params{}, nil, nil, errors.New("unsupported argon2 version")
	}

	var params Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.MemoryKiB, &params.Time, &params.Parallelism); err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("invalid argon2 params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, errors.New("invalid salt encoding")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Argon2Params{}, nil, nil, errors.New("invalid key encoding")
	}
	return params, salt, key, nil
}

// multiHasher hashes with one algorithm and verifies digests of any supported one.
type multiHasher struct {
	primary PasswordHasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

// NewPasswordHasher returns a hasher that writes algo digests and reads both formats.
func NewPasswordHasher(algo string, bcryptCost int, params Argon2Params) (PasswordHasher, error) {
	h := &multiHasher{
		bcrypt: NewBcryptHasher(bcryptCost),
		argon2: NewArgon2Hasher(params),
	}
	switch algo {
	case AlgoBcrypt, "":
		h.primary = h.bcrypt
	case AlgoArgon2id:
		h.primary = h.argon2
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", algo)
	}
	return h, nil
}

func (h *multiHasher) Hash(plain string) (string, error) {
	return h.primary.Hash(plain)
}

func (h *multiHasher) Verify(plain, digest string) bool {
	if strings.HasPrefix(digest, argon2Prefix) {
		return h.argon2.Verify(plain, digest)
	}
	return h.bcrypt.Verify(plain, digest)
}
