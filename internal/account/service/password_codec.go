package service

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/allisson/go-pwdhash"
	pwdargon2 "github.com/allisson/go-pwdhash/argon2"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	apperrors "github.com/allisson/storefront/internal/errors"
)

// Secret format:
//
//	pbkdf2-sha512:<salt hex>:<iterations>:<derived key hex>
//	argon2id:<PHC string>
//	<salt hex>:<iterations>:<derived key hex>   (legacy, untagged PBKDF2-SHA512)
const (
	// SchemePBKDF2SHA512 is PBKDF2 with HMAC-SHA-512.
	SchemePBKDF2SHA512 = "pbkdf2-sha512"

	// SchemeArgon2id is argon2id encoded as a PHC string by go-pwdhash.
	SchemeArgon2id = "argon2id"

	// DefaultIterations is the PBKDF2 work factor written into new secrets.
	DefaultIterations = 210_000

	// MinIterations is the lowest work factor Derive accepts.
	MinIterations = 100_000

	// SaltLength is the number of random salt bytes per secret.
	SaltLength = 16

	// KeyLength is the PBKDF2 output length in bytes.
	KeyLength = 64

	fieldSeparator = ":"

	// bounds applied to values read back from stored secrets
	maxIterations = 10_000_000
	minKeyLength  = 16
	maxKeyLength  = 1024

	// argon2id parameters read back from stored secrets. Memory is in KiB and capped
	// at the strongest go-pwdhash policy so a stored value cannot exhaust the host.
	maxArgonMemory     = 256 * 1024
	minArgonSaltLength = 8
)

// CodecOption configures a password codec.
type CodecOption func(*passwordCodec) error

// WithScheme selects the scheme Derive writes. Verify accepts every known scheme.
func WithScheme(scheme string) CodecOption {
	return func(c *passwordCodec) error {
		switch scheme {
		case SchemePBKDF2SHA512, SchemeArgon2id:
			c.scheme = scheme
			return nil
		default:
			return apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported password hash scheme %q", scheme)
		}
	}
}

// WithIterations overrides the PBKDF2 iteration count used by Derive.
func WithIterations(iterations int) CodecOption {
	return func(c *passwordCodec) error {
		if iterations < MinIterations || iterations > maxIterations {
			return apperrors.Wrapf(
				apperrors.ErrInvalidInput,
				"iterations must be between %d and %d",
				MinIterations,
				maxIterations,
			)
		}
		c.iterations = iterations
		return nil
	}
}

// passwordCodec implements PasswordCodec.
type passwordCodec struct {
	scheme     string
	iterations int
	argon      *pwdhash.PasswordHasher
}

// NewPasswordCodec creates a PasswordCodec that writes PBKDF2-SHA512 secrets unless
// another scheme is selected.
func NewPasswordCodec(opts ...CodecOption) (PasswordCodec, error) {
	argon, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create argon2id hasher")
	}

	c := &passwordCodec{
		scheme:     SchemePBKDF2SHA512,
		iterations: DefaultIterations,
		argon:      argon,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Derive implements PasswordCodec.
func (c *passwordCodec) Derive(password string) (string, error) {
	if c.scheme == SchemeArgon2id {
		phc, err := c.argon.Hash([]byte(password))
		if err != nil {
			return "", apperrors.Wrap(err, "failed to hash password")
		}
		return SchemeArgon2id + fieldSeparator + phc, nil
	}

	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", apperrors.Wrap(err, "failed to generate salt")
	}
	key := pbkdf2.Key([]byte(password), salt, c.iterations, KeyLength, sha512.New)

	return strings.Join([]string{
		SchemePBKDF2SHA512,
		hex.EncodeToString(salt),
		strconv.Itoa(c.iterations),
		hex.EncodeToString(key),
	}, fieldSeparator), nil
}

// Verify implements PasswordCodec.
func (c *passwordCodec) Verify(password, secret string) bool {
	tag, rest, found := strings.Cut(secret, fieldSeparator)
	if !found {
		return false
	}

	switch tag {
	case SchemePBKDF2SHA512:
		return verifyPBKDF2(password, rest)
	case SchemeArgon2id:
		return c.verifyArgon2id(password, rest)
	default:
		// untagged secrets predate the scheme field and are always PBKDF2-SHA512
		return verifyPBKDF2(password, secret)
	}
}

// verifyArgon2id checks a PHC string. The parameters are bounded before go-pwdhash
// sees them because it passes them unchecked to argon2.IDKey.
func (c *passwordCodec) verifyArgon2id(password, phc string) (ok bool) {
	if err := checkArgon2idPHC(phc); err != nil {
		return false
	}

	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	matched, err := c.argon.Verify([]byte(password), phc)
	return err == nil && matched
}

// checkArgon2idPHC accepts "$argon2id$v=19$m=<kib>,p=<lanes>,t=<passes>$<salt>$<hash>"
// with each parameter exactly once, in any order.
func checkArgon2idPHC(phc string) error {
	parts := strings.Split(phc, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != SchemeArgon2id {
		return fmt.Errorf("malformed argon2id string")
	}

	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return fmt.Errorf("unsupported argon2 version")
	}

	params := map[string]uint64{}
	for _, kv := range strings.Split(parts[3], ",") {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			return fmt.Errorf("malformed argon2 parameter")
		}
		if _, dup := params[key]; dup {
			return fmt.Errorf("duplicate argon2 parameter %q", key)
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("malformed argon2 parameter %q", key)
		}
		params[key] = n
	}
	if len(params) != 3 {
		return fmt.Errorf("expected m, t and p parameters")
	}

	memory, hasMemory := params["m"]
	passes, hasPasses := params["t"]
	lanes, hasLanes := params["p"]
	switch {
	case !hasMemory || !hasPasses || !hasLanes:
		return fmt.Errorf("expected m, t and p parameters")
	case passes < 1 || passes > pwdargon2.MaxIterations:
		return fmt.Errorf("argon2 passes out of range")
	case lanes < 1 || lanes > pwdargon2.MaxParallelism:
		return fmt.Errorf("argon2 parallelism out of range")
	case memory < 8*lanes || memory > maxArgonMemory:
		return fmt.Errorf("argon2 memory out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < minArgonSaltLength {
		return fmt.Errorf("malformed argon2 salt")
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) < minKeyLength || len(hash) > maxKeyLength {
		return fmt.Errorf("malformed argon2 hash")
	}

	return nil
}

// verifyPBKDF2 checks "<salt>:<iterations>:<key>".
func verifyPBKDF2(password, encoded string) bool {
	salt, iterations, expected, err := parsePBKDF2(encoded)
	if err != nil {
		return false
	}
	computed := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha512.New)
	return subtle.ConstantTimeCompare(computed, expected) == 1
}

func parsePBKDF2(encoded string) (salt []byte, iterations int, key []byte, err error) {
	fields := strings.Split(encoded, fieldSeparator)
	if len(fields) != 3 {
		return nil, 0, nil, fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	salt, err = hex.DecodeString(fields[0])
	if err != nil || len(salt) == 0 {
		return nil, 0, nil, fmt.Errorf("malformed salt")
	}

	iterations, err = parseIterations(fields[1])
	if err != nil {
		return nil, 0, nil, err
	}

	key, err = hex.DecodeString(fields[2])
	if err != nil || len(key) < minKeyLength || len(key) > maxKeyLength {
		return nil, 0, nil, fmt.Errorf("malformed derived key")
	}

	return salt, iterations, key, nil
}

// parseIterations accepts plain decimal digits only (no sign, no spaces).
func parseIterations(s string) (int, error) {
	if s == "" || len(s) > 9 {
		return 0, fmt.Errorf("malformed iteration count")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("malformed iteration count")
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxIterations {
		return 0, fmt.Errorf("iteration count out of range")
	}
	return n, nil
}
