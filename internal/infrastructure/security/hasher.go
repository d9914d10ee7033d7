package security

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrEmptySecret   = errors.New("hash secret must not be empty")
	ErrInvalidParams = errors.New("invalid argon2 parameters")
	ErrMalformedHash = errors.New("malformed password hash")
)

// Params are the Argon2id cost parameters. Production values come from the
// HASH_* settings.
type Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

func (p Params) validate() error {
	if p.Time == 0 || p.Memory < 8*uint32(p.Threads) || p.Threads == 0 || p.KeyLen < 16 {
		return fmt.Errorf("%w: t=%d m=%d p=%d len=%d", ErrInvalidParams, p.Time, p.Memory, p.Threads, p.KeyLen)
	}
	return nil
}

// Argon2Hasher derives password hashes keyed with a server-wide secret and
// salted per account. The password is first run through HMAC-SHA256 under the
// secret, then stretched with Argon2id over the account salt. The output is
//
//	$argon2id$v=19$m=<KiB>,t=<iterations>,p=<threads>$<base64 hash>
//
// The salt itself is stored next to the hash, not inside it.
type Argon2Hasher struct {
	secret []byte
	params Params
}

// NewArgon2Hasher validates the secret and cost parameters.
func NewArgon2Hasher(secret string, params Params) (*Argon2Hasher, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Argon2Hasher{secret: []byte(secret), params: params}, nil
}

// Hash returns the encoded hash of password under salt.
func (h *Argon2Hasher) Hash(ctx context.Context, password, salt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sum := h.derive(password, salt, h.params)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		argon2.Version,
		h.params.Memory, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify recomputes the hash with the parameters recorded in encodedHash and
// compares it in constant time.
func (h *Argon2Hasher) Verify(ctx context.Context, encodedHash, password, salt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	params, want, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}
	got := h.derive(password, salt, params)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func (h *Argon2Hasher) derive(password, salt string, p Params) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	return argon2.IDKey(mac.Sum(nil), []byte(salt), p.Time, p.Memory, p.Threads, p.KeyLen)
}

func decodeHash(encoded string) (Params, []byte, error) {
	var p Params
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "" {
		return p, nil, ErrMalformedHash
	}
	if parts[1] != "argon2id" {
		return p, nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, fmt.Errorf("%w: version: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return p, nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return p, nil, fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}

	sum, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, fmt.Errorf("%w: hash: %v", ErrMalformedHash, err)
	}
	p.KeyLen = uint32(len(sum)) //nolint:gosec // key length always fits uint32

	if err := p.validate(); err != nil {
		return p, nil, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return p, sum, nil
}
