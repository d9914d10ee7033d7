package security

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fastParams keep the tests quick.
var fastParams = Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 32}

func newTestHasher(t *testing.T, secret string) *Argon2Hasher {
	t.Helper()
	h, err := NewArgon2Hasher(secret, fastParams)
	if err != nil {
		t.Fatalf("NewArgon2Hasher() error = %v", err)
	}
	return h
}

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	h := newTestHasher(t, "hash-secret")
	ctx := context.Background()

	for _, pw := range []string{"pw1", "correct-horse-battery-staple", "", "ünïcødé"} {
		encoded, err := h.Hash(ctx, pw, "AbCd1234")
		if err != nil {
			t.Fatalf("Hash(%q) error = %v", pw, err)
		}
		ok, err := h.Verify(ctx, encoded, pw, "AbCd1234")
		if err != nil {
			t.Fatalf("Verify(%q) error = %v", pw, err)
		}
		if !ok {
			t.Errorf("Verify(%q) = false, want true", pw)
		}
	}
}

func TestArgon2Hasher_WrongPassword(t *testing.T) {
	h := newTestHasher(t, "hash-secret")
	ctx := context.Background()

	encoded, err := h.Hash(ctx, "pw1", "salt0001")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	ok, err := h.Verify(ctx, encoded, "pw2", "salt0001")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ok {
		t.Error("Verify() should return false for a different password")
	}
}

func TestArgon2Hasher_Deterministic(t *testing.T) {
	h := newTestHasher(t, "hash-secret")
	ctx := context.Background()

	a, _ := h.Hash(ctx, "pw", "salt0001")
	b, _ := h.Hash(ctx, "pw", "salt0001")
	if a != b {
		t.Fatalf("same inputs produced different hashes: %q vs %q", a, b)
	}

	c, _ := h.Hash(ctx, "pw", "salt0002")
	if a == c {
		t.Fatal("different salts produced the same hash")
	}
}

func TestArgon2Hasher_SecretIsPartOfKey(t *testing.T) {
	ctx := context.Background()
	h1 := newTestHasher(t, "secret-one")
	h2 := newTestHasher(t, "secret-two")

	encoded, _ := h1.Hash(ctx, "pw", "salt0001")
	if strings.Contains(encoded, "pw") {
		t.Fatalf("encoded hash leaks the password: %q", encoded)
	}

	ok, err := h2.Verify(ctx, encoded, "pw", "salt0001")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ok {
		t.Error("a hash must not verify under a different secret")
	}
}

func TestArgon2Hasher_Format(t *testing.T) {
	h := newTestHasher(t, "hash-secret")
	encoded, err := h.Hash(context.Background(), "pw", "salt0001")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 {
		t.Fatalf("expected 5 $-delimited parts, got %d: %q", len(parts), encoded)
	}
	if parts[1] != "argon2id" || parts[2] != "v=19" {
		t.Errorf("unexpected header %q", encoded)
	}
	if parts[3] != "m=64,t=1,p=1" {
		t.Errorf("params = %q, want m=64,t=1,p=1", parts[3])
	}
}

func TestArgon2Hasher_MalformedHash(t *testing.T) {
	h := newTestHasher(t, "hash-secret")
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"plaintext", "pw1"},
		{"wrong algorithm", "$bcrypt$v=19$m=64,t=1,p=1$aGFzaA"},
		{"too few parts", "$argon2id$v=19$m=64,t=1,p=1"},
		{"bad version", "$argon2id$v=1$m=64,t=1,p=1$aGFzaGhhc2hoYXNoaGFzaA"},
		{"bad params", "$argon2id$v=19$m=x,t=1,p=1$aGFzaGhhc2hoYXNoaGFzaA"},
		{"zero threads", "$argon2id$v=19$m=64,t=1,p=0$aGFzaGhhc2hoYXNoaGFzaA"},
		{"bad base64", "$argon2id$v=19$m=64,t=1,p=1$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify(context.Background(), tt.hash, "pw1", "salt0001")
			if !errors.Is(err, ErrMalformedHash) {
				t.Fatalf("Verify() error = %v, want ErrMalformedHash", err)
			}
			if ok {
				t.Fatal("Verify() must not succeed on a malformed hash")
			}
		})
	}
}

func TestNewArgon2Hasher_Validation(t *testing.T) {
	if _, err := NewArgon2Hasher("", fastParams); !errors.Is(err, ErrEmptySecret) {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
	if _, err := NewArgon2Hasher("s", Params{Time: 0, Memory: 64, Threads: 1, KeyLen: 32}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if _, err := NewArgon2Hasher("s", Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 4}); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams for short key, got %v", err)
	}
}

func TestArgon2Hasher_CancelledContext(t *testing.T) {
	h := newTestHasher(t, "hash-secret")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.Hash(ctx, "pw", "salt0001"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Hash() error = %v, want context.Canceled", err)
	}
}
