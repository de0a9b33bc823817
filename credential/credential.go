// Package credential generates and hashes login passwords.
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// PasswordLength is the length of generated member passwords.
	PasswordLength = 8
	alphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Params are the argon2id cost factors.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams are used by Hash.
var DefaultParams = Params{
	Memory:      64 * 1024,
	Iterations:  1,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// ErrMalformedHash is returned by Verify for strings Hash did not produce.
var ErrMalformedHash = errors.New("credential: malformed hash")

// Generate returns a random password of PasswordLength characters from A-Z0-9.
func Generate() (string, error) {
	buf := make([]byte, PasswordLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("credential: generate: %w", err)
	}
	// Bytes >= 252 are dropped so every character is equally likely.
	out := make([]byte, 0, PasswordLength)
	for len(out) < PasswordLength {
		for _, b := range buf {
			if b >= 252 {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == PasswordLength {
				break
			}
		}
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("credential: generate: %w", err)
		}
	}
	return string(out), nil
}

// Hash derives an argon2id hash in PHC form:
// $argon2id$v=19$m=65536,t=1,p=4$salt$hash
func Hash(password string) (string, error) {
	return HashWith(password, DefaultParams)
}

// HashWith is Hash with explicit cost factors.
func HashWith(password string, p Params) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("credential: salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. The parameters stored in
// encoded are used, so old hashes keep verifying after DefaultParams change.
func Verify(password, encoded string) (bool, error) {
	p, salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}
	other := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}

func decode(encoded string) (Params, []byte, []byte, error) {
	var p Params
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return p, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, ErrMalformedHash
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, ErrMalformedHash
	}
	p.SaltLength = uint32(len(salt)) //nolint:gosec // bounded by decode
	p.KeyLength = uint32(len(key))   //nolint:gosec // bounded by decode
	return p, salt, key, nil
}
