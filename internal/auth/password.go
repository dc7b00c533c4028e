package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Password hashing uses Argon2id. The work factors target tens of
// milliseconds on the small single-board hosts Sentinel typically runs
// on: memory-hard enough to blunt GPU cracking without starving the
// rest of the process.
const (
	hashIterations  uint32 = 3
	hashMemoryKiB   uint32 = 64 * 1024
	hashParallelism uint8  = 1
	hashDigestLen   uint32 = 32
	hashSaltLen            = 16
)

// phcHash is a decoded Argon2id hash in PHC string form:
//
//	$argon2id$v=19$m=<KiB>,t=<iterations>,p=<lanes>$<salt>$<digest>
//
// Salt and digest are unpadded base64.
type phcHash struct {
	version     int
	memoryKiB   uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	digest      []byte
}

// String renders the hash in PHC format for storage.
func (h phcHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		h.version, h.memoryKiB, h.iterations, h.parallelism,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.digest),
	)
}

// HashPassword derives an Argon2id hash of the password under the
// package work factors and returns it PHC-encoded.
func HashPassword(password string) (string, error) {
	salt := make([]byte, hashSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	h := phcHash{
		version:     argon2.Version,
		memoryKiB:   hashMemoryKiB,
		iterations:  hashIterations,
		parallelism: hashParallelism,
		salt:        salt,
		digest: argon2.IDKey([]byte(password), salt,
			hashIterations, hashMemoryKiB, hashParallelism, hashDigestLen),
	}
	return h.String(), nil
}

// VerifyPassword reports whether the password matches a stored PHC
// hash. The stored hash's own work factors are honoured, so records
// written under older parameters keep verifying if the defaults change.
func VerifyPassword(password, stored string) (bool, error) {
	h, err := parsePHC(stored)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey([]byte(password), h.salt,
		h.iterations, h.memoryKiB, h.parallelism, uint32(len(h.digest))) //nolint:gosec // G115: digest length fits uint32

	return subtle.ConstantTimeCompare(h.digest, candidate) == 1, nil
}

// parsePHC decodes a PHC-formatted Argon2id hash. Anything it cannot
// account for wraps ErrMalformedHash.
func parsePHC(stored string) (phcHash, error) {
	var h phcHash

	// The leading $ yields an empty first field, then five real ones.
	fields := strings.Split(stored, "$")
	if len(fields) != 6 || fields[0] != "" { //nolint:mnd // PHC field count
		return h, fmt.Errorf("%w: want five $-delimited fields", ErrMalformedHash)
	}
	if fields[1] != "argon2id" {
		return h, fmt.Errorf("%w: algorithm %q", ErrMalformedHash, fields[1])
	}

	if _, err := fmt.Sscanf(fields[2], "v=%d", &h.version); err != nil {
		return h, fmt.Errorf("%w: version field: %v", ErrMalformedHash, err)
	}
	if h.version != argon2.Version {
		return h, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, h.version)
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d",
		&h.memoryKiB, &h.iterations, &h.parallelism); err != nil {
		return h, fmt.Errorf("%w: work factors: %v", ErrMalformedHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return h, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	if h.digest, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return h, fmt.Errorf("%w: digest: %v", ErrMalformedHash, err)
	}

	return h, nil
}
