package credentials

import (
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// PasswordHasher hashes passwords for storage and verifies candidates
// against stored hashes.
type PasswordHasher interface {
	// Hash returns a salted one-way hash of plaintext.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hash. It returns false for
	// a wrong password and for a malformed hash.
	Verify(plaintext, hash string) bool
}

// BcryptHasher hashes with bcrypt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// Argon2idHasher hashes with argon2id using the library defaults.
type Argon2idHasher struct {
	params *argon2id.Params
}

func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{params: argon2id.DefaultParams}
}

func (h *Argon2idHasher) Hash(plaintext string) (string, error) {
	hashed, err := argon2id.CreateHash(plaintext, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}

func (h *Argon2idHasher) Verify(plaintext, hash string) bool {
	match, err := argon2id.ComparePasswordAndHash(plaintext, hash)
	return err == nil && match
}

// multiHasher hashes new passwords with one algorithm and verifies stored
// hashes with whichever algorithm produced them.
type multiHasher struct {
	primary  PasswordHasher
	bcrypt   *BcryptHasher
	argon2id *Argon2idHasher
}

// NewPasswordHasher returns a hasher producing hashes with the named
// algorithm. Verification accepts both bcrypt and argon2id hashes.
func NewPasswordHasher(algorithm string, bcryptCost int) (PasswordHasher, error) {
	h := &multiHasher{
		bcrypt:   NewBcryptHasher(bcryptCost),
		argon2id: NewArgon2idHasher(),
	}

	switch algorithm {
	case "", AlgorithmBcrypt:
		h.primary = h.bcrypt
	case AlgorithmArgon2id:
		h.primary = h.argon2id
	default:
		return nil, fmt.Errorf("unsupported password algorithm: %s", algorithm)
	}
	return h, nil
}

func (h *multiHasher) Hash(plaintext string) (string, error) {
	return h.primary.Hash(plaintext)
}

func (h *multiHasher) Verify(plaintext, hash string) bool {
	if strings.HasPrefix(hash, "$argon2id$") {
		return h.argon2id.Verify(plaintext, hash)
	}
	return h.bcrypt.Verify(plaintext, hash)
}
