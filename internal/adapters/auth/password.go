package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"salesdashboard/internal/domain"
)

// saltSeparator splits the salt from the bcrypt hash in a stored password.
// bcrypt output never contains it.
const saltSeparator = ":"

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a PasswordHasher storing "<salt>:<bcrypt>" where the
// bcrypt input is the hex SHA256 of salt+password. A stored value without a
// salt is compared as a plain bcrypt hash of the prehashed password.
func NewBcryptHasher(cost int) domain.PasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func generateSalt() (string, error) {
	saltBytes := make([]byte, 16)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(saltBytes), nil
}

func prehash(salt, password string) []byte {
	sum := sha256.Sum256([]byte(salt + password))
	return []byte(hex.EncodeToString(sum[:]))
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	salt, err := generateSalt()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword(prehash(salt, password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return salt + saltSeparator + string(hash), nil
}

func (h *bcryptHasher) Compare(stored, password string) error {
	salt, hash, found := strings.Cut(stored, saltSeparator)
	if !found {
		salt, hash = "", stored
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(salt, password))
}

// PlainCredential is a login table entry whose password is not hashed yet.
type PlainCredential struct {
	Role     domain.Role
	Store    string
	UserName string
	Password string
}

// HashCredentials hashes every password so plaintext never outlives startup.
// Entries with an empty password are skipped.
func HashCredentials(h domain.PasswordHasher, plain []PlainCredential) ([]domain.Credential, error) {
	out := make([]domain.Credential, 0, len(plain))
	for _, p := range plain {
		if p.Password == "" {
			continue
		}
		if !p.Role.Valid() {
			return nil, fmt.Errorf("credential %q: unknown role %q", p.UserName, p.Role)
		}
		hash, err := h.Hash(p.Password)
		if err != nil {
			return nil, fmt.Errorf("credential %q: %w", p.UserName, err)
		}
		out = append(out, domain.Credential{
			Role:         p.Role,
			Store:        p.Store,
			UserName:     p.UserName,
			PasswordHash: hash,
		})
	}
	return out, nil
}
