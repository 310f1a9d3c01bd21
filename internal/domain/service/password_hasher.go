// Package service defines interfaces for external collaborators the
// application layer depends on (hashing, tokens, authorization, messaging).
package service

// PasswordHasher defines operations for hashing and checking passwords.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a stored hash.
	Check(password, hash string) bool

	// ValidatePasswordStrength rejects passwords that do not meet the
	// configured strength requirements.
	ValidatePasswordStrength(password string) error
}
