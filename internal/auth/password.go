package auth

import "golang.org/x/crypto/bcrypt"

// PasswordCost matches the salt rounds existing hashes were created with.
const PasswordCost = 10

// HashPassword hashes a plaintext password using bcrypt with PasswordCost.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), PasswordCost)
	return string(b), err
}

// CheckPassword compares a bcrypt hash with a candidate plaintext password.
func CheckPassword(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}
