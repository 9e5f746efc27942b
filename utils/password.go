package utils

import (
	"github.com/matthewhartstonge/argon2"
)

// PasswordHasher produces and checks argon2id encoded hashes.
type PasswordHasher struct {
	config argon2.Config
}

func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{config: argon2.DefaultConfig()}
}

func NewPasswordHasherWithConfig(config argon2.Config) *PasswordHasher {
	return &PasswordHasher{config: config}
}

func (h *PasswordHasher) HashPassword(password string) (string, error) {
	encoded, err := h.config.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func (h *PasswordHasher) VerifyPassword(encodedHash, password string) (bool, error) {
	if encodedHash == "" {
		return false, nil
	}
	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, err
	}
	return ok, nil
}
