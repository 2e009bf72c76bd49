package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword bcrypt-hashes an admin console password at DefaultCost.
// cmd/tools/admintoken's -genhash flag calls this to produce the value
// an operator puts in TERRA_ADMIN_PASSWORD_HASH; there is no
// player-account system in this domain, so this backs exactly one
// secret, not a user table.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches hash. admintoken's
// -password/-hash flags use this as an optional second gate before
// minting an admin JWT, on top of the -secret it always requires.
func CheckPassword(hash string, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
