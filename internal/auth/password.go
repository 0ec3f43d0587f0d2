package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword — bcrypt с дефолтной стоимостью.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

func VerifyPassword(plain string, digest []byte) bool {
	return bcrypt.CompareHashAndPassword(digest, []byte(plain)) == nil
}
