package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the cost factor the rest of the system was provisioned
// with; seeded hashes are not portable across cost changes.
const bcryptCost = 12

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
