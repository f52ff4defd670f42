package pkg

import "golang.org/x/crypto/bcrypt"

// TokenHashCost is the bcrypt cost used when hashing the write token.
const TokenHashCost = 12

func HashToken(token string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(token), cost)
	return BytesToString(bytes), err
}

func CheckTokenHash(token, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}
