package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeAlphabet excludes the characters 0, O, 1, I and L so codes survive
// being read aloud or typed in manually.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

// GenerateRedemptionCode returns an opaque, collision-resistant code. It is
// a random token, never a sequential counter, so holders cannot forge the
// next code from the previous one.
func GenerateRedemptionCode() string {
	return generateRandom(RedemptionCodeLength, codeAlphabet)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, err := rand.Int(rand.Reader, charsetLength)
		if err != nil {
			// Without the system entropy source there is no way to mint an
			// unguessable code; a predictable fallback would be worse than
			// crashing.
			panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
		}
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

func SecureRandomInt(max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return int(n.Int64())
}
