package auth

import "golang.org/x/crypto/bcrypt"

// HashAPIKey hashes a plaintext API key for storage in configuration.
func HashAPIKey(key string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyAPIKey reports whether the presented key matches any configured hash.
func VerifyAPIKey(hashes []string, presented string) bool {
	for _, hash := range hashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(presented)) == nil {
			return true
		}
	}
	return false
}
