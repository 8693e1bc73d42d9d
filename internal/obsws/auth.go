package obsws

import (
	"crypto/sha256"
	"encoding/base64"
)

// authResponse computes the obs-websocket v5 authentication string:
//
//	base64(sha256(base64(sha256(password + salt)) + challenge))
//
// The salt and challenge come from the server's Hello message.
func authResponse(password, salt, challenge string) string {
	secret := sha256.Sum256([]byte(password + salt))
	secretB64 := base64.StdEncoding.EncodeToString(secret[:])

	final := sha256.Sum256([]byte(secretB64 + challenge))
	return base64.StdEncoding.EncodeToString(final[:])
}
