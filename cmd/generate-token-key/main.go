package main

import (
	"fmt"
	"log"

	"github.com/justinabrahms/atbackgammon/internal/auth"
)

func main() {
	// Generate new ECDSA key pair for ES256
	privateKey, err := auth.GenerateKey()
	if err != nil {
		log.Fatal("Failed to generate private key:", err)
	}

	privKeyPEM, err := auth.EncodeKey(privateKey)
	if err != nil {
		log.Fatal("Failed to encode private key:", err)
	}

	fmt.Println("=== TOKEN SIGNING KEY (Keep this secret!) ===")
	fmt.Println("Save this to token-key.pem and set auth.key_path (or ATBG_AUTH_KEY_PATH):")
	fmt.Println()
	fmt.Print(string(privKeyPEM))
	fmt.Println()
	fmt.Println("=== IMPORTANT SECURITY NOTES ===")
	fmt.Println("1. NEVER commit the private key to version control")
	fmt.Println("2. Set appropriate file permissions (chmod 600) on the private key file")
	fmt.Println("3. Rotating the key invalidates every issued player token")
}
