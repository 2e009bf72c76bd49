// Command admintoken mints an admin bearer token for the /admin/* REST
// endpoints. It never talks to a running server: given the same
// admin_jwt_secret the server was started with, it prints a token an
// operator can pass as Authorization: Bearer <token>.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/annel0/terra-engine/internal/auth"
)

func main() {
	var (
		secretFlag       = flag.String("secret", "", "base64 admin_jwt_secret (default: TERRA_ADMIN_JWT_SECRET env)")
		ttl              = flag.Duration("ttl", 24*time.Hour, "token lifetime")
		password         = flag.String("password", "", "plaintext admin password, checked against -hash if set")
		passwordHashFlag = flag.String("hash", "", "bcrypt hash to check -password against (default: TERRA_ADMIN_PASSWORD_HASH env)")
		genHash          = flag.String("genhash", "", "print a bcrypt hash of this password for TERRA_ADMIN_PASSWORD_HASH and exit")
	)
	flag.Parse()

	if *genHash != "" {
		hash, err := auth.HashPassword(*genHash)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		fmt.Println(hash)
		return
	}

	secret := *secretFlag
	if secret == "" {
		secret = os.Getenv("TERRA_ADMIN_JWT_SECRET")
	}
	if secret == "" {
		log.Fatal("no admin secret: pass -secret or set TERRA_ADMIN_JWT_SECRET")
	}

	passwordHash := *passwordHashFlag
	if passwordHash == "" {
		passwordHash = os.Getenv("TERRA_ADMIN_PASSWORD_HASH")
	}
	if passwordHash != "" && !auth.CheckPassword(passwordHash, *password) {
		log.Fatal("password does not match configured admin hash")
	}

	key, err := auth.DecodeSecret(secret)
	if err != nil {
		log.Fatalf("decode secret: %v", err)
	}

	token, err := auth.GenerateAdminToken(key, *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
