// Command devtoken mints a signed bearer token for local development against
// an API started without an identity provider.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"backdesk.app/internal/auth"
)

func main() {
	log.SetFlags(0)
	_ = godotenv.Load()

	var (
		secret = flag.String("secret", os.Getenv("BACKDESK_AUTH_SECRET"), "Shared HS256 secret")
		issuer = flag.String("issuer", "backdesk", "Token issuer")
		sub    = flag.String("sub", "user-1", "Subject (user id)")
		email  = flag.String("email", "admin@example.com", "Principal email; the domain becomes the tenant")
		role   = flag.String("role", auth.RoleAdministrator, "Principal role")
		ttl    = flag.Duration("ttl", 8*time.Hour, "Token lifetime")
	)
	flag.Parse()

	if *secret == "" {
		log.Fatal("missing secret: provide via -secret or BACKDESK_AUTH_SECRET")
	}

	credential, err := auth.SignToken(*secret, *issuer, auth.Principal{
		ID:    *sub,
		Email: *email,
		Role:  *role,
	}, *ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(credential)
}
