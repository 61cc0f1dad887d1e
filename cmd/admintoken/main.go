// Mints an admin-scoped bearer token for the maintenance endpoints, signed
// with the ADMIN_JWT_SECRET the server verifies against.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"country-voting/internal/config"
	jwtpkg "country-voting/internal/platform/jwt"
)

func main() {
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()

	mgr := jwtpkg.NewManager(cfg.AdminJWTSecret, "")
	token, err := mgr.Generate(jwtpkg.ScopeAdmin, *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
