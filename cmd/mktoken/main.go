// Command mktoken mints an access token for local development and testing.
// Tokens are normally issued by the identity provider in front of this
// service; this tool exists so the API can be exercised without one.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/heartmarshall/inkwell-backend/internal/auth"
	"github.com/heartmarshall/inkwell-backend/internal/config"
)

func main() {
	actorFlag := flag.String("actor", "", "actor UUID (random if empty)")
	nameFlag := flag.String("name", "dev", "actor display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	actorID := uuid.New()
	if *actorFlag != "" {
		actorID, err = uuid.Parse(*actorFlag)
		if err != nil {
			log.Fatalf("parse actor id: %v", err)
		}
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	token, err := jwtManager.GenerateAccessToken(actorID, *nameFlag)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Printf("actor: %s\ntoken: %s\n", actorID, token)
}
