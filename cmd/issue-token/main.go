// Package main issues an identity token signed with the server's key, for
// exercising authenticated endpoints locally.
//
// Usage:
//
//	go run ./cmd/issue-token --email ada@example.com --name Ada
//	curl -H "Authorization: Bearer $(go run ./cmd/issue-token --email ada@example.com)" ...
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/prompthub/prompthub-server/internal/auth"
	"github.com/prompthub/prompthub-server/internal/domain"
)

var (
	email    = flag.String("email", "", "Identity email (required)")
	name     = flag.String("name", "", "Display name")
	image    = flag.String("image", "", "Avatar URL")
	dataPath = flag.String("data", "", "Data directory holding auth.key (default $DATA_PATH or ~/PromptHub/data)")
	duration = flag.Duration("duration", 24*time.Hour, "Token lifetime")
)

func main() {
	flag.Parse()

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	base := *dataPath
	if base == "" {
		base = os.Getenv("DATA_PATH")
	}
	if base == "" {
		base = os.ExpandEnv("$HOME/PromptHub/data")
	}

	key, err := auth.LoadOrGenerateKey(base)
	if err != nil {
		log.Fatalf("Failed to load key: %v", err)
	}

	tokens, err := auth.NewTokenService(key, *duration)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	token, err := tokens.IssueIdentityToken(domain.Identity{Email: *email, Name: *name, Image: *image})
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(token)
}
