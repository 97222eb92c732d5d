package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/smarttransit/agent-ticketing-backend/internal/utils"
	"github.com/smarttransit/agent-ticketing-backend/pkg/jwt"
)

func main() {
	var (
		userIDFlag string
		phone      string
		roles      string
		expiry     time.Duration
		newSecret  bool
	)
	flag.StringVar(&userIDFlag, "user-id", "", "agent user id (random when empty)")
	flag.StringVar(&phone, "phone", "", "phone number recorded in the token")
	flag.StringVar(&roles, "roles", "agent", "comma separated roles")
	flag.DurationVar(&expiry, "expiry", time.Hour, "token lifetime")
	flag.BoolVar(&newSecret, "generate-secret", false, "print a fresh JWT_SECRET and exit")
	flag.Parse()

	if newSecret {
		secret, err := utils.GenerateSecret(32)
		if err != nil {
			log.Fatalf("Failed to generate secret: %v", err)
		}
		fmt.Printf("JWT_SECRET=%s\n", secret)
		return
	}

	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is not set (run with -generate-secret to create one)")
	}
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "smarttransit-agent-portal"
	}

	userID := uuid.New()
	if userIDFlag != "" {
		parsed, err := uuid.Parse(userIDFlag)
		if err != nil {
			log.Fatalf("Invalid -user-id: %v", err)
		}
		userID = parsed
	}

	var roleList []string
	for _, r := range strings.Split(roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roleList = append(roleList, r)
		}
	}

	service := jwt.NewService(secret, issuer, expiry)
	token, err := service.GenerateAccessToken(userID, phone, roleList)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	expiresAt, err := service.GetTokenExpiry(token)
	if err != nil {
		log.Fatalf("Failed to read token expiry: %v", err)
	}

	fmt.Printf("USER_ID=%s\n", userID)
	fmt.Printf("EXPIRES_AT=%s\n", expiresAt.Format(time.RFC3339))
	fmt.Printf("TOKEN=%s\n", token)
}
