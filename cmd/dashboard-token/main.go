// Command dashboard-token mints a bearer token for the dashboard routes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/NeuralTrust/XSSGuard/pkg/config"
	"github.com/NeuralTrust/XSSGuard/pkg/infra/auth/jwt"
	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "dashboard", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
	configPath := flag.String("config", "./config", "directory holding config.yaml")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	manager, err := jwt.NewJwtManager(cfg.Dashboard.JWTSecret)
	if err != nil {
		log.Fatalf("dashboard.jwt_secret is not configured: %v", err)
	}

	token, err := manager.CreateToken(*subject, *ttl)
	if err != nil {
		log.Fatalf("failed to create token: %v", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, token)
}
