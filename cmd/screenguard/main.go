// screenguard — screen scan pipeline for phishing and scam detection.
package main

import (
	"github.com/joho/godotenv"

	"github.com/ppiankov/screenguard/internal/cli"
)

func main() {
	// Optional .env for AWS keys and API tokens; absence is fine.
	_ = godotenv.Load()
	cli.Execute()
}
