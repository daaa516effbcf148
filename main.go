package main

import (
	"github.com/joho/godotenv"

	"cpgrag/internal/cli"
)

func main() {
	// Load .env if present (API key for the generation service).
	_ = godotenv.Load()

	cli.Execute()
}
