package main

import "github.com/joho/godotenv"

func main() {
	// Local .env is a convenience for ANTHROPIC_API_KEY and store URLs.
	_ = godotenv.Load()
	Execute()
}
