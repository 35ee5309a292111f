package main

import (
	"github.com/joho/godotenv"

	"ezrta/internal/cli"
)

func main() {
	// Optional .env in the working directory; a missing file is fine.
	_ = godotenv.Load()
	cli.Execute()
}
