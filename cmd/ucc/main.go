package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/idilsaglam/ucc/internal/cli"
)

func main() {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	os.Exit(cli.Run(os.Args[1:]))
}
