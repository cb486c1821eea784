package main

import (
	"log"

	"github.com/joho/godotenv"

	"invoicegen-backend/cmd"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cmd.Execute()
}
