package main

import (
	"log"

	"geo-server/auth"
	"geo-server/confs"
	"geo-server/db"
	"geo-server/server"
)

func main() {
	// load config
	err := confs.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	secret, err := confs.JWTSecret()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	tokens := auth.NewTokenManager(secret, confs.JWTIssuer(), confs.JWTTTL())

	// connect to database Postgres
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	// run server
	serverDb := server.NewServer(database, tokens)
	serverDb.Start()
}
