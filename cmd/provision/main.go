package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"filmgate.io/internal/auth"
)

// provision registers an API client and prints its plaintext key. The key
// is shown exactly once; only its hash is stored.
func main() {
	log.SetFlags(0)
	var (
		dsn  = flag.String("dsn", os.Getenv("FILMGATE_PG_DSN"), "PostgreSQL DSN")
		name = flag.String("name", "", "Client name")
	)
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or FILMGATE_PG_DSN")
	}
	if *name == "" {
		log.Fatal("missing -name")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	key, client, err := auth.ProvisionClient(ctx, auth.NewPGStore(db), *name)
	if err != nil {
		log.Fatalf("provision client: %v", err)
	}

	fmt.Printf("client id:   %s\n", client.ID)
	fmt.Printf("client name: %s\n", client.Name)
	fmt.Printf("api key:     %s\n", key)
	fmt.Println("store this key now; it cannot be recovered later")
}
