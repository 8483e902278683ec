package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/newsletter/internal/admin"
	"github.com/dmitrijs2005/newsletter/internal/server/config"
	"github.com/dmitrijs2005/newsletter/internal/server/password"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/repomanager"
)

func main() {
	username, err := admin.ParseAddPublisher(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("%v", err)
	}

	pw, err := admin.PromptPassword(os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	p := admin.NewProvisioner(db, rm, password.NewHasher(cfg.PasswordParams()))
	id, err := p.AddPublisher(ctx, username, pw)
	if err != nil {
		log.Fatalf("add publisher: %v", err)
	}

	fmt.Printf("Publisher %q created with id %s\n", username, id)
}
