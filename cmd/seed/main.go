package main

import (
	"context"
	"log"
	"os"

	"github.com/savemymealng-tech/smm-app-sub000/internal/config"
	"github.com/savemymealng-tech/smm-app-sub000/internal/db"
	"github.com/savemymealng-tech/smm-app-sub000/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool, logger); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
