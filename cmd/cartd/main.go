package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/savemymealng-tech/smm-app-sub000/internal/config"
	"github.com/savemymealng-tech/smm-app-sub000/internal/db"
	"github.com/savemymealng-tech/smm-app-sub000/internal/httpserver"
	cartrepo "github.com/savemymealng-tech/smm-app-sub000/internal/repository/cart"
	productrepo "github.com/savemymealng-tech/smm-app-sub000/internal/repository/product"
	"github.com/savemymealng-tech/smm-app-sub000/internal/seed"
	cartsvc "github.com/savemymealng-tech/smm-app-sub000/internal/service/cart"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[cartd] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var (
		dbpool      *pgxpool.Pool
		productRepo productrepo.Repository
		cartRepo    cartrepo.Repository
	)
	if cfg.DBConnString == "memory" {
		// In-memory mode for local development without Postgres.
		logger.Printf("running with in-memory storage")
		productRepo = productrepo.NewMemory(seed.Products()...)
		cartRepo = cartrepo.NewMemory()
	} else {
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		dbpool = pool
		productRepo = productrepo.NewPostgres(pool, logger)
		cartRepo = cartrepo.NewPostgres(pool)
	}

	cartService := cartsvc.New(cartRepo, productRepo)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:    cartService,
		ProductSvc: productRepo,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
