package main

import (
	"context"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/quanpos/api/internal/config"
	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/printing"
	"github.com/quanpos/api/internal/receipt"
	"github.com/quanpos/api/internal/router"
	"github.com/quanpos/api/internal/seed"
	"github.com/quanpos/api/internal/service"
	"github.com/quanpos/api/internal/store"
	"github.com/quanpos/api/internal/store/memory"
	"github.com/quanpos/api/internal/store/postgres"
	"github.com/quanpos/api/internal/ws"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	repo, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	images := receipt.NewDirImages(cfg.AssetDir)
	spooler := printing.NewSpooler(repo, images, cfg.PrinterTimeout)
	orders := service.NewOrderService(repo, hub, spooler, decimal.NewFromInt(int64(cfg.TaxPercent)))

	r := router.New(repo, orders, spooler, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}

// openStore connects to postgres when DATABASE_URL is set, otherwise
// runs on a seeded in-memory store for development.
func openStore(ctx context.Context, cfg *config.Config) (store.Repository, error) {
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		log.Println("Connected to database")
		return pg, nil
	}

	log.Println("DATABASE_URL not set, using in-memory store with demo data")
	mem := memory.New()
	put := seed.PutFuncs{
		Table:    func(_ context.Context, t domain.Table) error { mem.PutTable(t); return nil },
		Category: func(_ context.Context, c domain.Category) error { mem.PutCategory(c); return nil },
		Dish:     func(_ context.Context, d domain.Dish) error { mem.PutDish(d); return nil },
	}
	if err := seed.Demo(ctx, mem, put); err != nil {
		return nil, err
	}
	return mem, nil
}
