package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	cache "github.com/krisalay/store-cache"
	"github.com/krisalay/store-cache/config"
	"github.com/krisalay/store-cache/engine"
	"github.com/krisalay/store-cache/metrics"
	"github.com/krisalay/store-cache/store"
	"github.com/krisalay/store-cache/types"
)

type lowStockItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("STORE           :", cfg.StoreDriver, cfg.StorePath)
	fmt.Println("BUDGET          :", cfg.MaxBytes, "bytes")
	fmt.Println("EVICTION POLICY :", cfg.EvictionPolicy)
	fmt.Println("COMPRESSION     :", cfg.Compression, "above", cfg.CompressionThreshold, "bytes")

	backend, err := store.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return err
	}
	defer backend.Close()

	counters := &metrics.Counters{}
	eng, err := engine.FromConfig(cfg, types.SystemClock{}, counters, logger)
	if err != nil {
		return err
	}
	c, err := cache.NewStoreCache(backend, cfg, eng)
	if err != nil {
		return err
	}
	defer c.Close()

	// ====================================================
	fmt.Println("\n==================== 1) RECONCILE ====================")
	report, err := c.Reconcile(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("dropped=%d adopted=%d purged=%d\n", len(report.Dropped), len(report.Adopted), len(report.Purged))

	// ====================================================
	fmt.Println("\n==================== 2) SET + GET ====================")
	items := []lowStockItem{{ID: 1, Name: "Shampoo", Quantity: 2}, {ID: 2, Name: "Esmalte", Quantity: 1}}
	if err := c.SetWithTTL(ctx, cache.NamespaceInventory, "baixo_estoque_X", items, 2*time.Minute); err != nil {
		return err
	}
	got, ok := cache.GetAs[[]lowStockItem](ctx, c, cache.NamespaceInventory, "baixo_estoque_X")
	fmt.Println("CACHE  → GET estoque/baixo_estoque_X =", got, ok)
	ttl, _ := c.TTL(ctx, cache.NamespaceInventory, "baixo_estoque_X")
	fmt.Println("CACHE  → TTL =", ttl.Round(time.Second))

	// ====================================================
	fmt.Println("\n==================== 3) FETCH (READ-THROUGH) ====================")
	for i := 0; i < 2; i++ {
		text, err := cache.Fetch(ctx, c, cache.NamespaceReports, "monthly", cache.TTLOneHour,
			func(context.Context) (string, error) {
				fmt.Println("LOADER → building monthly report")
				return strings.Repeat("linha do relatório ", 200), nil
			})
		if err != nil {
			return err
		}
		fmt.Println("CACHE  → FETCH relatorios/monthly length =", len(text))
	}

	// ====================================================
	fmt.Println("\n==================== 4) CLEAR NAMESPACE ====================")
	if err := c.Set(ctx, cache.NamespaceClients, "recent", []string{"Ana", "Bruno"}); err != nil {
		return err
	}
	if err := c.ClearNamespace(ctx, cache.NamespaceClients); err != nil {
		return err
	}
	_, ok = c.Get(ctx, cache.NamespaceClients, "recent")
	fmt.Println("CACHE  → GET clientes/recent after clear found =", ok)

	// ====================================================
	fmt.Println("\n==================== 5) STATS ====================")
	stats, err := c.Stats(ctx)
	if err != nil {
		return err
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(out))

	// ====================================================
	s := counters.Snapshot()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS        : %d\n", s.Hits)
	fmt.Printf("MISSES      : %d\n", s.Misses)
	fmt.Printf("EVICTIONS   : %d\n", s.Evictions)
	fmt.Printf("EXPIRED     : %d\n", s.Expirations)
	fmt.Printf("CORRUPTIONS : %d\n", s.Corruptions)

	fmt.Println("\n==================== SHUTDOWN ====================")
	return nil
}
