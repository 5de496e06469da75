package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopgraph/shopgraph/config"
	"github.com/shopgraph/shopgraph/internal/bootstrap"
	"github.com/shopgraph/shopgraph/internal/catalog"
	"github.com/shopgraph/shopgraph/internal/graphstore"
	"github.com/shopgraph/shopgraph/internal/recommendations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, &cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	graph, err := graphstore.Open(&cfg.Neo4j)
	if err != nil {
		log.Fatalf("neo4j: %v", err)
	}
	defer graph.Close(ctx)

	engine := recommendations.NewEngine(graph)

	var recs recommendations.Provider = engine
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()

		ttl := time.Duration(cfg.Redis.CacheTTLSeconds) * time.Second
		recs = recommendations.NewCache(engine, rdb, ttl)
		log.Printf("Recommendation cache enabled (redis %s, ttl %s)", cfg.Redis.Addr, ttl)
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "shopgraph-api",
		Version:     cfg.App.Version,
		DB:          db,
		Graph:       graph,
		Recs:        recs,
		Catalog:     catalog.NewService(graph),
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
