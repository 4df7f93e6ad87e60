package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"socialgraph/audit"
	"socialgraph/graph"
	"socialgraph/server"
	"socialgraph/store"
	"socialgraph/utils"
)

func newStore(ctx context.Context) graph.Store {
	switch backend := os.Getenv("STORE_BACKEND"); backend {
	case "", "memory":
		return store.NewMemoryStore()

	case "redis":
		return store.NewRedisStore(newRedisClient())

	case "postgres":
		connectionPool, err := pgxpool.New(
			ctx,
			fmt.Sprintf(
				"user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
				os.Getenv("DB_USERNAME"),
				os.Getenv("DB_PASSWORD"),
				"socialgraph",
				os.Getenv("DB_HOST"),
				os.Getenv("DB_PORT"),
			),
		)
		if err != nil {
			panic(err)
		}
		postgresStore := store.NewPostgresStore(connectionPool)
		if err := postgresStore.Init(ctx); err != nil {
			panic(err)
		}
		return postgresStore

	default:
		panic(fmt.Sprintf("unknown store backend: %s", backend))
	}
}

func newRedisClient() *redis.Client {
	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password: "", // no password set
		DB:       0,  // use default DB
	})
}

func newAuditLog(auditStream *audit.Stream) audit.Log {
	sinks := audit.MultiLog{audit.LogrusLog{}, auditStream}
	if os.Getenv("AUDIT_REDIS_STREAM") == "true" {
		maxLen := utils.IntFromString(os.Getenv("AUDIT_STREAM_MAX_LEN"), 100000)
		sinks = append(sinks, audit.NewRedisLog(newRedisClient(), int64(maxLen)))
	}
	return sinks
}

func main() {
	log.SetLevel(log.WarnLevel)

	ctx := context.Background()

	auditStream := audit.NewStream(
		utils.IntFromString(os.Getenv("AUDIT_STREAM_BUFFER"), 64),
	)
	service := graph.NewService(
		newStore(ctx),
		newAuditLog(auditStream),
		graph.Config{
			DedupFollows: os.Getenv("DEDUP_FOLLOWS") == "true",
		},
	)

	// No host dispatcher ships with this binary; the relay endpoint
	// reports not configured until an embedding host injects one through
	// server.NewServer.
	s := server.NewServer(service, auditStream, nil)
	s.Run()
}
