package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"dobble/internal/deck"
	"dobble/internal/repositories/history"
	"dobble/internal/repositories/ranking"
	"dobble/internal/server"
	"dobble/internal/services/matchmaking"
)

func main() {
	// Load environment variables from a .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize repositories, Redis when configured, in-process otherwise
	var rankingRepo ranking.Repository
	var historyRepo history.Repository

	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})

		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pingCancel()
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}

		var err error
		rankingRepo, err = ranking.NewRedis(&ranking.Config{
			RedisClient: redisClient,
		})
		if err != nil {
			log.Fatalf("Failed to create ranking repository: %v", err)
		}

		historyRepo, err = history.NewRedis(&history.Config{
			RedisClient: redisClient,
		})
		if err != nil {
			log.Fatalf("Failed to create history repository: %v", err)
		}
	} else {
		rankingRepo = ranking.NewMemory()
		historyRepo = history.NewMemory()
	}

	deckOrder := getEnvInt("DECK_ORDER", 0)
	deckSeed := int64(getEnvInt("DECK_SEED", 0))

	// Initialize matchmaking coordinator
	coordinator, err := matchmaking.NewService(&matchmaking.Config{
		HistoryRepo: historyRepo,
		RankingRepo: rankingRepo,
		NewDeck: func() (*deck.Deck, error) {
			return deck.New(&deck.Config{Order: deckOrder, Seed: deckSeed})
		},
	})
	if err != nil {
		log.Fatalf("Failed to create matchmaking coordinator: %v", err)
	}

	// Initialize server
	srv, err := server.New(&server.Config{
		Coordinator: coordinator,
		RankingRepo: rankingRepo,
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	listenAddr := getEnv("LISTEN_ADDR", ":12345")
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", listenAddr, err)
	}

	go func() {
		log.Printf("Listening for TCP clients on %s", listenAddr)
		if err := srv.Serve(ctx, listener); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Optional websocket endpoint for browser clients
	if wsAddr := getEnv("WS_ADDR", ""); wsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", srv.WebsocketHandler(ctx))
		go func() {
			log.Printf("Listening for websocket clients on %s/ws", wsAddr)
			if err := http.ListenAndServe(wsAddr, mux); err != nil {
				log.Printf("Websocket server stopped: %v", err)
			}
		}()
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	cancel()
	log.Println("Server has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets a numeric environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
		return defaultValue
	}
	return parsed
}
