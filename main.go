package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"matsuri/discord"
	"matsuri/globals"
	"matsuri/icon"
	"matsuri/kv"
	"matsuri/plans"
	"matsuri/ratelim"
	"matsuri/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddPlanRoutes(router, rateLimiter)
	routes.AddDetailsRoutes(router)
	routes.AddIconRoutes(router, rateLimiter)

	return router
}

// newStores builds the plan and plan-details stores. KV_BACKEND=memory keeps
// everything in process, for local development without a Redis.
func newStores() (kv.Store, kv.Store, error) {
	if os.Getenv("KV_BACKEND") == "memory" {
		return kv.NewMemoryStore(), kv.NewMemoryStore(), nil
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := kv.Connect(globals.Ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	return kv.NewRedisStore(client, "plan:"), kv.NewRedisStore(client, "details:"), nil
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	globals.JwksURL = os.Getenv("JWKS_URL")
	if globals.JwksURL == "" {
		log.Fatal("JWKS_URL is not set")
	}
	if base := os.Getenv("BASE_URL"); base != "" {
		globals.BaseURL = base
	}
	if dir := os.Getenv("ICON_DIR"); dir != "" {
		icon.Dir = dir
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	planKV, detailsKV, err := newStores()
	if err != nil {
		log.Fatalf("❌ Store setup failed: %v", err)
	}

	notifier := discord.New(os.Getenv("DISCORD_WEBHOOK_URL"), globals.BaseURL)
	plans.Planstore = plans.NewStore(planKV)
	plans.Detailstore = plans.NewDetailsStore(detailsKV)
	plans.Notifier = notifier
	icon.Notifier = notifier

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(rateLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
