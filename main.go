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

	"github.com/EmpoweredVote/EV-Performance/internal/db"
	"github.com/EmpoweredVote/EV-Performance/internal/middleware"
	"github.com/EmpoweredVote/EV-Performance/internal/performance"
	"github.com/EmpoweredVote/EV-Performance/internal/performance/provider"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	if provider.LoadFromEnv().UseDatabase {
		db.Connect()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := performance.Init()
	svc.StartJanitor(ctx)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware)
	if cl := middleware.ClientLimiterFromEnv(); cl != nil {
		r.Use(cl.Handler)
		go sweepClients(ctx, cl)
	}

	r.Get("/", RootHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/api", performance.SetupRoutes(svc))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("Server listening on port :%s...\n", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func sweepClients(ctx context.Context, cl *middleware.ClientLimiter) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cl.Sweep()
		}
	}
}
