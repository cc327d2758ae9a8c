package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/FestivalLedger/FL-Backend/internal/auth"
	"github.com/FestivalLedger/FL-Backend/internal/config"
	"github.com/FestivalLedger/FL-Backend/internal/db"
	"github.com/FestivalLedger/FL-Backend/internal/ledger"
	"github.com/FestivalLedger/FL-Backend/internal/middleware"
	"github.com/FestivalLedger/FL-Backend/internal/session"
	"github.com/FestivalLedger/FL-Backend/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")
	cfg := config.Load("config.yaml")

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	auth.Init(conn)
	ledger.Init(conn)

	codec := token.NewCodec(cfg.SessionSecret)
	sessions := session.NewManager(codec, cfg.Production())

	authHandler := auth.NewHandler(conn, sessions)
	ledgerHandler := ledger.NewHandler(conn, authHandler.Policy)
	loginLimiter := middleware.NewRateLimiter(1, 5)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.EdgeGuard(codec, cfg.EntryPrefix, cfg.LoginPath))
	r.Get("/", RootHandler)

	r.Mount("/auth", authHandler.SetupRoutes(loginLimiter))
	r.Mount("/ledger", ledgerHandler.EventRoutes())
	r.Mount("/entry", ledgerHandler.EntryRoutes())
	r.Mount("/reports", ledgerHandler.ReportRoutes())

	log.Printf("Server listening on port :%s...", cfg.Port)

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
