package main

import (
	auth "Lobefield/internal/auth"
	batch "Lobefield/internal/calc/batch"
	fields "Lobefield/internal/calc/fields"
	importer "Lobefield/internal/calc/importer"
	report "Lobefield/internal/calc/report"
	config "Lobefield/internal/config"
	repo "Lobefield/internal/repo"
	runs "Lobefield/internal/runs"
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, db *sql.DB, cfg *config.Config) {
	userRepo := repo.NewPostgresDB(db)

	constants := fields.Default()
	constants.XFactor = cfg.XFactor

	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: userRepo}

	limiter := auth.NewIPRateLimiter(1, 3)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	fieldsH := &fields.Handler{Constants: constants}
	batchH := &batch.Handler{Constants: constants}
	importerH := &importer.Handler{Constants: constants}
	reportH := &report.Handler{Constants: constants}
	runsH := &runs.Handler{Repo: userRepo, Constants: constants}

	secureApi.HandleFunc("/tools/fields/calc", fieldsH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/fields/batch", batchH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/fields/import", importerH.Import).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.GeneratePDF).Methods("POST")
	secureApi.HandleFunc("/tools/report/csv", reportH.GenerateCSV).Methods("POST")

	secureApi.HandleFunc("/runs", runsH.Save).Methods("POST")
	secureApi.HandleFunc("/runs", runsH.List).Methods("GET")
	secureApi.HandleFunc("/runs/{id:[0-9]+}/csv", runsH.Download).Methods("GET")

	mainFileServer := http.FileServer(http.Dir("./static/main"))
	mux.PathPrefix("/").
		Handler(mainFileServer)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment as-is")
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db := auth.InitDB(cfg.DatabaseURL)
	defer db.Close()
	mux := mux.NewRouter()
	log.Println("Starting server on :" + cfg.Port)
	HandleList(mux, db, cfg)
	handler := CORS(mux)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Shutdown signal received!")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")

	wg.Wait()
}
