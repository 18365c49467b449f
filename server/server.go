package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"audiolab/cache"
	"audiolab/config"
	"audiolab/core/catalog"
	"audiolab/db"
	"audiolab/logger"
	"audiolab/storage"
)

// Start initializes the backing services and runs the HTTP server until
// an interrupt arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSize,
	})

	payloads, err := storage.NewMinioStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to initialize ORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database schema", logger.ErrorField(err))
	}

	recorderCache := cache.NewRecorderCache(db.RedisClient)
	catalogService := catalog.New(db.GormDB, payloads, recorderCache, cfg.SecretKey)
	apiHandler := NewAPIHandler(catalogService, cfg)

	router := NewRouter(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

// NewRouter builds the API router with the CORS middleware and every
// entity route mounted under /api.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, recorder_key")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/recorders", h.ListRecordersHandler).Methods(http.MethodGet)
	api.HandleFunc("/recorders", h.CreateRecorderHandler).Methods(http.MethodPost)
	api.HandleFunc("/recorders/{uid}", h.GetRecorderHandler).Methods(http.MethodGet)
	api.HandleFunc("/recorders/{uid}", h.UpdateRecorderHandler).Methods(http.MethodPut)
	api.HandleFunc("/recorders/{uid}", h.DeleteRecorderHandler).Methods(http.MethodDelete)
	api.HandleFunc("/recorders/{uid}/current_series", h.GetCurrentSeriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/recorders/{uid}/current_series", h.SetCurrentSeriesHandler).Methods(http.MethodPut)

	api.HandleFunc("/series", h.ListSeriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/series", h.CreateSeriesHandler).Methods(http.MethodPost)
	api.HandleFunc("/series/{uid}", h.GetSeriesHandler).Methods(http.MethodGet)
	api.HandleFunc("/series/{uid}", h.UpdateSeriesHandler).Methods(http.MethodPut)
	api.HandleFunc("/series/{uid}", h.DeleteSeriesHandler).Methods(http.MethodDelete)
	api.HandleFunc("/series/{uid}/parameters", h.GetSeriesParametersHandler).Methods(http.MethodGet)
	api.HandleFunc("/series/{uid}/parameters", h.UpdateSeriesParametersHandler).Methods(http.MethodPut)

	api.HandleFunc("/parameters", h.ListParametersHandler).Methods(http.MethodGet)
	api.HandleFunc("/parameters", h.CreateParametersHandler).Methods(http.MethodPost)
	api.HandleFunc("/parameters/{uid}", h.GetParametersHandler).Methods(http.MethodGet)
	api.HandleFunc("/parameters/{uid}", h.DeleteParametersHandler).Methods(http.MethodDelete)

	api.HandleFunc("/records", h.ListRecordsHandler).Methods(http.MethodGet)
	api.HandleFunc("/records", h.requireRecorderKey(h.CreateRecordHandler)).Methods(http.MethodPost)
	api.HandleFunc("/records/{uid}", h.GetRecordHandler).Methods(http.MethodGet)
	api.HandleFunc("/records/{uid}", h.DeleteRecordHandler).Methods(http.MethodDelete)
	api.HandleFunc("/records/{uid}/label", h.SetRecordLabelHandler).Methods(http.MethodPut)
	api.HandleFunc("/records/{uid}/parameters", h.GetRecordParametersHandler).Methods(http.MethodGet)
	api.HandleFunc("/records/{uid}/upload", h.requireRecorderKey(h.UploadRecordHandler)).Methods(http.MethodPost)
	api.HandleFunc("/records/{uid}/download", h.DownloadRecordHandler).Methods(http.MethodGet)

	api.HandleFunc("/labels", h.ListLabelsHandler).Methods(http.MethodGet)
	api.HandleFunc("/labels", h.CreateLabelHandler).Methods(http.MethodPost)
	api.HandleFunc("/labels/{uid}", h.GetLabelHandler).Methods(http.MethodGet)
	api.HandleFunc("/labels/{uid}", h.DeleteLabelHandler).Methods(http.MethodDelete)

	return router
}
