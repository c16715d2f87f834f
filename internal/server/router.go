package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"onboard/internal/store"
)

// RouterOptions are shared by both routers.
type RouterOptions struct {
	Latency time.Duration
	Logger  *slog.Logger
}

func (o RouterOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func baseRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(opts.logger()))
	r.Use(cors)
	if opts.Latency > 0 {
		r.Use(delay(opts.Latency))
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

// BasicInfoRouter serves /departments and /basicInfo.
func BasicInfoRouter(st *store.Store, opts RouterOptions) http.Handler {
	h := &handlers{store: st, logger: opts.logger()}
	r := baseRouter(opts)
	r.Get("/departments", h.listDepartments)
	r.Get("/departments/{id}", h.getDepartment)
	r.Route("/basicInfo", func(r chi.Router) {
		r.Get("/", h.listBasicInfo)
		r.Post("/", h.createBasicInfo)
		r.Get("/{id}", h.getBasicInfo)
		r.Put("/{id}", h.replaceBasicInfo)
		r.Patch("/{id}", h.patchBasicInfo)
		r.Delete("/{id}", h.deleteBasicInfo)
	})
	return r
}

// DetailsRouter serves /locations and /details.
func DetailsRouter(st *store.Store, opts RouterOptions) http.Handler {
	h := &handlers{store: st, logger: opts.logger()}
	r := baseRouter(opts)
	r.Get("/locations", h.listLocations)
	r.Get("/locations/{id}", h.getLocation)
	r.Route("/details", func(r chi.Router) {
		r.Get("/", h.listDetails)
		r.Post("/", h.createDetail)
		r.Get("/{id}", h.getDetail)
		r.Put("/{id}", h.replaceDetail)
		r.Patch("/{id}", h.patchDetail)
		r.Delete("/{id}", h.deleteDetail)
	})
	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.RequestURI(),
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// cors lets a browser client read the paging header.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", totalCountHeader)
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func delay(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sleep(r.Context(), d); err != nil {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
