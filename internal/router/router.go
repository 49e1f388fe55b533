package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quanpos/api/internal/handler"
	"github.com/quanpos/api/internal/service"
	"github.com/quanpos/api/internal/store"
	"github.com/quanpos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(repo store.Repository, orders *service.OrderService, tester handler.SelfTester, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// POS terminals and the admin UI live on the venue LAN
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Staff-Name"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// WebSocket change feed
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	tableHandler := handler.NewTableHandler(repo)
	tableHandler.RegisterRoutes(r)

	orderHandler := handler.NewOrderHandler(orders)
	orderHandler.RegisterRoutes(r)

	printerHandler := handler.NewPrinterHandler(repo, tester)
	r.Route("/printers", printerHandler.RegisterRoutes)

	templateHandler := handler.NewTemplateHandler(repo)
	r.Route("/templates", templateHandler.RegisterRoutes)

	return r
}
