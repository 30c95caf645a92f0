package handlers

import (
	"net/http"

	"LendIt/internal/config"
	"LendIt/internal/middleware"
	"LendIt/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	itemService *service.ItemService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	itemHandler := NewItemHandler(itemService, logger, config)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/items", itemHandler.List)
		r.Post("/items", itemHandler.Create)
		r.Get("/items/{id}", itemHandler.Get)
		r.Patch("/items/{id}", itemHandler.Update)
		r.Delete("/items/{id}", itemHandler.Delete)
		r.Post("/items/{id}/return", itemHandler.Return)
		r.Get("/counterparties/{name}/items", itemHandler.ByCounterparty)

		// обмен Bearer-токена на cookie для браузера
		r.Post("/session", func(w http.ResponseWriter, r *http.Request) {
			sub, _ := middleware.GetSubjectFromContext(r.Context())
			if err := middleware.SetLoginCookie(w, sub, config.AuthSecret); err != nil {
				logger.Errorw("issue session cookie", "error", err)
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{Code: "InternalError", Message: "internal error"})
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	return &Handler{Router: r}
}
