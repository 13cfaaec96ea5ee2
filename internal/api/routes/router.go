package routes

import (
	"net/http"

	"github.com/lokafix/marketplace/backend/internal/api/handlers"
	"github.com/lokafix/marketplace/backend/internal/api/middleware"
	"github.com/lokafix/marketplace/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	serviceHandler        *handlers.ServiceHandler
	reviewHandler         *handlers.ReviewHandler
	recommendationHandler *handlers.RecommendationHandler
	providerHandler       *handlers.ProviderHandler
	categoryHandler       *handlers.CategoryHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	serviceHandler *handlers.ServiceHandler,
	reviewHandler *handlers.ReviewHandler,
	recommendationHandler *handlers.RecommendationHandler,
	providerHandler *handlers.ProviderHandler,
	categoryHandler *handlers.CategoryHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                   http.NewServeMux(),
		serviceHandler:        serviceHandler,
		reviewHandler:         reviewHandler,
		recommendationHandler: recommendationHandler,
		providerHandler:       providerHandler,
		categoryHandler:       categoryHandler,
		metrics:               metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Service catalog endpoints
	r.mux.HandleFunc("GET /api/services", r.serviceHandler.ListServices)
	r.mux.HandleFunc("GET /api/services/search", r.serviceHandler.SearchServices)
	r.mux.HandleFunc("GET /api/services/{id}", r.serviceHandler.GetService)
	r.mux.HandleFunc("POST /api/services", r.serviceHandler.CreateService)
	r.mux.HandleFunc("PATCH /api/services/{id}", r.serviceHandler.UpdateService)
	r.mux.HandleFunc("DELETE /api/services/{id}", r.serviceHandler.DeleteService)

	// Review endpoints
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.SubmitReview)
	r.mux.HandleFunc("PATCH /api/reviews/{id}", r.reviewHandler.UpdateReview)
	r.mux.HandleFunc("DELETE /api/reviews/{id}", r.reviewHandler.DeleteReview)
	r.mux.HandleFunc("GET /api/services/{id}/reviews", r.reviewHandler.ListServiceReviews)
	r.mux.HandleFunc("GET /api/users/me/reviews", r.reviewHandler.ListMyReviews)

	// Recommendation endpoints
	r.mux.HandleFunc("GET /api/recommendations", r.recommendationHandler.GetRecommendations)
	r.mux.HandleFunc("GET /api/recommendations/trending", r.recommendationHandler.GetTrending)

	// Provider endpoints
	r.mux.HandleFunc("GET /api/providers", r.providerHandler.ListProviders)
	r.mux.HandleFunc("GET /api/providers/{id}", r.providerHandler.GetProvider)
	r.mux.HandleFunc("POST /api/providers", r.providerHandler.CreateProvider)

	// Category endpoints
	r.mux.HandleFunc("GET /api/categories", r.categoryHandler.ListCategories)
	r.mux.HandleFunc("GET /api/categories/{id}", r.categoryHandler.GetCategory)
	r.mux.HandleFunc("POST /api/categories", r.categoryHandler.CreateCategory)

	// Middleware applies in reverse order: CORS outermost so every
	// response carries its headers, identity before any handler runs.
	var handler http.Handler = r.mux
	handler = middleware.IdentityMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
