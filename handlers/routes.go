package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"studystream/api"
	"studystream/services/sessions"
)

// Per-IP throttle for the unauthenticated auth endpoints: one request per
// second sustained, with enough burst headroom for a register-then-login flow.
const (
	authRateInterval = time.Second
	authRateBurst    = 20
)

// RegisterRoutes attaches all API routes to the router. Auth endpoints are
// public but rate limited; everything else requires a valid session token.
func RegisterRoutes(r *mux.Router, authH *AuthHandler, schedulesH *SchedulesHandler, sessionsSvc *sessions.Service) {
	apiRouter := r.PathPrefix("/api").Subrouter()

	authLimiter := api.NewRateLimiter(rate.Every(authRateInterval), authRateBurst)
	apiRouter.HandleFunc("/auth/register", authLimiter.Limit(authH.Register)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/auth/login", authLimiter.Limit(authH.Login)).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/auth/logout", authH.Logout).Methods(http.MethodPost, http.MethodOptions)

	authed := apiRouter.NewRoute().Subrouter()
	authed.Use(api.SessionAuthMiddleware(sessionsSvc))
	authed.HandleFunc("/auth/account", authH.DeleteAccount).Methods(http.MethodDelete, http.MethodOptions)
	authed.HandleFunc("/schedules/generate", schedulesH.Generate).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/schedules", schedulesH.List).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/schedules/{name}", schedulesH.Delete).Methods(http.MethodDelete, http.MethodOptions)
	authed.HandleFunc("/schedules/{name}/days/{day}/videos/{videoId}", schedulesH.SetCompleted).Methods(http.MethodPatch, http.MethodOptions)
}
