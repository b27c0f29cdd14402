package http

import (
	"encoding/json"
	"net/http"
	"time"

	"accountd/internal/dto"
	"accountd/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	CORSOrigins []string
}

func NewRouter(auth service.AuthService, tokens service.TokenService, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())

	// Public auth routes. The per-IP limit doubles as the resend throttle:
	// a caller cannot burn through the code space inside the expiry window.
	r.Route("/v1/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(30, 1*time.Minute))

		r.Post("/signup", func(w http.ResponseWriter, r *http.Request) {
			var req dto.SignupRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "bad request")
				return
			}
			res, err := auth.Signup(r.Context(), req)
			if err != nil {
				writeAuthError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			var req dto.LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "bad request")
				return
			}
			res, err := auth.Login(r.Context(), req)
			if err != nil {
				writeAuthError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, res)
		})

		r.Post("/verify", func(w http.ResponseWriter, r *http.Request) {
			var req dto.VerifyRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "bad request")
				return
			}
			if err := auth.VerifyAccount(r.Context(), req); err != nil {
				writeAuthError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "account verified"})
		})

		r.Post("/resend", func(w http.ResponseWriter, r *http.Request) {
			email := r.URL.Query().Get("email")
			if err := auth.ResendVerification(r.Context(), email); err != nil {
				writeAuthError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "verification code sent"})
		})
	})

	// Everything below requires a valid bearer token.
	gate := NewAuthGate(tokens)
	r.Group(func(pr chi.Router) {
		pr.Use(gate.Middleware)

		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			sub, ok := SubjectFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "no identity")
				return
			}
			writeJSON(w, http.StatusOK, struct {
				Email string `json:"email"`
			}{Email: sub})
		})
	})

	return r
}
