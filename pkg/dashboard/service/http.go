package service

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/presale-dashboard/pkg/app/errors"
	apphttp "github.com/chainsafe/presale-dashboard/pkg/app/http"
	"github.com/chainsafe/presale-dashboard/pkg/auth"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the dashboard endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Get("/chain", apphttp.HandleError(h.chain))
	r.Get("/snapshot", apphttp.HandleError(h.snapshot))
	r.Get("/participants", apphttp.HandleError(h.participants))
	r.Get("/positions/{address}", apphttp.HandleError(h.position))
	r.Get("/estimate", apphttp.HandleError(h.estimate))
	r.Get("/sacrifice", apphttp.HandleError(h.sacrifice))
	r.Get("/schedule", apphttp.HandleError(h.schedule))
	r.Post("/admin/session", apphttp.HandleError(h.adminLogin))

	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)
		r.Put("/schedule", apphttp.HandleError(h.setSchedule))
	})
}

func (h *HTTP) chain(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.Chain(r.Context())
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) snapshot(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.Snapshot(r.Context())
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) participants(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		return apperrors.BadRequestError(err, "invalid offset")
	}
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		return apperrors.BadRequestError(err, "invalid limit")
	}

	resp, err := h.service.Participants(r.Context(), q.Get("q"), offset, limit)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) position(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.Position(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) estimate(w http.ResponseWriter, r *http.Request) error {
	usdc := r.URL.Query().Get("usdc")
	if usdc == "" {
		return apperrors.BadRequestError(nil, "usdc is required")
	}
	resp, err := h.service.Estimate(r.Context(), usdc)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) sacrifice(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.Sacrifice(r.Context())
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) schedule(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.Schedule(r.Context())
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) setSchedule(w http.ResponseWriter, r *http.Request) error {
	var req ScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	by, ok := auth.AdminFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "admin session required")
	}

	resp, err := h.service.SetSchedule(r.Context(), &req, by)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) adminLogin(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	// Headers take over when the body carries no signature
	if req.Signature == "" {
		req.Signature = r.Header.Get("X-Signature")
		req.Message = r.Header.Get("X-Message")
	}

	resp, err := h.service.AdminLogin(r.Context(), &req)
	if err != nil {
		return err
	}
	h.writeJSON(w, http.StatusOK, resp)
	return nil
}

// requireAdmin resolves the bearer token to an administrator address.
func (h *HTTP) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		addr, err := h.service.AuthorizeAdmin(r.Context(), token)
		if err != nil {
			apphttp.DefaultErrorHandler(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithAdmin(r.Context(), addr)))
	})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
}
