package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/service"
	"go.uber.org/zap"
)

const (
	upstreamUnavailableMessage = "Weather service is unavailable. Please try again later."
	internalErrorMessage       = "Internal server error"
	cancelledMessage           = "Request cancelled"
)

// Services groups what the handlers depend on.
type Services struct {
	Dashboard   service.DashboardServiceInterface
	Locations   service.LocationServiceInterface
	Forecasts   service.ForecastServiceInterface
	Countries   service.CountryServiceInterface
	Chat        service.ChatServiceInterface
	Preferences service.PreferenceServiceInterface
	// Ping reports storage health. Optional.
	Ping func(ctx context.Context) error
}

type Handler struct {
	Services
	logger *zap.SugaredLogger
}

func NewHandler(svc Services) *Handler {
	return &Handler{
		Services: svc,
		logger:   config.GetLogger(),
	}
}

func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorw("could not encode json", "error", err)
	}
}

func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSONResponse(w, http.StatusOK, model.Success(data))
}

func (h *Handler) writeError(w http.ResponseWriter, statusCode int, errMsg string) {
	h.writeJSONResponse(w, statusCode, model.Failure(errMsg, ""))
}

// writeServiceError maps a service error kind to its status code.
// notFoundMsg replaces the default not-found message when set.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	status, msg := statusFor(err)
	if status == http.StatusNotFound && notFoundMsg != "" {
		msg = notFoundMsg
	}
	if status >= http.StatusInternalServerError {
		h.logger.Errorw("request failed", "status", status, "error", err)
	}
	h.writeError(w, status, msg)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, service.NotFoundMessage
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrModelCall):
		return http.StatusBadGateway, service.ChatErrorMessage
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, upstreamUnavailableMessage
	case errors.Is(err, service.ErrCancelled):
		return http.StatusRequestTimeout, cancelledMessage
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}
}

// decodeJSON reads a request body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return validate.Struct(dst)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":  "ok",
		"service": "skycast",
	}
	if h.Forecasts != nil {
		status["onecall_breaker"] = h.Forecasts.BreakerState()
	}
	if h.Ping != nil {
		if err := h.Ping(r.Context()); err != nil {
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	h.writeSuccess(w, status)
}
