package handler

import (
	"net/http"
	"strings"

	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/service"
)

// HandleDashboard resolves a city (?city=) or coordinates (?lat=&lon=) and
// returns conditions, forecast and country metadata.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var (
		dash *model.Dashboard
		err  error
	)
	if city := strings.TrimSpace(r.URL.Query().Get("city")); city != "" || !r.URL.Query().Has("lat") {
		q := cityQuery{City: city}
		if verr := validate.Struct(q); verr != nil {
			h.writeError(w, http.StatusBadRequest, validationMessage(verr))
			return
		}
		dash, err = h.Dashboard.ByCity(r.Context(), q.City)
	} else {
		q, perr := parseCoordinates(r)
		if perr != nil {
			h.writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		dash, err = h.Dashboard.ByCoordinates(r.Context(), q.Lat, q.Lon)
	}
	if err != nil {
		h.writeServiceError(w, err, "")
		return
	}
	h.writeSuccess(w, dash)
}

// HandleForecast returns the forecast for coordinates without changing the current location.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	q, err := parseCoordinates(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeSuccess(w, h.Forecasts.FetchForecast(r.Context(), q.Lat, q.Lon))
}

// HandleLocation returns the saved location.
func (h *Handler) HandleLocation(w http.ResponseWriter, r *http.Request) {
	loc, ok, err := h.Locations.LoadCachedLocation(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to load saved location", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, "Saved location is unavailable")
		return
	}
	if !ok {
		h.writeError(w, http.StatusNotFound, "No saved location")
		return
	}
	h.writeSuccess(w, loc)
}

type geolocationFailure struct {
	Message  string          `json:"message"`
	Location *model.Location `json:"location,omitempty"`
}

// HandleGeolocationError turns a browser geolocation failure code into a message and
// offers the saved location as a fallback.
func (h *Handler) HandleGeolocationError(w http.ResponseWriter, r *http.Request) {
	var req geolocationErrorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	msg, _ := service.DescribeGeolocationFailure(req.Code)

	out := geolocationFailure{Message: msg}
	loc, ok, err := h.Locations.LoadCachedLocation(r.Context())
	if err != nil {
		h.logger.Warnw("Failed to load saved location", "error", err)
	} else if ok {
		out.Location = loc
	}
	h.writeSuccess(w, out)
}

// HandleCountry returns the name and flag of a two-letter country code.
func (h *Handler) HandleCountry(w http.ResponseWriter, r *http.Request) {
	p := countryParam{Code: r.PathValue("code")}
	if err := validate.Struct(p); err != nil {
		h.writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	info, err := h.Countries.Lookup(r.Context(), p.Code)
	if err != nil {
		h.writeServiceError(w, err, "Country not found")
		return
	}
	h.writeSuccess(w, info)
}
