package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// validationMessage turns validator errors into a short client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Missing '%s' parameter", fe.Field())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Invalid '%s' parameter", fe.Field())
	}
}

type cityQuery struct {
	City string `json:"city" validate:"required,max=100"`
}

type coordinatesQuery struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

// parseCoordinates reads lat and lon from the query string. Both are required.
func parseCoordinates(r *http.Request) (coordinatesQuery, error) {
	var q coordinatesQuery
	latStr, lonStr := r.URL.Query().Get("lat"), r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		return q, errors.New("Missing 'lat' or 'lon' query parameter")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, errors.New("Invalid 'lat' parameter")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return q, errors.New("Invalid 'lon' parameter")
	}
	q.Lat, q.Lon = lat, lon
	if err := validate.Struct(q); err != nil {
		return q, errors.New(validationMessage(err))
	}
	return q, nil
}

type geolocationErrorRequest struct {
	Code int `json:"code" validate:"required,oneof=1 2 3"`
}

type countryParam struct {
	Code string `json:"code" validate:"required,alpha,len=2"`
}

type chatRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,uuid"`
	Message   string `json:"message" validate:"required,max=2000"`
}

type sessionParam struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}

type pendingQueryRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}
