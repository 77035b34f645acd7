package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/protomem/preach-tracker/internal/ctxstore"
	"github.com/protomem/preach-tracker/internal/model"
	"github.com/protomem/preach-tracker/internal/response"
	"github.com/protomem/preach-tracker/internal/validator"
)

func (app *application) reportServerError(r *http.Request, err error) {
	var (
		message = err.Error()
		method  = r.Method
		url     = r.URL.String()
		tid     = ctxstore.TraceID(r.Context())
	)

	requestAttrs := slog.Group("request", "method", method, "url", url, ctxstore.TraceIDKey.String(), tid)
	app.serverLogger().Error(message, requestAttrs)
}

func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	message = strings.ToUpper(message[:1]) + message[1:]

	err := response.JSONWithHeaders(w, status, response.JSONObject{"error": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	err := response.JSON(w, http.StatusUnprocessableEntity, v)
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	headers := http.Header{"WWW-Authenticate": []string{"Bearer"}}
	app.errorMessage(w, r, http.StatusUnauthorized, message, headers)
}

func (app *application) forbidden(w http.ResponseWriter, r *http.Request) {
	app.errorMessage(w, r, http.StatusForbidden, "admin role required", nil)
}

func (app *application) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	app.errorMessage(w, r, http.StatusTooManyRequests, "too many requests", nil)
}

// storeError translates an error from the core or the store into a response.
func (app *application) storeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError

	switch {
	case errors.As(err, &verr):
		var v validator.Validator
		v.AddFieldError(verr.Field, verr.Reason)
		app.failedValidation(w, r, v)

	case errors.Is(err, model.ErrValidation):
		var v validator.Validator
		v.AddError(err.Error())
		app.failedValidation(w, r, v)

	case errors.Is(err, model.ErrNotFound):
		app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, model.ErrExists):
		app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, model.ErrUnsupportedGranularity):
		app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)

	case errors.Is(err, model.ErrUnavailable):
		app.reportServerError(r, err)
		app.errorMessage(w, r, http.StatusServiceUnavailable, "storage is temporarily unavailable", nil)

	default:
		app.serverError(w, r, err)
	}
}
