package main

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/protomem/preach-tracker/internal/auth"
	"github.com/protomem/preach-tracker/internal/ctxstore"
	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/model"
	"github.com/protomem/preach-tracker/internal/request"
	"github.com/protomem/preach-tracker/internal/response"
	"github.com/protomem/preach-tracker/internal/validator"
)

func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := app.health.Ping(r.Context()); err != nil {
		app.reportServerError(r, err)

		if err := response.JSON(w, http.StatusServiceUnavailable, response.JSONObject{"status": "unavailable"}); err != nil {
			app.serverError(w, r, err)
		}
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "ok"}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestCredentials struct {
	Login    string  `json:"login" validate:"required,max=64"`
	Password string  `json:"password" validate:"required,max=72"`
	Name     *string `json:"name" validate:"omitempty,max=128"`
	Email    *string `json:"email" validate:"omitempty,max=255,email"`
}

func (app *application) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input requestCredentials
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateCredentials(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	role := model.RoleUser
	if app.config.auth.adminLogin != "" && app.config.auth.adminLogin == input.Login {
		role = model.RoleAdmin
	}

	user, err := app.users.Insert(r.Context(), database.InsertUserDTO{
		Login:        input.Login,
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	app.requestLogger(r).Info("user registered", "userId", user.ID, "role", user.Role)

	if err := response.JSON(w, http.StatusCreated, user); err != nil {
		app.serverError(w, r, err)
	}
}

type responseLogin struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        model.User `json:"user"`
}

func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input requestCredentials
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Login), "login", "is required")
	v.CheckField(input.Password != "", "password", "is required")
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	user, err := app.users.GetByLogin(r.Context(), input.Login)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		app.storeError(w, r, err)
		return
	}
	if err != nil || !auth.CheckPassword(input.Password, user.PasswordHash) {
		app.unauthorized(w, r, "invalid credentials")
		return
	}

	token, err := app.jwt.Issue(user)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseLogin{AccessToken: token, TokenType: "bearer", User: user}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r)

	if err := response.JSON(w, http.StatusOK, user); err != nil {
		app.serverError(w, r, err)
	}
}

type requestSetRole struct {
	Role model.Role `json:"role" validate:"required,oneof=user admin"`
}

func (app *application) handleSetUserRole(w http.ResponseWriter, r *http.Request) {
	var input requestSetRole
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckStruct(input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	actor, _ := currentUser(r)

	user, err := app.users.SetRole(r.Context(), userIDFromRequest(r), input.Role)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	app.requestLogger(r).Warn("user role changed", "userId", user.ID, "role", user.Role, "actor", actor.ID)

	if err := response.JSON(w, http.StatusOK, user); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) requestLogger(r *http.Request) *slog.Logger {
	return app.logger.With(ctxstore.TraceIDKey.String(), ctxstore.TraceID(r.Context()))
}

func (app *application) writeDeleted(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "ok"}); err != nil {
		app.serverError(w, r, err)
	}
}
