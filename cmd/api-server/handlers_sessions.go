package main

import (
	"net/http"

	"github.com/protomem/preach-tracker/internal/model"
	"github.com/protomem/preach-tracker/internal/request"
	"github.com/protomem/preach-tracker/internal/response"
	"github.com/protomem/preach-tracker/internal/tracker"
	"github.com/protomem/preach-tracker/internal/validator"
)

type requestCreateSession struct {
	Church      *model.ID     `json:"church_id" validate:"omitempty,max=36"`
	Preacher    *model.ID     `json:"preacher_id" validate:"omitempty,max=36"`
	StartAt     *request.Time `json:"start_at"`
	EndAt       *request.Time `json:"end_at"`
	ServiceType *string       `json:"service_type" validate:"omitempty,max=255"`
	Notes       *string       `json:"notes"`
}

func (app *application) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var input requestCreateSession
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckStruct(input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	session, err := app.sessions.Create(r.Context(), tracker.CreateInput{
		Church:      input.Church,
		Preacher:    input.Preacher,
		StartAt:     input.StartAt.Ptr(),
		EndAt:       input.EndAt.Ptr(),
		ServiceType: input.ServiceType,
		Notes:       input.Notes,
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, session); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListSessions(w http.ResponseWriter, r *http.Request) {
	church, from, to, err := rangeFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	sessions, err := app.sessions.List(r.Context(), tracker.ListFilter{
		Preacher: optionalStringQueryParam(r, "preacher_id"),
		Church:   church,
		From:     from,
		To:       to,
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, sessions); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := app.sessions.Get(r.Context(), sessionIDFromRequest(r))
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, session); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session, err := app.sessions.Start(r.Context(), sessionIDFromRequest(r))
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, session); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleStopSession(w http.ResponseWriter, r *http.Request) {
	session, err := app.sessions.Stop(r.Context(), sessionIDFromRequest(r))
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, session); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateSession struct {
	Church      model.Opt[model.ID]     `json:"church_id"`
	Preacher    model.Opt[model.ID]     `json:"preacher_id"`
	StartAt     model.Opt[request.Time] `json:"start_at"`
	EndAt       model.Opt[request.Time] `json:"end_at"`
	ServiceType model.Opt[string]       `json:"service_type"`
	Notes       model.Opt[string]       `json:"notes"`
	DurationSec model.Opt[int64]        `json:"duration_sec"`
}

func (app *application) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var input requestUpdateSession
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestUpdateSession(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	user, _ := currentUser(r)

	session, err := app.sessions.Update(r.Context(), sessionIDFromRequest(r), tracker.Patch{
		Church:      input.Church,
		Preacher:    input.Preacher,
		StartAt:     timeOpt(input.StartAt),
		EndAt:       timeOpt(input.EndAt),
		ServiceType: input.ServiceType,
		Notes:       input.Notes,
		DurationSec: input.DurationSec,
	}, tracker.UpdateOptions{
		AllowDurationOverride: user.IsAdmin(),
		Actor:                 user.ID,
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, session); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := app.sessions.Delete(r.Context(), sessionIDFromRequest(r)); err != nil {
		app.storeError(w, r, err)
		return
	}

	app.writeDeleted(w, r)
}
