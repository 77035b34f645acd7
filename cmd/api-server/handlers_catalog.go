package main

import (
	"net/http"

	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/model"
	"github.com/protomem/preach-tracker/internal/request"
	"github.com/protomem/preach-tracker/internal/response"
	"github.com/protomem/preach-tracker/internal/validator"
)

type requestCreateChurch struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

func (app *application) handleCreateChurch(w http.ResponseWriter, r *http.Request) {
	var input requestCreateChurch
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateChurchName(&v, input.Name)
	if input.Timezone != "" {
		validateTimezone(&v, input.Timezone)
	}
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	church, err := app.churches.Insert(r.Context(), database.InsertChurchDTO{
		Name:     input.Name,
		Timezone: input.Timezone,
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, church); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListChurches(w http.ResponseWriter, r *http.Request) {
	opts, err := findOptionsFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	churches, err := app.churches.Find(r.Context(), opts)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, churches); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetChurch(w http.ResponseWriter, r *http.Request) {
	church, err := app.churches.Get(r.Context(), churchIDFromRequest(r))
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, church); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateChurch struct {
	Name     *string `json:"name"`
	Timezone *string `json:"timezone"`
}

func (app *application) handleUpdateChurch(w http.ResponseWriter, r *http.Request) {
	var input requestUpdateChurch
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestUpdateChurch(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	church, err := app.churches.Update(r.Context(), churchIDFromRequest(r), database.UpdateChurchDTO{
		Name:     input.Name,
		Timezone: input.Timezone,
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, church); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteChurch(w http.ResponseWriter, r *http.Request) {
	if err := app.churches.Delete(r.Context(), churchIDFromRequest(r)); err != nil {
		app.storeError(w, r, err)
		return
	}

	app.writeDeleted(w, r)
}

func (app *application) handleListChurchPreachers(w http.ResponseWriter, r *http.Request) {
	church := churchIDFromRequest(r)
	app.listPreachers(w, r, &church)
}

type requestCreatePreacher struct {
	Name      string    `json:"name"`
	Church    *model.ID `json:"church_id" validate:"omitempty,max=36"`
	AvatarURL *string   `json:"avatar_url"`
}

func (app *application) handleCreatePreacher(w http.ResponseWriter, r *http.Request) {
	var input requestCreatePreacher
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckStruct(input)
	validatePreacherName(&v, input.Name)
	if input.AvatarURL != nil {
		validateAvatarURL(&v, *input.AvatarURL)
	}
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	preacher, err := app.preachers.Insert(r.Context(), database.InsertPreacherDTO{
		Name:      input.Name,
		Church:    input.Church,
		AvatarURL: input.AvatarURL,
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, preacher); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListPreachers(w http.ResponseWriter, r *http.Request) {
	app.listPreachers(w, r, optionalStringQueryParam(r, "church_id"))
}

func (app *application) listPreachers(w http.ResponseWriter, r *http.Request, church *model.ID) {
	opts, err := findOptionsFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	preachers, err := app.preachers.Find(r.Context(), database.FindPreacherFilter{Church: church}, opts)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, preachers); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetPreacher(w http.ResponseWriter, r *http.Request) {
	preacher, err := app.preachers.Get(r.Context(), preacherIDFromRequest(r))
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, preacher); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdatePreacher struct {
	Name      model.Opt[string]   `json:"name"`
	Church    model.Opt[model.ID] `json:"church_id"`
	AvatarURL model.Opt[string]   `json:"avatar_url"`
}

func (app *application) handleUpdatePreacher(w http.ResponseWriter, r *http.Request) {
	var input requestUpdatePreacher
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateRequestUpdatePreacher(&v, input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	preacher, err := app.preachers.Update(r.Context(), preacherIDFromRequest(r), database.UpdatePreacherDTO{
		Name:      input.Name,
		Church:    input.Church,
		AvatarURL: input.AvatarURL,
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, preacher); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeletePreacher(w http.ResponseWriter, r *http.Request) {
	if err := app.preachers.Delete(r.Context(), preacherIDFromRequest(r)); err != nil {
		app.storeError(w, r, err)
		return
	}

	app.writeDeleted(w, r)
}
