package main

import (
	"net/http"

	"github.com/protomem/preach-tracker/internal/database"
	"github.com/protomem/preach-tracker/internal/model"
	"github.com/protomem/preach-tracker/internal/request"
	"github.com/protomem/preach-tracker/internal/response"
	"github.com/protomem/preach-tracker/internal/validator"
)

func (app *application) handleListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := app.badges.Find(r.Context())
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, badges); err != nil {
		app.serverError(w, r, err)
	}
}

type requestBadge struct {
	Label *string `json:"label" validate:"omitempty,max=64"`
	Emoji *string `json:"emoji" validate:"omitempty,max=16"`
	Color *string `json:"color" validate:"omitempty,max=64"`
}

func (app *application) handleCreateBadge(w http.ResponseWriter, r *http.Request) {
	var input requestBadge
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckStruct(input)
	v.CheckField(input.Label != nil && validator.NotBlank(*input.Label), "label", "is required")
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dto := database.InsertBadgeDTO{Label: *input.Label}
	if input.Emoji != nil {
		dto.Emoji = *input.Emoji
	}
	if input.Color != nil {
		dto.Color = *input.Color
	}

	badge, err := app.badges.Insert(r.Context(), dto)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, badge); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleUpdateBadge(w http.ResponseWriter, r *http.Request) {
	var input requestBadge
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckStruct(input)
	if input.Label != nil {
		v.CheckField(validator.NotBlank(*input.Label), "label", "cannot be blank")
	}
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	badge, err := app.badges.Update(r.Context(), badgeIDFromRequest(r), database.UpdateBadgeDTO{
		Label: input.Label,
		Emoji: input.Emoji,
		Color: input.Color,
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, badge); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteBadge(w http.ResponseWriter, r *http.Request) {
	if err := app.badges.Delete(r.Context(), badgeIDFromRequest(r)); err != nil {
		app.storeError(w, r, err)
		return
	}

	app.writeDeleted(w, r)
}

func (app *application) handleBadgeAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := app.badges.Assignments(r.Context())
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, assignments); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAssignment struct {
	Preacher model.ID `json:"preacher_id" validate:"required,max=36"`
	Badge    model.ID `json:"badge_id" validate:"required,max=36"`
}

func (app *application) decodeAssignment(w http.ResponseWriter, r *http.Request) (requestAssignment, bool) {
	var input requestAssignment
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return input, false
	}

	var v validator.Validator
	v.CheckStruct(input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return input, false
	}

	return input, true
}

func (app *application) handleAssignBadge(w http.ResponseWriter, r *http.Request) {
	input, ok := app.decodeAssignment(w, r)
	if !ok {
		return
	}

	actor, _ := currentUser(r)

	if err := app.badges.Assign(r.Context(), input.Preacher, input.Badge, &actor.ID); err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "ok"}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleUnassignBadge(w http.ResponseWriter, r *http.Request) {
	input, ok := app.decodeAssignment(w, r)
	if !ok {
		return
	}

	app.unassign(w, r, input)
}

// handleUnassignBadgeQuery is the DELETE form of unassign, addressed by query
// parameters.
func (app *application) handleUnassignBadgeQuery(w http.ResponseWriter, r *http.Request) {
	input := requestAssignment{
		Preacher: r.URL.Query().Get("preacher_id"),
		Badge:    r.URL.Query().Get("badge_id"),
	}

	var v validator.Validator
	v.CheckStruct(input)
	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	app.unassign(w, r, input)
}

func (app *application) unassign(w http.ResponseWriter, r *http.Request, input requestAssignment) {
	if err := app.badges.Unassign(r.Context(), input.Preacher, input.Badge); err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "ok"}); err != nil {
		app.serverError(w, r, err)
	}
}
