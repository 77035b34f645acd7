package main

import (
	"net/http"

	"github.com/protomem/preach-tracker/internal/analytics"
	"github.com/protomem/preach-tracker/internal/response"
)

func analyticsRange(r *http.Request) (analytics.Range, error) {
	church, from, to, err := rangeFromRequest(r)
	if err != nil {
		return analytics.Range{}, err
	}
	return analytics.Range{Church: church, From: from, To: to}, nil
}

func (app *application) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := analyticsRange(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	totals, err := app.analytics.Summary(r.Context(), rng)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, totals); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleAnalyticsTimeSeries(w http.ResponseWriter, r *http.Request) {
	rng, err := analyticsRange(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	series, err := app.analytics.TimeSeries(r.Context(), analytics.SeriesQuery{
		Range:       rng,
		Preacher:    optionalStringQueryParam(r, "preacher_id"),
		Granularity: r.URL.Query().Get("granularity"),
	})
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, series); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleAnalyticsTop(w http.ResponseWriter, r *http.Request) {
	rng, err := analyticsRange(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	limit, err := intQueryParam(r, "limit", analytics.DefaultTopLimit)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	top, err := app.analytics.Top(r.Context(), rng, limit)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, top); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleAnalyticsShortest(w http.ResponseWriter, r *http.Request) {
	limit, err := intQueryParam(r, "limit", analytics.DefaultShortestLimit)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	shortest, err := app.analytics.Shortest(r.Context(), optionalStringQueryParam(r, "church_id"), limit)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, shortest); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleAnalyticsOverlap(w http.ResponseWriter, r *http.Request) {
	limit, err := intQueryParam(r, "limit", analytics.DefaultOverlapLimit)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	pairs, err := app.analytics.Overlap(r.Context(), optionalStringQueryParam(r, "church_id"), limit)
	if err != nil {
		app.storeError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, pairs); err != nil {
		app.serverError(w, r, err)
	}
}
