package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/pixoonair/pixoonair/pkg/api/methods"
	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/api/models/requests"
	"github.com/pixoonair/pixoonair/pkg/database"
	"github.com/pixoonair/pixoonair/pkg/settings"
	"github.com/rs/zerolog/log"
)

type SettingsResponse struct {
	models.SettingsResponse
}

func (sr *SettingsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type SaveSettingsRequest struct {
	models.SaveSettingsParams
	settings settings.Settings
}

func (ssr *SaveSettingsRequest) Bind(r *http.Request) error {
	s, err := methods.SettingsFromParams(ssr.SaveSettingsParams)
	if err != nil {
		return err
	}
	ssr.settings = s
	return nil
}

type HistoryResponse struct {
	models.HistoryResponse
}

func (hr *HistoryResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type ErrResponse struct {
	HTTPStatusCode int    `json:"-"`
	Error          string `json:"error"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func errRender(status int, err error) render.Renderer {
	return &ErrResponse{HTTPStatusCode: status, Error: err.Error()}
}

func renderOrLog(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	err := render.Render(w, r, v)
	if err != nil {
		log.Error().Err(err).Msg("error rendering response")
	}
}

func handleGetSettings(env requests.RequestEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := methods.HandleLoadSettings(env)
		if err != nil {
			renderOrLog(w, r, errRender(http.StatusServiceUnavailable, err))
			return
		}

		renderOrLog(w, r, &SettingsResponse{resp.(models.SettingsResponse)})
	}
}

func handlePutSettings(env requests.RequestEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("received settings update request")

		var req SaveSettingsRequest
		err := render.Bind(r, &req)
		if err != nil {
			log.Error().Err(err).Msg("error decoding request")
			renderOrLog(w, r, errRender(http.StatusBadRequest, err))
			return
		}

		err = methods.SaveSettings(env, req.settings)
		if err != nil {
			renderOrLog(w, r, errRender(http.StatusServiceUnavailable, err))
			return
		}

		renderOrLog(w, r, &SettingsResponse{methods.SettingsResponse(req.settings)})
	}
}

func handleGetHistory(env requests.RequestEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxResults := database.DefaultHistoryResults
		if v := r.URL.Query().Get("max"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				renderOrLog(w, r, errRender(http.StatusBadRequest, errors.New("invalid max")))
				return
			}
			maxResults = n
		}

		params := []byte(`{"maxResults":` + strconv.Itoa(maxResults) + `}`)
		env.Params = params

		resp, err := methods.HandleHistory(env)
		if err != nil {
			renderOrLog(w, r, errRender(http.StatusInternalServerError, err))
			return
		}

		renderOrLog(w, r, &HistoryResponse{resp.(models.HistoryResponse)})
	}
}

func handleExportHistory(env requests.RequestEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="history.csv"`)

		err := env.Database.ExportHistoryCsv(w)
		if err != nil {
			log.Error().Err(err).Msg("error exporting history")
			http.Error(w, "error exporting history", http.StatusInternalServerError)
		}
	}
}

func restRoutes(ctx context.Context, r chi.Router, env requests.RequestEnv) {
	env.Context = ctx

	r.Get("/history.csv", handleExportHistory(env))

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/settings", handleGetSettings(env))
		r.Put("/settings", handlePutSettings(env))
		r.Get("/history", handleGetHistory(env))
	})
}
