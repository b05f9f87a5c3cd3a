/*
Pixoonair
Copyright (C) 2024 Pixoonair contributors

This file is part of Pixoonair.

Pixoonair is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Pixoonair is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Pixoonair.  If not, see <http://www.gnu.org/licenses/>.
*/

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/pixoonair/pixoonair/pkg/api/methods"
	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/api/models/requests"
	"github.com/rs/zerolog/log"
)

const RequestTimeout = 30 * time.Second

// JSON-RPC error codes
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeServer         = 1
)

var ErrUnknownMethod = errors.New("unknown method")

var methodMap = map[string]func(requests.RequestEnv) (any, error){
	// settings
	models.MethodLoadSettings: methods.HandleLoadSettings,
	models.MethodSaveSettings: methods.HandleSaveSettings,
	// display
	models.MethodChangeDisplay: methods.HandleChangeDisplayMode,
	models.MethodHistory:       methods.HandleHistory,
	// autostart
	models.MethodAutoStart:        methods.HandleAutoStart,
	models.MethodAutoStartEnable:  methods.HandleAutoStartEnable,
	models.MethodAutoStartDisable: methods.HandleAutoStartDisable,
	// utils
	models.MethodVersion: methods.HandleVersion,
	models.MethodStatus:  methods.HandleStatus,
}

func handleRequest(env requests.RequestEnv, req models.RequestObject) (any, error) {
	log.Debug().Interface("request", req).Msg("received request")

	fn, ok := methodMap[req.Method]
	if !ok {
		return nil, ErrUnknownMethod
	}

	var params []byte
	if req.Params != nil {
		var err error
		// double unmarshal to use json decode on params later
		params, err = json.Marshal(req.Params)
		if err != nil {
			return nil, err
		}
	}

	env.Id = *req.Id
	env.Params = params

	return fn(env)
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, ErrUnknownMethod):
		return ErrCodeMethodNotFound
	case errors.Is(err, methods.ErrMissingParams), errors.Is(err, methods.ErrInvalidParams):
		return ErrCodeInvalidParams
	default:
		return ErrCodeServer
	}
}

func sendResponse(s *melody.Session, id uuid.UUID, result any) error {
	log.Debug().Interface("result", result).Msg("sending response")

	resp := models.ResponseObject{
		JsonRpc: "2.0",
		Id:      id,
		Result:  result,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return s.Write(data)
}

func sendError(s *melody.Session, id uuid.UUID, code int, message string) error {
	log.Debug().Int("code", code).Str("message", message).Msg("sending error")

	resp := models.ResponseObject{
		JsonRpc: "2.0",
		Id:      id,
		Error: &models.ErrorObject{
			Code:    code,
			Message: message,
		},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	return s.Write(data)
}

func broadcastNotifications(ctx context.Context, m *melody.Melody, ns <-chan models.Notification) {
	for {
		select {
		case n := <-ns:
			ro := models.RequestObject{
				JsonRpc: "2.0",
				Method:  n.Method,
				Params:  n.Params,
			}

			data, err := json.Marshal(ro)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification request")
				continue
			}

			err = m.Broadcast(data)
			if err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		case <-ctx.Done():
			return
		}
	}
}

func handleMessage(ctx context.Context, env requests.RequestEnv) func(*melody.Session, []byte) {
	return func(s *melody.Session, msg []byte) {
		// ping command for heartbeat operation
		if bytes.Equal(msg, []byte("ping")) {
			err := s.Write([]byte("pong"))
			if err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		var req models.RequestObject
		err := json.Unmarshal(msg, &req)
		if err != nil {
			log.Error().Err(err).Msg("data not valid json")
			err := sendError(s, uuid.Nil, ErrCodeParse, "parse error")
			if err != nil {
				log.Error().Err(err).Msg("error sending error response")
			}
			return
		}

		if req.JsonRpc != "2.0" {
			log.Error().Str("jsonrpc", req.JsonRpc).Msg("unsupported payload version")
			if req.Id != nil {
				err := sendError(s, *req.Id, ErrCodeInvalidRequest, "unsupported jsonrpc version")
				if err != nil {
					log.Error().Err(err).Msg("error sending error response")
				}
			}
			return
		}

		if req.Method == "" {
			// clients don't answer to anything the server sends
			log.Debug().Msg("ignoring message with no method")
			return
		}

		if req.Id == nil {
			log.Info().Str("method", req.Method).Msg("received notification, ignoring")
			return
		}

		reqEnv := env
		reqEnv.Context = ctx

		resp, err := handleRequest(reqEnv, req)
		if err != nil {
			err := sendError(s, *req.Id, errorCode(err), err.Error())
			if err != nil {
				log.Error().Err(err).Msg("error sending error response")
			}
			return
		}

		err = sendResponse(s, *req.Id, resp)
		if err != nil {
			log.Error().Err(err).Msg("error sending response")
		}
	}
}

// NewRouter serves the JSON-RPC websocket at / and the REST mirror under
// /api/v1. Notifications from ns are broadcast until ctx is done.
func NewRouter(
	ctx context.Context,
	env requests.RequestEnv,
	ns <-chan models.Notification,
) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(&log.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	m := melody.New()
	m.Upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	m.HandleMessage(handleMessage(ctx, env))

	go broadcastNotifications(ctx, m, ns)
	go func() {
		<-ctx.Done()
		err := m.Close()
		if err != nil {
			log.Debug().Err(err).Msg("closing websocket sessions")
		}
	}()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		err := m.HandleRequest(w, r)
		if err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(RequestTimeout))
		restRoutes(ctx, r, env)
	})

	return r
}

// Start listens on the configured local port and serves in the background.
// The returned server is stopped with Shutdown.
func Start(
	ctx context.Context,
	env requests.RequestEnv,
	ns <-chan models.Notification,
) (*http.Server, error) {
	ln, err := net.Listen("tcp", "localhost:"+env.Config.GetApiPort())
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           NewRouter(ctx, env, ns),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("api server started")
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("error starting http server")
		}
	}()

	return srv, nil
}
