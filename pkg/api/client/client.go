package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pixoonair/pixoonair/pkg/api"
	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/config"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout = errors.New("request timed out")
	ErrInvalidParams  = errors.New("invalid params")
	ErrConnection     = errors.New("api connection failed")
)

// RPCError is an error response returned by the server.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

func LocalAddr(cfg *config.UserConfig) string {
	return "localhost:" + cfg.GetApiPort()
}

// Call sends a single method to the API server at addr and waits for its
// result, then disconnects. Transport failures wrap ErrConnection.
func Call(
	ctx context.Context,
	addr string,
	method string,
	params any,
) (json.RawMessage, error) {
	u := url.URL{
		Scheme: "ws",
		Host:   addr,
		Path:   "/",
	}

	id, err := uuid.NewUUID()
	if err != nil {
		return nil, err
	}

	req := models.RequestObject{
		JsonRpc: "2.0",
		Id:      &id,
		Method:  method,
		Params:  params,
	}

	ctx, cancel := context.WithTimeout(ctx, api.RequestTimeout)
	defer cancel()

	c, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer func(c *websocket.Conn) {
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
	}(c)

	done := make(chan struct{})
	var resp *models.ResponseObject
	var readErr error

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				readErr = err
				return
			}

			var m struct {
				models.ResponseObject
				Result json.RawMessage `json:"result"`
			}
			err = json.Unmarshal(message, &m)
			if err != nil {
				continue
			}

			if m.JsonRpc != "2.0" {
				log.Error().Msg("invalid jsonrpc version")
				continue
			}

			if m.Id != id {
				continue
			}

			m.ResponseObject.Result = m.Result
			resp = &m.ResponseObject
			return
		}
	}()

	err = c.WriteJSON(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrRequestTimeout
		}
		return nil, ctx.Err()
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, readErr)
	}

	if resp.Error != nil {
		return nil, &RPCError{
			Code:    resp.Error.Code,
			Message: resp.Error.Message,
		}
	}

	raw, _ := resp.Result.(json.RawMessage)
	return raw, nil
}

// LocalClient sends a single method with params given as a JSON string to
// the local running API service and returns the result as a JSON string.
func LocalClient(
	cfg *config.UserConfig,
	method string,
	params string,
) (string, error) {
	var ps any
	if len(params) > 0 {
		if !json.Valid([]byte(params)) {
			return "", ErrInvalidParams
		}
		err := json.Unmarshal([]byte(params), &ps)
		if err != nil {
			return "", err
		}
	}

	res, err := Call(context.Background(), LocalAddr(cfg), method, ps)
	if err != nil {
		return "", err
	}

	if len(res) == 0 {
		return "null", nil
	}

	return string(res), nil
}
