package requests

import (
	"context"

	"github.com/google/uuid"
	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/config"
	"github.com/pixoonair/pixoonair/pkg/database"
	"github.com/pixoonair/pixoonair/pkg/onair"
	"github.com/pixoonair/pixoonair/pkg/platforms"
	"github.com/pixoonair/pixoonair/pkg/service/state"
)

type RequestEnv struct {
	Context   context.Context
	Platform  platforms.Platform
	Config    *config.UserConfig
	State     *state.State
	Database  *database.Database
	Activator *onair.Activator
	Id        uuid.UUID
	Params    []byte
}

// Notify is a shortcut for sending through the shared state.
func (env RequestEnv) Notify(method string, params any) {
	env.State.Notify(models.Notification{Method: method, Params: params})
}
