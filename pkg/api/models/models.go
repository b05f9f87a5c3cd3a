package models

import "github.com/google/uuid"

const (
	SettingsSaved          = "settings.saved"
	DisplayChanged         = "display.changed"
	MethodLoadSettings     = "load_settings"
	MethodSaveSettings     = "save_settings"
	MethodChangeDisplay    = "change_display_mode"
	MethodAutoStart        = "autostart"
	MethodAutoStartEnable  = "autostart.enable"
	MethodAutoStartDisable = "autostart.disable"
	MethodHistory          = "history"
	MethodVersion          = "version"
	MethodStatus           = "status"
)

type Notification struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// RequestObject is a JSON-RPC 2.0 request. A request with no id is a
// notification.
type RequestObject struct {
	JsonRpc string     `json:"jsonrpc"`
	Id      *uuid.UUID `json:"id,omitempty"`
	Method  string     `json:"method"`
	Params  any        `json:"params,omitempty"`
}

type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ResponseObject struct {
	JsonRpc string       `json:"jsonrpc"`
	Id      uuid.UUID    `json:"id"`
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
}
