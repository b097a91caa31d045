package websocketdto

import "encoding/json"

const (
	TypeAuth       = "auth"
	TypeAuthOK     = "auth_ok"
	TypeError      = "error"
	TypeRideUpdate = "ride_status_update"
	TypeRideOffer  = "ride_offer"
)

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type AuthMessage struct {
	Token string `json:"token"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
