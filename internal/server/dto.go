package server

import "CreeperAttack/internal/game"

type locationRequest struct {
	Location string `json:"location"`
}

type joinRequest struct {
	Name string `json:"name"`
}

type joinResponse struct {
	ID   game.PlayerID `json:"id"`
	Name string        `json:"name"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type validateResponse struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing"`
}

type shopResponse struct {
	Status  game.ShopStatus  `json:"status"`
	Entries []game.ShopEntry `json:"entries"`
}

type attackResponse struct {
	Hit   bool `json:"hit"`
	Alive bool `json:"alive"`
	Coins int  `json:"coins"`
}

type deathResponse struct {
	Penalty int `json:"penalty"`
	Coins   int `json:"coins"`
}

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}
