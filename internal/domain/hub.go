package domain

import (
	"context"
)

type HubUseCase interface {
	Handle(ctx context.Context, client Client) error
	Sessions() int64
	SessionStates() map[string]string
}

type HealthCheckResponse struct {
	Status   string            `json:"status"`
	Sessions int64             `json:"sessions"`
	Games    map[string]string `json:"games,omitempty"`
}
