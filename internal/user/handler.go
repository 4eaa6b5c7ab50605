package user

import (
	"github.com/igwt-platform/igwt/internal/marketplace"
	"github.com/igwt-platform/igwt/internal/store"
)

// Handler serves public profiles, portfolio updates and subscriptions.
type Handler struct {
	store store.Store
	svc   *marketplace.Service
}

func NewHandler(st store.Store, svc *marketplace.Service) *Handler {
	return &Handler{store: st, svc: svc}
}
