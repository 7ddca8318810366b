package controllers

import (
	"net/http"

	"github.com/modelmart/modelmart-backend/api/responses"
)

// PublicPing answers unauthenticated availability probes.
func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"ping": "pong"})
	}
}

// PrivatePing answers inside the authenticated group.
func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"ping": "pong"})
	}
}
