package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

// Version is stamped at build time.
var Version = "dev"

// HealthHandler handles GET /healthz.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, &HealthResponse{
		Status:  "ok",
		Version: Version,
		Time:    time.Now().UTC(),
	})
}
