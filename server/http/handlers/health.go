package handlers

import (
	"net/http"

	"sheetops/internal/respond"
)

// Version is set at build time with -ldflags "-X ...handlers.Version=...".
var Version = "dev"

func Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}
