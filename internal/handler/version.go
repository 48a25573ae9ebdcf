package handler

import "net/http"

// Version is set at build time via -ldflags.
var Version = "dev"

// VersionResponse represents the version endpoint response
type VersionResponse struct {
	Version string `json:"version"`
}

// HandleVersion reports the running build, for deployment verification
func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, VersionResponse{Version: Version})
	}
}
