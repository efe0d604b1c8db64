package respond

import (
	"encoding/json"
	"net/http"

	"dashboard/pkg/logger"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

type Message struct {
	Message string `json:"message"`
}
