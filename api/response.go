package api

import (
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
)

func WriteJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Error("Error encoding JSON", slog.Any("error", err))
	}
}

func WriteError(w http.ResponseWriter, msg string, code int) {
	WriteJSON(w, ErrorResponse{Message: msg}, code)
}
