package server

import (
	"fmt"
	"net/http"
)

const (
	ListenPort  = 9090
	ReadSeconds = 15
)

var fallback = Config{Port: ListenPort}

type Config struct {
	Port    int
	Timeout int
}

type Handler struct {
	cfg *Config
}

func NewHandler(cfg *Config) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "listening on %d", h.cfg.Port)
}
