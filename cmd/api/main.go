package main

import (
	"log"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/bootstrap"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/config"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/server"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
