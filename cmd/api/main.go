package main

import (
	"entrepotes-listings/pkg/logger"
)

func main() {
	cfg := LoadConfiguration()

	app, err := NewApp(cfg)
	if err != nil {
		logger.GlobalLogger.Fatalf("Failed to initialize application: %v", err)
	}

	app.InitializeServer()
	app.StartServer()
}
