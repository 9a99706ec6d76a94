package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/places-api/internal/common/bootstrap"
	srv "github.com/AlibekovAA/places-api/internal/common/server"
)

func main() {
	app, err := bootstrap.NewAPIApp(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start api: %v\n", err)
		os.Exit(1)
	}

	server := srv.NewServer(srv.DefaultServerConfig(app.Config.HTTPPort), app.Handler)

	if err := srv.Run(server, app.Log, "api", app.ShutdownHooks()...); err != nil {
		app.Log.Fatalf("api service stopped with error: %v", err)
	}
}
