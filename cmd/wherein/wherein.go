package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"tableflip.dev/wherein/pkg/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := commands.New().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
