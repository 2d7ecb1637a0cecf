package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/doeshing/alex-go/internal/infrastructure/cli"
	"github.com/doeshing/alex-go/internal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	root, closeRoot := cli.NewRootCmd(ctx, cli.Options{Debug: logger.DebugFromEnv()})
	err := root.ExecuteContext(ctx)
	if cerr := closeRoot(); cerr != nil && err == nil {
		err = cerr
	}
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
