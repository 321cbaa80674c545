// Command visit issues a full or partial visit against a running server
// and prints the resulting page state, mainly useful for poking at a
// deployment from the terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"propwire/client"

	"go.uber.org/zap"
)

func main() {
	var (
		urlFlag    = flag.String("url", "http://localhost:8080/app/dashboard", "page URL to visit")
		onlyFlag   = flag.String("only", "", "comma-separated prop keys for a partial reload")
		tokenFlag  = flag.String("token", "", "bearer token")
		reloadFlag = flag.Bool("reload", false, "follow the visit with a reload restricted to -only")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	controller := client.NewController(logger)

	// First visit is always full; the page state has to exist before a
	// partial reload can merge into it.
	p, err := controller.Visit(ctx, *urlFlag, client.Options{BearerToken: *tokenFlag})
	if err != nil {
		logger.Fatal("Visit failed", zap.Error(err))
	}

	if *reloadFlag || *onlyFlag != "" {
		opts := client.Options{BearerToken: *tokenFlag}
		if *onlyFlag != "" {
			opts.Only = strings.Split(*onlyFlag, ",")
		}
		p, err = controller.Reload(ctx, opts)
		if err != nil {
			logger.Fatal("Reload failed", zap.Error(err))
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(controller.Page()); err != nil {
		logger.Fatal("Failed to print page", zap.Error(err))
	}

	logger.Info("Visit complete",
		zap.String("component", p.Component),
		zap.Int("props", len(p.Props)),
	)
}
