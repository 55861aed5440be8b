// Command flowclient drives the lead-capture confirmation flow against a
// running server: submit an address, watch delivery status, optionally
// confirm receipt.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"DocDrop/internal/flow"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "base URL of the DocDrop server")
	slug := flag.String("slug", "", "document slug")
	email := flag.String("email", "", "recipient email address")
	confirm := flag.Bool("confirm", false, "confirm receipt once a delivered status is observed")
	flag.Parse()

	if *slug == "" || *email == "" {
		fmt.Fprintln(os.Stderr, "usage: flowclient -slug <slug> -email <address> [-server url] [-confirm]")
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	f := flow.New(flow.NewClient(*server), *slug, logger)

	ctx := context.Background()
	if err := f.Submit(ctx, *email); err != nil {
		logger.Fatal("submission failed", zap.Error(err))
	}
	fmt.Printf("submitted, email send id: %s\n", f.EmailSendID())

	deadline := time.Now().Add(flow.DefaultPollCeiling)
	for time.Now().Before(deadline) {
		if status := f.DeliveryStatus(); status != "" {
			fmt.Printf("delivery status: %s\n", status)
			if *confirm && status == "delivered" {
				if err := f.Confirm(ctx); err != nil {
					logger.Warn("confirm failed", zap.Error(err))
				}
				fmt.Println("receipt confirmed")
			}
			return
		}
		time.Sleep(time.Second)
	}

	fmt.Println("no terminal status observed before the polling ceiling")
}
