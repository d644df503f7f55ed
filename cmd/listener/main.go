// Package main starts the listener service and handles termination.
//
// The process follows the viewer's notification and chat streams, keeps the
// enriched views current and serves them with the day-by-day order schedule.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	listenercmd "github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/cmd/listener"
)

func main() {
	cfg, err := listenercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[LISTENER] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := listenercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
