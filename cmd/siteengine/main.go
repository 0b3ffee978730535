package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/northbound/siteengine"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional, env vars override)")
	flag.Parse()

	cfg, err := siteengine.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	app, err := siteengine.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		app.Echo.Close()
	}()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
