// Command arenaserver is the dedicated capture-the-flag arena server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/flagrush-arena/server/internal/server"
)

// Version is set at build time.
var Version = "dev"

func main() {
	flag.Bool("server", true, "run as the headless arena server (the only mode of this binary)")
	flag.Parse()

	cfg := server.DefaultConfig()
	if flag.NArg() > 0 {
		port, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "arenaserver: invalid port %q\n", flag.Arg(0))
			os.Exit(1)
		}
		cfg.Port = port
	}

	log.Printf("arenaserver v%s starting", Version)

	srv := server.New(cfg)
	if err := srv.Init(); err != nil {
		log.Printf("arenaserver: %v", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	srv.Start(true)
	if err := srv.StartGame(); err != nil {
		log.Printf("arenaserver: %v", err)
	}

	<-sigCh
	log.Println("arenaserver: shutdown signal received")
	srv.Stop()
	os.Exit(0)
}
