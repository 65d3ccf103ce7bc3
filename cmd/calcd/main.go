package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmorgan81/calcwire/internal/admin"
	"github.com/jmorgan81/calcwire/internal/config"
	"github.com/jmorgan81/calcwire/internal/observability"
	"github.com/jmorgan81/calcwire/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (toml or yaml)")
		listen     = flag.String("listen", "", "listen address override")
		adminAddr  = flag.String("admin", "", "admin address override")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := loadRuntimeConfig(*configPath)
		if err != nil {
			observability.InitLogger("calcd")
			log.Error().Err(err).Msg("config load failed")
			os.Exit(1)
		}
		cfg = loaded
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *adminAddr != "" {
		cfg.AdminAddr = *adminAddr
	}

	observability.InitLogger(cfg.Name)
	observability.SetLevel(cfg.LogLevel)

	srv := server.New(server.Config{
		Listen:          cfg.Listen,
		ReadBufferBytes: cfg.ReadBufferBytes,
		MaxPayloadBytes: cfg.MaxPayloadBytes,
	})
	if err := srv.Listen(); err != nil {
		log.Error().Err(err).Msg("bind failed")
		os.Exit(1)
	}

	if cfg.AdminAddr != "" {
		adm := admin.New(cfg.Name, cfg.AdminAddr, srv, cfg.CorsOrigins)
		go func() {
			if err := adm.Serve(); err != nil {
				log.Error().Err(err).Msg("admin server failed")
			}
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		srv.Stop()
	}()

	if err := srv.Serve(); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}
