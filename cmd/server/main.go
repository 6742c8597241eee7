// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"quizduel/internal/api"
	"quizduel/internal/cluster"
	"quizduel/internal/config"
	"quizduel/internal/events"
	"quizduel/internal/logging"
	"quizduel/internal/network"
	"quizduel/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. CONFIGURAÇÃO E LOG
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("addr", cfg.HTTPAddr).
		Int("capacity", cfg.WaitingRoomCapacity).
		Dur("interval", cfg.MatchmakingInterval).
		Int64("battleSeed", cfg.BattleSeed).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	health := cluster.NewHealthAggregator()

	// 2. EVENTOS
	var publisher events.Publisher = events.Noop{}
	if cfg.NATSURL != "" {
		nats, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, cfg.ServiceName+"-"+cfg.AdvertisedHostname)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer func() {
			if err := nats.Close(); err != nil {
				log.Warn().Err(err).Msg("drain nats")
			}
		}()
		health.AddCheck("nats", nats.Check)
		publisher = nats
	}

	// 3. REDE E LÓGICA DO JOGO
	hub := network.NewHub(nil)

	opts := session.Options{
		Capacity:            cfg.WaitingRoomCapacity,
		MatchmakingInterval: cfg.MatchmakingInterval,
		BattleSeed:          cfg.BattleSeed,
		SessionHistory:      cfg.SessionHistory,
		ReadyTimeout:        cfg.ReadyTimeout,
		Events:              publisher,
	}
	if cfg.PairingSeed != 0 {
		opts.Rand = rand.New(rand.NewPCG(cfg.PairingSeed, cfg.PairingSeed))
	}
	app, err := session.NewApp(hub, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create app")
	}
	hub.SetHandler(session.NewGameHandler(app))
	go hub.Run(ctx)

	health.AddCheck("hub", func() error {
		select {
		case <-hub.Done():
			return errors.New("hub stopped")
		default:
			return nil
		}
	})

	// 4. HTTP
	wsServer := network.NewServer(hub, originChecker(cfg.ClientOrigin))
	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.New(app, api.Options{
			ClientOrigin: cfg.ClientOrigin,
			WebSocket:    wsServer,
			Health:       health.Handler(),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	// 5. CONSUL
	if cfg.ConsulAddr != "" {
		if registrar := registerInConsul(cfg); registrar != nil {
			defer func() {
				if err := registrar.Deregister(); err != nil {
					log.Warn().Err(err).Msg("consul deregister")
				}
			}()
		}
	}

	// 6. MATCHMAKING (bloqueia até o sinal de parada)
	app.RunMatchmaking(ctx)

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
}

func registerInConsul(cfg config.Config) *cluster.Registrar {
	client, err := cluster.NewConsulClient(cfg.ConsulAddr)
	if err != nil {
		log.Error().Err(err).Msg("consul unavailable, running unregistered")
		return nil
	}
	registrar := cluster.NewRegistrar(client, cfg.ServiceName, cfg.AdvertisedHostname, portOf(cfg.HTTPAddr))
	if err := registrar.Register(); err != nil {
		log.Error().Err(err).Msg("consul register")
		return nil
	}
	return registrar
}

// originChecker aceita a origem configurada e clientes sem cabeçalho Origin (bots).
func originChecker(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowed
	}
}

func portOf(addr string) int {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return 8080
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return 8080
	}
	return n
}
