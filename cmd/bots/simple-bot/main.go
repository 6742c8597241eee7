// cmd/bots/simple-bot/main.go
//
// Bot que joga partidas completas: cadastra-se pela API, responde o quiz ao acaso,
// sinaliza prontidão pelo WebSocket e volta para a fila depois de cada resultado.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quizduel/internal/cluster"
	"quizduel/internal/network"
	"quizduel/internal/quiz"
	"quizduel/internal/session/message"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	consulAddr := flag.String("consul", "", "consul address; when set the server is discovered by service name")
	service := flag.String("service", "quizduel", "consul service name")
	nickname := flag.String("nickname", "", "bot nickname (random when empty)")
	games := flag.Int("games", 1, "number of games to play")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *nickname == "" {
		*nickname = "bot-" + uuid.NewString()[:8]
	}
	base := *server
	if *consulAddr != "" {
		addr, err := discover(*consulAddr, *service)
		if err != nil {
			log.Fatal().Err(err).Msg("discover server")
		}
		base = "http://" + addr
	}

	logger := log.With().Str("nickname", *nickname).Logger()
	if err := play(base, *nickname, *games, logger); err != nil {
		logger.Fatal().Err(err).Msg("bot failed")
	}
	logger.Info().Msg("bot finished")
}

func discover(consulAddr, service string) (string, error) {
	client, err := cluster.NewConsulClient(consulAddr)
	if err != nil {
		return "", err
	}
	return cluster.DiscoverAnyHealthy(client, service)
}

func play(base, nickname string, games int, logger zerolog.Logger) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("parse server url: %w", err)
	}
	wsURL := url.URL{Scheme: "ws", Host: u.Host, Path: "/ws"}
	if u.Scheme == "https" {
		wsURL.Scheme = "wss"
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL.String(), err)
	}
	defer conn.Close()

	// O primeiro frame traz o id da conexão.
	var hello network.Message
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("read connected: %w", err)
	}
	var connected message.ConnectedPayload
	if err := hello.DecodePayload(&connected); err != nil || hello.Type != network.TypeConnected {
		return fmt.Errorf("unexpected first frame %q", hello.Type)
	}

	rest := newRestClient(base)
	view, err := rest.addPlayer(nickname, connected.ConnectionID)
	if err != nil {
		return err
	}
	logger.Info().Str("connectionId", view.ConnectionID).Msg("registered")

	qs, err := rest.questions()
	if err != nil {
		return err
	}

	played := 0
	for played < games {
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		switch msg.Type {
		case network.TypeGameStarted:
			score := quiz.Score(qs, randomAnswers(qs))
			logger.Info().Int("score", score).Msg("game started, sending readiness")
			if err := send(conn, network.TypeUnitsReady, nil); err != nil {
				return err
			}
			if err := send(conn, network.TypeScore, map[string]int{"score": score}); err != nil {
				return err
			}
		case network.TypeBattleStarted:
			logger.Info().Msg("battle started")
		case network.TypeGameResult:
			var res message.ResultPayload
			_ = msg.DecodePayload(&res)
			played++
			logger.Info().Str("result", res.Message).Int("played", played).Msg("game result")
			if played < games {
				if err := rest.enqueue(nickname); err != nil {
					return err
				}
			}
		case network.TypeError:
			var e message.ErrorPayload
			_ = msg.DecodePayload(&e)
			return errors.New("server error: " + e.Error)
		}
	}
	return nil
}

func send(conn *websocket.Conn, msgType string, payload any) error {
	msg, err := network.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", msgType, err)
	}
	return nil
}

func randomAnswers(qs []quiz.Question) map[int]int {
	answers := make(map[int]int, len(qs))
	for _, q := range qs {
		answers[q.ID] = rand.IntN(len(q.Options))
	}
	return answers
}
