// Package config carrega a configuração do servidor.
//
// Ordem de precedência, da maior para a menor: variáveis de ambiente,
// arquivo .env, seção [server] do arquivo ini, valores padrão.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

const (
	defaultConfigFile = "server.ini"
	iniSection        = "server"
)

// Config armazena todas as configurações da aplicação.
type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	WaitingRoomCapacity int           `env:"WAITING_ROOM_CAPACITY" envDefault:"2"`
	MatchmakingInterval time.Duration `env:"MATCHMAKING_INTERVAL" envDefault:"5s"`
	BattleSeed          int64         `env:"BATTLE_SEED" envDefault:"17"`
	PairingSeed         uint64        `env:"PAIRING_SEED" envDefault:"0"`
	SessionHistory      int           `env:"SESSION_HISTORY" envDefault:"128"`
	ReadyTimeout        time.Duration `env:"SESSION_READY_TIMEOUT" envDefault:"0s"`

	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"quizduel"`

	ConsulAddr         string `env:"CONSUL_HTTP_ADDR"`
	ServiceName        string `env:"SERVICE_NAME" envDefault:"quizduel"`
	AdvertisedHostname string `env:"SERVICE_ADVERTISED_HOSTNAME"`
}

// Load monta a Config a partir do ambiente. File vazio usa CONFIG_FILE ou server.ini;
// um arquivo inexistente é ignorado.
func Load(file string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if file == "" {
		file = os.Getenv("CONFIG_FILE")
	}
	if file == "" {
		file = defaultConfigFile
	}
	if err := exportIni(file); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.AdvertisedHostname == "" {
		cfg.AdvertisedHostname = hostname()
	}
	return cfg, nil
}

// exportIni copia as chaves de [server] para o ambiente, sem sobrescrever.
func exportIni(file string) error {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	f, err := ini.Load(file)
	if err != nil {
		return fmt.Errorf("load config file %s: %w", file, err)
	}
	for _, key := range f.Section(iniSection).Keys() {
		name := strings.ToUpper(key.Name())
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, key.Value()); err != nil {
			return fmt.Errorf("export %s: %w", name, err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.WaitingRoomCapacity < 2 {
		return fmt.Errorf("WAITING_ROOM_CAPACITY must be at least 2, got %d", c.WaitingRoomCapacity)
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("MATCHMAKING_INTERVAL must be positive, got %s", c.MatchmakingInterval)
	}
	if c.ReadyTimeout < 0 {
		return fmt.Errorf("SESSION_READY_TIMEOUT must not be negative, got %s", c.ReadyTimeout)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	return nil
}

func hostname() string {
	if h := os.Getenv("HOSTNAME"); h != "" {
		return h
	}
	h, _ := os.Hostname()
	return h
}
