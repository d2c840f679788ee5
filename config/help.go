package config

import (
	"fmt"
	"strings"
)

const HelpMessage = `
Ride coordinator: ride lifecycle, chat rooms and push notifications.

Usage:
  coordinator -mode=<mode> [-config-path=config.yaml]

Modes:
  coordinator   serve the HTTP/websocket API and consume driver decisions
  migrate       apply SQL migrations to the configured database and exit

Flags:
  -mode          application mode (required)
  -config-path   path to the config yaml file (default config.yaml)
  -help          show this message

Every config key can be overridden by its environment variable,
e.g. database.host -> DATABASE_HOST.
`

func PrintHelp() {
	fmt.Printf("%s", HelpMessage)
}

// PrintConfig prints the effective configuration with secrets masked.
func PrintConfig(cfg *Config) {
	var b strings.Builder

	fmt.Fprintf(&b, "mode:               %s\n", cfg.Mode)
	fmt.Fprintf(&b, "log level:          %s\n", cfg.Log.Level)
	fmt.Fprintf(&b, "storage:            %s\n", cfg.Storage.Driver)
	if cfg.Storage.Driver == "postgres" {
		fmt.Fprintf(&b, "database:           %s@%s:%s/%s\n", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	}
	fmt.Fprintf(&b, "rabbitmq:           %s\n", enabled(cfg.RabbitMQ.Enabled, cfg.RabbitMQ.Host+":"+cfg.RabbitMQ.Port))
	fmt.Fprintf(&b, "redis relay:        %s\n", enabled(cfg.Redis.Enabled, cfg.Redis.Addr()))
	fmt.Fprintf(&b, "http port:          %s\n", cfg.Server.Port)
	fmt.Fprintf(&b, "jwt secret:         %s\n", mask(cfg.Auth.JWTSecret))
	fmt.Fprintf(&b, "vapid private key:  %s\n", mask(cfg.Push.VAPIDPrivateKey))
	fmt.Fprintf(&b, "dispatch:           parallelism=%d attempt_timeout=%s\n", cfg.Dispatch.Parallelism, cfg.Dispatch.AttemptTimeout)
	fmt.Fprintf(&b, "chat:               lookup_timeout=%s relay_buffer=%d\n", cfg.Chat.LookupTimeout, cfg.Chat.RelayBuffer)
	fmt.Fprintf(&b, "ride:               matching_window=%s\n", cfg.Ride.MatchingWindow)

	fmt.Print(b.String())
}

func enabled(on bool, target string) string {
	if !on {
		return "disabled"
	}
	return target
}

func mask(secret string) string {
	if secret == "" {
		return "<unset>"
	}
	return "********"
}
