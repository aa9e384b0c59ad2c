package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/ultimate-control/internal/app"
	"github.com/atomicstack/ultimate-control/internal/device"
	"github.com/atomicstack/ultimate-control/internal/nav"
	"github.com/atomicstack/ultimate-control/internal/vt"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envConfigFile   = "ULTIMATE_CONTROL_CONFIG"
	envHost         = "ULTIMATE_CONTROL_HOST"
	envConsolePort  = "ULTIMATE_CONTROL_CONSOLE_PORT"
	envTransferPort = "ULTIMATE_CONTROL_TRANSFER_PORT"
	envUser         = "ULTIMATE_CONTROL_USER"
	envPassword     = "ULTIMATE_CONTROL_PASSWORD"
	envSettle       = "ULTIMATE_CONTROL_SETTLE"
	envPoll         = "ULTIMATE_CONTROL_POLL"
	envKeyDelay     = "ULTIMATE_CONTROL_KEY_DELAY"
	envDialTimeout  = "ULTIMATE_CONTROL_DIAL_TIMEOUT"
	envVerbose      = "ULTIMATE_CONTROL_VERBOSE"
	envTrace        = "ULTIMATE_CONTROL_TRACE"
	envLogFile      = "ULTIMATE_CONTROL_LOG_FILE"
	envCharset      = "ULTIMATE_CONTROL_CHARSET"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values come from
// flags first, then the environment, then the config file.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	configPath := configFileArg(args, envOrDefault(env, envConfigFile, ""))
	file, err := loadFile(configPath)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("ultimate-control", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", configPath, "path to a TOML or YAML config file")
	host := fs.String("host", envOrDefault(env, envHost, file.Host), "device host name or address")
	consolePort := fs.Int("console-port", envOrInt(env, envConsolePort, orInt(file.ConsolePort, device.DefaultConsolePort)), "telnet console port")
	transferPort := fs.Int("transfer-port", envOrInt(env, envTransferPort, orInt(file.TransferPort, device.DefaultTransferPort)), "FTP transfer port")
	user := fs.String("user", envOrDefault(env, envUser, file.User), "FTP user (anonymous when empty)")
	password := fs.String("password", envOrDefault(env, envPassword, file.Password), "FTP password")
	settle := fs.Duration("settle", envOrDuration(env, envSettle, orDuration(file.Settle.Duration, nav.DefaultSettle)), "delay before reading the console after a key burst")
	poll := fs.Duration("poll", envOrDuration(env, envPoll, orDuration(file.Poll.Duration, nav.DefaultPoll)), "interval between checks while waiting for the console")
	keyDelay := fs.Duration("key-delay", envOrDuration(env, envKeyDelay, file.KeyDelay.Duration), "minimum spacing between key bursts")
	dialTimeout := fs.Duration("dial-timeout", envOrDuration(env, envDialTimeout, orDuration(file.DialTimeout.Duration, device.DefaultDialTimeout)), "connection timeout")
	trace := fs.Bool("trace", envOrBool(env, envTrace, file.Trace), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, file.Verbose), "print progress messages on stderr")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.LogFile), "path to the log file")
	charset := fs.String("charset", envOrDefault(env, envCharset, orString(file.Charset, vt.DefaultCharset)), "character set of 8-bit console bytes ("+strings.Join(vt.CharsetNames(), ", ")+")")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	for name, v := range map[string]time.Duration{"settle": *settle, "poll": *poll, "key-delay": *keyDelay, "dial-timeout": *dialTimeout} {
		if v < 0 {
			return Config{}, fmt.Errorf("%s must be >= 0 (got %s)", name, v)
		}
	}

	cm, err := vt.LookupCharset(*charset)
	if err != nil {
		return Config{}, err
	}

	rest := fs.Args()
	if *host == "" && len(rest) > 0 {
		*host, rest = rest[0], rest[1:]
	}
	command := "help"
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	cfg := Config{
		App: app.Config{
			Device: device.Options{
				Host:         *host,
				ConsolePort:  *consolePort,
				TransferPort: *transferPort,
				User:         *user,
				Password:     *password,
				DialTimeout:  *dialTimeout,
				KeyDelay:     *keyDelay,
				Nav:          nav.Options{Settle: *settle, Poll: *poll, Charset: cm},
			},
			Command: command,
			Args:    append([]string(nil), rest...),
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		Flags: map[string]string{
			"config":       configPath,
			"host":         *host,
			"consolePort":  strconv.Itoa(*consolePort),
			"transferPort": strconv.Itoa(*transferPort),
			"user":         *user,
			"settle":       settle.String(),
			"poll":         poll.String(),
			"keyDelay":     keyDelay.String(),
			"dialTimeout":  dialTimeout.String(),
			"trace":        strconv.FormatBool(*trace),
			"verbose":      strconv.FormatBool(*verbose),
			"logFile":      *logFile,
			"charset":      *charset,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// configFileArg finds --config ahead of the full parse so the file can supply
// flag defaults.
func configFileArg(args []string, fallback string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return fallback
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func orString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func orDuration(v, fallback time.Duration) time.Duration {
	if v == 0 {
		return fallback
	}
	return v
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	for name, port := range map[string]int{"console-port": cfg.App.Device.ConsolePort, "transfer-port": cfg.App.Device.TransferPort} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("%s must be between 1 and 65535 (got %d)", name, port)
		}
	}
	if cfg.App.Device.Host == "" && app.NeedsDevice(cfg.App.Command) {
		return fmt.Errorf("no device host given (use --host or %s)", envHost)
	}
	return nil
}
