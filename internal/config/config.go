package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hamed0406/waitfor/internal/domain"
	"github.com/hamed0406/waitfor/internal/output"
)

// EnvPrefix is prepended to every flag name when read from the environment,
// e.g. WAIT_FOR_TIMEOUT or WAIT_FOR_LOG_DIR.
const EnvPrefix = "WAIT_FOR"

const DefaultTimeoutSeconds = 15

const (
	keyTimeout = "timeout"
	keyQuiet   = "quiet"
	keyColor   = "color"
	keyLogDir  = "log-dir"
)

type Config struct {
	Target         domain.Target
	TimeoutSeconds uint64
	Timeout        time.Duration // 0 means wait forever
	Quiet          bool
	Color          output.ColorMode
	Command        []string
	LogDir         string // empty disables the attempt log
}

// RegisterFlags adds the wait-for flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Uint64P(keyTimeout, "t", DefaultTimeoutSeconds, "Timeout in seconds, zero for no timeout")
	fs.BoolP(keyQuiet, "q", false, "Don't output any status messages")
	fs.String(keyColor, string(output.ColorAuto), "Colorize output: auto, always or never")
	fs.String(keyLogDir, "", "Write a JSON attempt log to this directory")
}

// NewViper returns a viper instance that reads flags from fs and falls back
// to WAIT_FOR_* environment variables for flags that were not given.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	return v, nil
}

// Load builds a Config from the bound values and the positional args.
// args[0] is the target, the rest is the command to run afterwards.
func Load(v *viper.Viper, args []string) (Config, error) {
	if len(args) == 0 {
		return Config{}, fmt.Errorf("missing target")
	}

	target, err := domain.ParseTarget(args[0])
	if err != nil {
		return Config{}, err
	}

	raw := strings.TrimSpace(v.GetString(keyTimeout))
	secs, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timeout %q: must be a whole number of seconds", raw)
	}

	mode, err := output.ParseColorMode(v.GetString(keyColor))
	if err != nil {
		return Config{}, err
	}

	quiet, err := parseBool(v.GetString(keyQuiet))
	if err != nil {
		return Config{}, err
	}

	cmd := args[1:]
	if len(cmd) > 0 && cmd[0] == "--" {
		cmd = cmd[1:]
	}

	return Config{
		Target:         target,
		TimeoutSeconds: secs,
		Timeout:        timeoutDuration(secs),
		Quiet:          quiet,
		Color:          mode,
		Command:        append([]string(nil), cmd...),
		LogDir:         strings.TrimSpace(v.GetString(keyLogDir)),
	}, nil
}

func parseBool(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid quiet value %q", s)
	}
	return b, nil
}

// timeoutDuration caps absurd values instead of overflowing.
func timeoutDuration(secs uint64) time.Duration {
	const maxSecs = uint64(1<<63-1) / uint64(time.Second)
	if secs > maxSecs {
		secs = maxSecs
	}
	return time.Duration(secs) * time.Second
}
