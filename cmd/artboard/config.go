package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gogpu/artboard"
)

// config is the resolved CLI configuration. Sources, lowest priority first:
// defaults, artboard.yaml in the working directory or $HOME/.config/artboard,
// a .env file, ARTBOARD_* environment variables.
type config struct {
	LibraryPath string
	Size        int
	TextFont    string
	StickerFont string

	GeminiKey      string
	GeminiModel    string
	GeminiEndpoint string
	Style          string

	LogLevel   string
	LogFile    string
	LogMaxSize int // megabytes
	LogBackups int
}

func loadConfig(path string) (*config, error) {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("library", "artboard.db")
	v.SetDefault("size", 1024)
	v.SetDefault("gemini.model", "gemini-3-pro-image-preview")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.backups", 3)

	v.SetEnvPrefix("ARTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("gemini.api_key", "ARTBOARD_GEMINI_API_KEY", "GEMINI_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("artboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/artboard")
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &config{
		LibraryPath:    v.GetString("library"),
		Size:           v.GetInt("size"),
		TextFont:       v.GetString("fonts.text"),
		StickerFont:    v.GetString("fonts.sticker"),
		GeminiKey:      v.GetString("gemini.api_key"),
		GeminiModel:    v.GetString("gemini.model"),
		GeminiEndpoint: v.GetString("gemini.endpoint"),
		Style:          v.GetString("gemini.style"),
		LogLevel:       v.GetString("log.level"),
		LogFile:        v.GetString("log.file"),
		LogMaxSize:     v.GetInt("log.max_size"),
		LogBackups:     v.GetInt("log.backups"),
	}, nil
}

// setupLogging installs the module logger. It returns a closer for the
// log file, if any.
func setupLogging(cfg *config, verbose bool) (io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = slog.LevelDebug
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = io.NopCloser(nil)
	)
	if cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogBackups,
			Compress:   true,
		}
		w, closer = lj, lj
	}

	artboard.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}
