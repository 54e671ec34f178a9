package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"taskmill"
	"taskmill/server"
)

// settings is everything the commands need, layered from built-in
// defaults, an optional taskmill.yaml file, and TASKMILL_* environment
// variables. Precedence: environment > file > defaults.
type settings struct {
	LogLevel string
	Proc     taskmill.Config
	Server   server.Config
}

func loadSettings(configPath string) (settings, error) {
	proc := taskmill.DefaultConfig()

	v := viper.New()
	v.SetConfigName("taskmill")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if configPath != "" {
		v.SetConfigFile(configPath)
	}
	v.SetEnvPrefix("TASKMILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("task_type", proc.TaskType)
	v.SetDefault("table_threshold", proc.TableThreshold)
	v.SetDefault("min_paragraph_len", proc.MinParagraphLen)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.cors_origins", "")
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.job_ttl", time.Hour)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	return settings{
		LogLevel: v.GetString("log_level"),
		Proc: taskmill.Config{
			TaskType:        v.GetString("task_type"),
			TableThreshold:  v.GetFloat64("table_threshold"),
			MinParagraphLen: v.GetInt("min_paragraph_len"),
		},
		Server: server.Config{
			Addr:        v.GetString("server.addr"),
			APIKey:      v.GetString("server.api_key"),
			CORSOrigins: v.GetString("server.cors_origins"),
			MaxUploadMB: v.GetInt64("server.max_upload_mb"),
			JobTTL:      v.GetDuration("server.job_ttl"),
		},
	}, nil
}

func setupLogging(level string) {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
