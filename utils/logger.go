package utils

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
)

func ColorText(text, color string) string {
	return color + text + Reset
}

func ColorStatus(statusCode int) string {
	code := fmt.Sprintf("%d", statusCode)
	switch {
	case statusCode >= 500:
		return ColorText(code, Red)
	case statusCode >= 400:
		return ColorText(code, Yellow)
	default:
		return ColorText(code, Green)
	}
}

// InitLogger sets the global zerolog logger. Development gets a console writer.
func InitLogger(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// PrintLogInfo logs one handler outcome. err is optional and is only logged
// server side.
func PrintLogInfo(username *string, statusCode int, functionName string, err *error) {
	user := "Unknown"
	if username != nil && *username != "" {
		user = *username
	}

	var ev *zerolog.Event
	switch {
	case statusCode >= http.StatusInternalServerError:
		ev = log.Error()
	case statusCode >= http.StatusBadRequest:
		ev = log.Warn()
	default:
		ev = log.Info()
	}
	if err != nil && *err != nil {
		ev = ev.Err(*err)
	}
	ev.Str("user", user).Int("status", statusCode).Str("function", functionName).Send()
}
