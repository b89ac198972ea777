package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/iiw-bench/pkg/config/env"
	"github.com/DjordjeVuckovic/iiw-bench/pkg/utils"
	"github.com/labstack/gommon/bytes"
)

// DefaultBodyLimit caps request bodies, posted reflectance maps included.
const DefaultBodyLimit = "64M"

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	BenchSpec   string
	BodyLimit   string
}

func LoadConfig() (*Config, error) {
	err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/iiw_api/.env")
	if err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	useHttp2Str := os.Getenv("USE_HTTP2")
	useHttp2 := useHttp2Str == "true"

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	var origins []string
	corsOriginsEnv := os.Getenv("CORS_ORIGINS")
	if corsOriginsEnv != "" {
		origins = strings.Split(corsOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		origins = utils.RemoveEmptyStrings(origins)
	}

	if len(origins) == 0 {
		origins = []string{"*"}
	}

	benchSpec := os.Getenv("BENCH_SPEC")
	if benchSpec == "" {
		return nil, errors.New("BENCH_SPEC must point at a bench spec file")
	}

	bodyLimit := os.Getenv("BODY_LIMIT")
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}
	if _, err := bytes.Parse(bodyLimit); err != nil {
		return nil, fmt.Errorf("invalid BODY_LIMIT %q: %w", bodyLimit, err)
	}

	return &Config{
		Port:        port,
		UseHttp2:    useHttp2,
		CorsOrigins: origins,
		BenchSpec:   benchSpec,
		BodyLimit:   bodyLimit,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
