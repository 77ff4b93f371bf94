package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"
const PROD_ENV_FILENAME = ".env.production"

func InitEnvironmentVariables() error {
	// Production deployments inject variables directly, no .env file
	if os.Getenv("ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	envFile := DEV_ENV_FILENAME
	if os.Getenv("GO_ENV") == "production" {
		envFile = PROD_ENV_FILENAME
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s file: %v", envFile, err)
	}

	return nil
}

// GetEnvDecimal reads a decimal-valued environment variable, falling back to
// def when unset. A set-but-unparsable value is an error, not a fallback.
func GetEnvDecimal(key string, def decimal.Decimal) (decimal.Decimal, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("GetEnvDecimal: failed to parse %s=%q: %w", key, raw, err)
	}

	return value, nil
}

// GetEnvInt reads an integer-valued environment variable, falling back to def
// when unset.
func GetEnvInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("GetEnvInt: failed to parse %s=%q: %w", key, raw, err)
	}

	return value, nil
}
