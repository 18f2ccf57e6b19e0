package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The access token lifetime is deliberately absent:
// tokens always expire one hour after issuance (see utils.AccessTokenTTL).
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBDriver        string // "mysql" or "sqlite"
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name, or file path when DBDriver is sqlite
	JWTSecret       string // secret used to sign access tokens
	GoogleClientID  string // expected audience of Google ID tokens
	BcryptCost      int    // bcrypt cost for password hashing
	ResetTTLMin     int    // password reset token lifetime in minutes
	RabbitURL       string // AMQP broker URL; empty disables event publishing
	AWSRegion       string // region of the profile picture bucket
	AWSS3Bucket     string // profile picture bucket; empty disables uploads
	AWSAccessKeyID  string
	AWSSecretKey    string
}

// Load reads configuration values from the environment.  A `.env.<APP_ENV>`
// file, then a plain `.env` file, are loaded first when present; variables
// already set in the process environment win.  Every missing required
// variable is reported in a single error.
func Load() (Config, error) {
	loadDotenv()

	var missing []string
	must := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           getenv("APP_PORT", "8080"),
		DBDriver:       strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBPass:         os.Getenv("DB_PASS"),
		JWTSecret:      must("JWT_SECRET"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		BcryptCost:     atoiDefault(os.Getenv("BCRYPT_COST"), 10),
		ResetTTLMin:    atoiDefault(os.Getenv("RESET_TOKEN_TTL_MIN"), 60),
		RabbitURL:      firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		AWSRegion:      getenv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:    os.Getenv("AWS_S3_BUCKET"),
		AWSAccessKeyID: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
	}

	switch cfg.DBDriver {
	case "mysql":
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = getenv("DB_PORT", "3306")
		cfg.DBName = must("DB_NAME")
	case "sqlite":
		cfg.DBName = getenv("DB_NAME", "marketplace.db")
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("invalid BCRYPT_COST: %d", cfg.BcryptCost)
	}
	return cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=prod.
func (c Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

func loadDotenv() {
	env := getenv("APP_ENV", "dev")
	if err := godotenv.Load(".env." + env); err == nil {
		return
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring unreadable .env: %v", err)
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
