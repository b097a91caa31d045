package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BrokerRabbitMQ = "rabbitmq"
	BrokerKafka    = "kafka"
	BrokerNone     = "none"
)

type Config struct {
	DB       *DBconfig        `yaml:"db"`
	RabbitMq *RabbitMqconfig  `yaml:"rabbitmq"`
	Kafka    *Kafkaconfig     `yaml:"kafka"`
	Broker   *Brokerconfig    `yaml:"broker"`
	WS       *WebSocketconfig `yaml:"websocket"`
	Srv      *Serviceconfig   `yaml:"services"`
	Log      *Loggerconfig    `yaml:"log"`
	App      *Appconfig       `yaml:"app"`
}

type DBconfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	MaxConns   int    `yaml:"max_conns"`
	MaxRetries int    `yaml:"max_retries"`
}

type RabbitMqconfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
	Exchange string `yaml:"exchange"`
}

type Kafkaconfig struct {
	Brokers string `yaml:"brokers"`
	Topic   string `yaml:"topic"`
}

// Brokerconfig selects where ride events are published.
type Brokerconfig struct {
	Kind string `yaml:"kind"`
}

type WebSocketconfig struct {
	AuthTimeout time.Duration `yaml:"auth_timeout"`
	PingPeriod  time.Duration `yaml:"ping_period"`
}

type Serviceconfig struct {
	RideServicePort string `yaml:"ride_service"`
}

type Loggerconfig struct {
	Level string `yaml:"level"`
}

type Appconfig struct {
	JwtSecret        string        `yaml:"jwt_secret"`
	TokenTTL         time.Duration `yaml:"token_ttl"`
	BcryptCost       int           `yaml:"bcrypt_cost"`
	PermissiveStatus bool          `yaml:"permissive_status"`
}

// New builds the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}

	getEnv := func(key, def string) string {
		val := os.Getenv(key)
		if val == "" {
			fmt.Printf("using default key %v=%v\n", key, def)
			return def
		}
		return val
	}

	getEnvInt := func(key string, def int) int {
		valStr := os.Getenv(key)
		if valStr == "" {
			fmt.Printf("using default key %v=%v\n", key, def)
			return def
		}
		val, err := strconv.Atoi(valStr)
		if err != nil {
			fmt.Printf("cannot use atoi for %v, using default key %v\n", key, def)
			return def
		}
		return val
	}

	getEnvBool := func(key string, def bool) bool {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := strconv.ParseBool(valStr)
		if err != nil {
			fmt.Printf("cannot parse bool for %v, using default key %v\n", key, def)
			return def
		}
		return val
	}

	getEnvDuration := func(key string, def time.Duration) time.Duration {
		valStr := os.Getenv(key)
		if valStr == "" {
			return def
		}
		val, err := time.ParseDuration(valStr)
		if err != nil {
			fmt.Printf("cannot parse duration for %v, using default key %v\n", key, def)
			return def
		}
		return val
	}

	cnf := &Config{
		DB: &DBconfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "ridebooking_user"),
			Password:   getEnv("DB_PASSWORD", "ridebooking_pass"),
			Database:   getEnv("DB_NAME", "ridebooking_db"),
			MaxConns:   getEnvInt("DB_MAX_CONNS", 10),
			MaxRetries: getEnvInt("DB_MAX_RETRIES", 5),
		},
		RabbitMq: &RabbitMqconfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnvInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "ride_topic"),
		},
		Kafka: &Kafkaconfig{
			Brokers: getEnv("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getEnv("KAFKA_TOPIC", "ride-events"),
		},
		Broker: &Brokerconfig{
			Kind: strings.ToLower(getEnv("BROKER_KIND", BrokerRabbitMQ)),
		},
		WS: &WebSocketconfig{
			AuthTimeout: getEnvDuration("WS_AUTH_TIMEOUT", 5*time.Second),
			PingPeriod:  getEnvDuration("WS_PING_PERIOD", 30*time.Second),
		},
		Srv: &Serviceconfig{
			RideServicePort: getEnv("RIDE_SERVICE_PORT", "5000"),
		},
		Log: &Loggerconfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		App: &Appconfig{
			JwtSecret:        getEnv("JWT_SECRET", "change-me"),
			TokenTTL:         getEnvDuration("JWT_TTL", time.Hour),
			BcryptCost:       getEnvInt("BCRYPT_COST", 10),
			PermissiveStatus: getEnvBool("RIDE_PERMISSIVE_STATUS", false),
		},
	}

	return cnf, cnf.Validate()
}

// NewFromYAML reads the configuration from a YAML file. Sections missing from
// the file fall back to the environment defaults.
func NewFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cnf, err := New()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cnf); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	cnf.Broker.Kind = strings.ToLower(cnf.Broker.Kind)

	return cnf, cnf.Validate()
}

func (c *Config) Validate() error {
	if c.DB == nil || c.Srv == nil || c.App == nil || c.Broker == nil {
		return errors.New("incomplete configuration")
	}
	switch c.Broker.Kind {
	case BrokerRabbitMQ, BrokerKafka, BrokerNone:
	default:
		return fmt.Errorf("unknown broker kind %q", c.Broker.Kind)
	}
	if c.App.JwtSecret == "" {
		return errors.New("jwt secret is empty")
	}
	if c.App.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	return nil
}

// DSN is the pgx connection string for the database section.
func (d *DBconfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%v:%v@%v:%v/%v?sslmode=disable&pool_max_conns=%d",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
		d.MaxConns,
	)
}
