package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string `env:"ENV" envDefault:"local"`

	Database  DatabaseConfigs  `envPrefix:"DATABASE_"`
	ApiServer APIServerConfigs `envPrefix:"API_SERVER_"`
	Auth      AuthConfigs      `envPrefix:"AUTH_"`
	Redis     RedisConfigs     `envPrefix:"REDIS_"`
	Kafka     KafkaConfigs     `envPrefix:"KAFKA_"`
	Challenge ChallengeConfigs `envPrefix:"CHALLENGE_"`
	Log       LogConfigs       `envPrefix:"LOG_"`
}

type DatabaseConfigs struct {
	// Driver is one of mysql or sqlite.
	Driver      string `env:"DRIVER" envDefault:"mysql"`
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        string `env:"PORT" envDefault:"3306"`
	Database    string `env:"NAME" envDefault:"timechallenge"`
	User        string `env:"USER" envDefault:"mysql"`
	Password    string `env:"PASSWORD" envDefault:"mysql"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"timechallenge.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host string `env:"HOST" envDefault:""`
	Port string `env:"PORT" envDefault:"8080"`

	MaxLimit     int `env:"MAX_LIMIT" envDefault:"100"`
	DefaultLimit int `env:"DEFAULT_LIMIT" envDefault:"50"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func (c APIServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfigs struct {
	TokenSecret string       `env:"TOKEN_SECRET" envDefault:"secret"`
	AccessToken TokenConfigs `envPrefix:"ACCESS_TOKEN_"`
}

type TokenConfigs struct {
	Name       string        `env:"NAME" envDefault:"access_token"`
	Expiration time.Duration `env:"EXPIRATION" envDefault:"24h"`
}

type RedisConfigs struct {
	Addr           string        `env:"ADDR" envDefault:"localhost:6379"`
	Password       string        `env:"PASSWORD" envDefault:""`
	DB             int           `env:"DB" envDefault:"0"`
	PoolSize       int           `env:"POOL_SIZE" envDefault:"10"`
	LeaderboardTTL time.Duration `env:"LEADERBOARD_TTL" envDefault:"1m"`
}

type KafkaConfigs struct {
	Enable       bool     `env:"ENABLE" envDefault:"false"`
	Addrs        []string `env:"ADDRS" envSeparator:"," envDefault:"localhost:9092"`
	AttemptTopic string   `env:"ATTEMPT_TOPIC" envDefault:"attempt"`
	GroupID      string   `env:"GROUP_ID" envDefault:"progression"`
}

type ChallengeConfigs struct {
	// Timezone is the fixed-offset location used to compute reset windows.
	Timezone      string `env:"TIMEZONE" envDefault:"UTC"`
	SubmitRetries int    `env:"SUBMIT_RETRIES" envDefault:"3"`
}

// Location returns the configured location. Only fixed-offset zones are
// accepted; unknown zones and zones observing daylight saving fall back to UTC.
func (c ChallengeConfigs) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || !isFixedOffset(loc, time.Now().Year()) {
		return time.UTC
	}

	return loc
}

func isFixedOffset(loc *time.Location, year int) bool {
	_, winter := time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Zone()
	_, summer := time.Date(year, time.July, 1, 0, 0, 0, 0, loc).Zone()
	return winter == summer
}

type LogConfigs struct {
	Level string `env:"LEVEL" envDefault:"info"`
}
