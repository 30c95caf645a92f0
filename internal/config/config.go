package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	LogMode     string `env:"LOG_MODE"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	Locale      string `env:"LOCALE"`
	Timezone    string `env:"TIMEZONE"`
	DueSoonDays int    `env:"DUE_SOON_DAYS" envDefault:"-1"`

	// Reminder settings
	ReminderHour         int           `env:"REMINDER_HOUR" envDefault:"-1"`
	ReminderFollowUpDays int           `env:"REMINDER_FOLLOWUP_DAYS"`
	ReminderPoll         time.Duration `env:"REMINDER_POLL"`
	NotificationsEnabled bool          `env:"NOTIFICATIONS_ENABLED" envDefault:"true"`
	Notifier             string        `env:"NOTIFIER"`
	KafkaBrokers         []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic           string        `env:"KAFKA_TOPIC"`

	// Client-side settings
	ServerURL    string `env:"-"`
	ClientDBPath string `env:"CLIENT_DB_PATH"`
	Verbose      bool   `env:"-"` // подробный лог CLI (flag only)
	Version      bool   `env:"-"` // show client version and exit (flag only)
}

// Значения по умолчанию.
const (
	DefaultBaseURL          = "localhost:8081"
	DefaultDueSoonDays      = 3
	DefaultReminderHour     = 10
	DefaultFollowUpDays     = 7
	DefaultReminderPoll     = time.Minute
	DefaultKafkaTopic       = "lendit.reminders"
	DefaultLocale           = "en"
	NotifierLog             = "log"
	NotifierKafka           = "kafka"
	defaultAuthSecret       = "dev-secret-key"
	defaultClientDBFileName = "lendit.db"
)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.ParseWithFuncs(cfg, lenientParsers)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (путь к SQLite или postgres:// DSN)")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.LogMode, "log-mode", cfg.LogMode, "development|production")
	// Shared flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the LendIt server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS scheme for ServerURL")
	flag.StringVar(&cfg.Locale, "locale", cfg.Locale, "язык интерфейса и сортировки: en|fr|de|es|nl")
	flag.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "часовой пояс для напоминаний (IANA), по умолчанию Local")
	flag.IntVar(&cfg.DueSoonDays, "due-soon-days", cfg.DueSoonDays, "окно статуса due_soon в днях")
	flag.IntVar(&cfg.ReminderHour, "reminder-hour", cfg.ReminderHour, "час доставки напоминаний")
	flag.StringVar(&cfg.Notifier, "notifier", cfg.Notifier, "доставка напоминаний: log|kafka")
	// Client flags
	flag.StringVar(&cfg.ClientDBPath, "client-db", cfg.ClientDBPath, "path to client SQLite DB")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "verbose logging")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()
	return cfg
}

// lenientParsers не дают нечисловому значению превратиться в 0:
// число -1 (или нулевая длительность) дальше заменяется значением по умолчанию.
var lenientParsers = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(0): func(v string) (interface{}, error) {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return -1, nil
		}
		return n, nil
	},
	reflect.TypeOf(time.Duration(0)): func(v string) (interface{}, error) {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return time.Duration(0), nil
		}
		return d, nil
	},
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = defaultAuthSecret
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	if cfg.DueSoonDays < 0 {
		cfg.DueSoonDays = DefaultDueSoonDays
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		cfg.ReminderHour = DefaultReminderHour
	}
	if cfg.ReminderFollowUpDays <= 0 {
		cfg.ReminderFollowUpDays = DefaultFollowUpDays
	}
	if cfg.ReminderPoll <= 0 {
		cfg.ReminderPoll = DefaultReminderPoll
	}
	cfg.Notifier = strings.ToLower(strings.TrimSpace(cfg.Notifier))
	if cfg.Notifier != NotifierKafka {
		cfg.Notifier = NotifierLog
	}
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = DefaultKafkaTopic
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.LogMode == "" {
		cfg.LogMode = "development"
	}

	// Fill client defaults if empty
	if cfg.ClientDBPath == "" {
		home, _ := os.UserHomeDir()
		cfg.ClientDBPath = filepath.Join(home, defaultClientDBFileName)
	}
	// Сервер без явного DSN работает с той же локальной базой
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = cfg.ClientDBPath
	}
}

// Location возвращает часовой пояс напоминаний; при ошибке — time.Local.
func (cfg *Config) Location() *time.Location {
	if cfg.Timezone == "" || strings.EqualFold(cfg.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// FollowUpInterval — шаг повторных напоминаний.
func (cfg *Config) FollowUpInterval() time.Duration {
	return time.Duration(cfg.ReminderFollowUpDays) * 24 * time.Hour
}
