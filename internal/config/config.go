// Package config provides functionality for managing configuration options
// for the application using command-line flags, a config file and environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends selectable with -storage.
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// Storage selects the blob store backend.
	Storage string
	// DataDir is the directory of the file backend.
	DataDir string
	// DatabaseDSN is the PostgreSQL connection URL.
	DatabaseDSN string
	// SQLitePath is the SQLite database file.
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	// SecretKey, when set, seals every stored blob with AES-GCM.
	SecretKey string

	LogLevel string

	// RefreshInterval is how often database backends are re-read. Zero disables it.
	RefreshInterval time.Duration
	// Watch enables reloading when files in DataDir change.
	Watch bool

	TLSCert string
	TLSKey  string

	// Config is the path to the Config file.
	Config string
}

// fileOptions is the config file layout. Absent keys keep their current value.
type fileOptions struct {
	Addr            *string `json:"addr" yaml:"addr"`
	Storage         *string `json:"storage" yaml:"storage"`
	DataDir         *string `json:"data_dir" yaml:"data_dir"`
	DatabaseDSN     *string `json:"database_dsn" yaml:"database_dsn"`
	SQLitePath      *string `json:"sqlite_path" yaml:"sqlite_path"`
	MongoURI        *string `json:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase   *string `json:"mongo_database" yaml:"mongo_database"`
	SecretKey       *string `json:"secret_key" yaml:"secret_key"`
	LogLevel        *string `json:"log_level" yaml:"log_level"`
	RefreshInterval *string `json:"refresh_interval" yaml:"refresh_interval"`
	Watch           *bool   `json:"watch" yaml:"watch"`
	TLSCert         *string `json:"tls_cert" yaml:"tls_cert"`
	TLSKey          *string `json:"tls_key" yaml:"tls_key"`
}

// options holds the current configuration values.
var options = Default()

// Default returns the built-in defaults.
func Default() *Options {
	return &Options{
		Addr:          "localhost:8080",
		Storage:       StorageFile,
		DataDir:       "data",
		SQLitePath:    filepath.Join("data", "impactmatch.db"),
		MongoDatabase: "impactmatch",
		LogLevel:      "info",
		Config:        "config.json",
	}
}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", options.Addr, "run on ip:port server")
	flag.StringVar(&options.Storage, "storage", options.Storage, "storage backend: file | memory | sqlite | postgres | mongo")
	flag.StringVar(&options.DataDir, "data", options.DataDir, "data directory of the file backend")
	flag.StringVar(&options.DatabaseDSN, "d", "", "postgres connection URL")
	flag.StringVar(&options.SQLitePath, "sqlite", options.SQLitePath, "sqlite database path")
	flag.StringVar(&options.MongoURI, "mongo", "", "mongodb connection URI")
	flag.StringVar(&options.SecretKey, "secret", "", "encrypt stored data with this key")
	flag.StringVar(&options.LogLevel, "log-level", options.LogLevel, "log level: debug | info | warn | error")
	flag.DurationVar(&options.RefreshInterval, "refresh", 0, "reload interval for database backends (0 disables)")
	flag.BoolVar(&options.Watch, "watch", false, "reload when files in the data directory change")
	flag.StringVar(&options.TLSCert, "tls-cert", "", "path to TLS certificate")
	flag.StringVar(&options.TLSKey, "tls-key", "", "path to TLS key")
	flag.StringVar(&options.Config, "config", options.Config, "path to config file")
	flag.StringVar(&options.Config, "c", options.Config, "path to config file (shorthand)")
}

// Parse parses the command-line flags, the config file and environment variables
// to set configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	if err := Load(options); err != nil {
		log.Fatalf("error while loading config: %v", err)
	}
	return options
}

// Load applies the config file and then environment variables on top of o,
// and validates the result. A missing config file is not an error.
func Load(o *Options) error {
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		if _, err := os.Stat(o.Config); err == nil {
			data, err := os.ReadFile(o.Config)
			if err != nil {
				return fmt.Errorf("read config file: %w", err)
			}
			if err := applyFile(o, o.Config, data); err != nil {
				return fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := applyEnv(o); err != nil {
		return err
	}
	return o.Validate()
}

func applyFile(o *Options, path string, data []byte) error {
	var f fileOptions
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return err
		}
	default:
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
	}

	setString(&o.Addr, f.Addr)
	setString(&o.Storage, f.Storage)
	setString(&o.DataDir, f.DataDir)
	setString(&o.DatabaseDSN, f.DatabaseDSN)
	setString(&o.SQLitePath, f.SQLitePath)
	setString(&o.MongoURI, f.MongoURI)
	setString(&o.MongoDatabase, f.MongoDatabase)
	setString(&o.SecretKey, f.SecretKey)
	setString(&o.LogLevel, f.LogLevel)
	setString(&o.TLSCert, f.TLSCert)
	setString(&o.TLSKey, f.TLSKey)
	if f.Watch != nil {
		o.Watch = *f.Watch
	}
	if f.RefreshInterval != nil {
		d, err := time.ParseDuration(*f.RefreshInterval)
		if err != nil {
			return fmt.Errorf("refresh_interval: %w", err)
		}
		o.RefreshInterval = d
	}
	return nil
}

func applyEnv(o *Options) error {
	envStrings := map[string]*string{
		"SERVER_ADDRESS": &o.Addr,
		"STORAGE":        &o.Storage,
		"DATA_DIR":       &o.DataDir,
		"DATABASE_DSN":   &o.DatabaseDSN,
		"SQLITE_PATH":    &o.SQLitePath,
		"MONGO_URI":      &o.MongoURI,
		"MONGO_DATABASE": &o.MongoDatabase,
		"SECRET_KEY":     &o.SecretKey,
		"LOG_LEVEL":      &o.LogLevel,
		"TLS_CERT":       &o.TLSCert,
		"TLS_KEY":        &o.TLSKey,
	}
	for name, dst := range envStrings {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REFRESH_INTERVAL: %w", err)
		}
		o.RefreshInterval = d
	}
	if v := os.Getenv("WATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WATCH: %w", err)
		}
		o.Watch = b
	}
	return nil
}

// Validate reports inconsistent option combinations.
func (o *Options) Validate() error {
	switch o.Storage {
	case StorageFile, StorageMemory, StorageSQLite:
	case StoragePostgres:
		if o.DatabaseDSN == "" {
			return errors.New("postgres storage needs a database DSN (-d or DATABASE_DSN)")
		}
	case StorageMongo:
		if o.MongoURI == "" {
			return errors.New("mongo storage needs MONGO_URI")
		}
	default:
		return fmt.Errorf("unknown storage %q", o.Storage)
	}
	if (o.TLSCert == "") != (o.TLSKey == "") {
		return errors.New("tls cert and key must be set together")
	}
	if o.RefreshInterval < 0 {
		return errors.New("refresh interval must not be negative")
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
