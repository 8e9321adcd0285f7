package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	o := Default()
	o.Config = filepath.Join(t.TempDir(), "missing.json")

	if err := Load(o); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if o.Addr != "localhost:8080" || o.Storage != StorageFile || o.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", o)
	}
}

func TestLoad_JSONFile(t *testing.T) {
	o := Default()
	o.Config = writeFile(t, "config.json", `{
		"addr": ":9090",
		"storage": "sqlite",
		"sqlite_path": "/tmp/im.db",
		"refresh_interval": "30s",
		"watch": true
	}`)

	if err := Load(o); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if o.Addr != ":9090" || o.Storage != StorageSQLite || o.SQLitePath != "/tmp/im.db" {
		t.Errorf("file values not applied: %+v", o)
	}
	if o.RefreshInterval != 30*time.Second || !o.Watch {
		t.Errorf("RefreshInterval=%v Watch=%v", o.RefreshInterval, o.Watch)
	}
	if o.DataDir != "data" {
		t.Errorf("absent key overwrote DataDir: %q", o.DataDir)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	o := Default()
	o.Config = writeFile(t, "config.yaml", `
storage: mongo
mongo_uri: mongodb://localhost:27017
mongo_database: im_test
log_level: debug
`)

	if err := Load(o); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if o.Storage != StorageMongo || o.MongoURI != "mongodb://localhost:27017" || o.MongoDatabase != "im_test" || o.LogLevel != "debug" {
		t.Errorf("yaml values not applied: %+v", o)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	o := Default()
	path := writeFile(t, "config.json", `{"addr": ":9090", "storage": "memory"}`)
	t.Setenv("CONFIG", path)
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("STORAGE", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost/im?sslmode=disable")
	t.Setenv("REFRESH_INTERVAL", "1m")
	t.Setenv("WATCH", "true")

	if err := Load(o); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if o.Config != path {
		t.Errorf("CONFIG env not used: %q", o.Config)
	}
	if o.Addr != ":7070" || o.Storage != StoragePostgres {
		t.Errorf("env did not override file: %+v", o)
	}
	if o.RefreshInterval != time.Minute || !o.Watch {
		t.Errorf("RefreshInterval=%v Watch=%v", o.RefreshInterval, o.Watch)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content string
		env     map[string]string
		want    string
	}{
		{"bad json", "c.json", `{"addr":`, nil, "parse config file"},
		{"bad yaml", "c.yml", "addr: [", nil, "parse config file"},
		{"bad file duration", "c.json", `{"refresh_interval": "soon"}`, nil, "refresh_interval"},
		{"bad env duration", "", "", map[string]string{"REFRESH_INTERVAL": "soon"}, "REFRESH_INTERVAL"},
		{"bad env bool", "", "", map[string]string{"WATCH": "maybe"}, "WATCH"},
		{"unknown storage", "", "", map[string]string{"STORAGE": "redis"}, "unknown storage"},
		{"postgres without dsn", "", "", map[string]string{"STORAGE": "postgres"}, "database DSN"},
		{"mongo without uri", "", "", map[string]string{"STORAGE": "mongo"}, "MONGO_URI"},
		{"tls half set", "", "", map[string]string{"TLS_CERT": "server.crt"}, "tls cert and key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := Default()
			o.Config = ""
			if tc.file != "" {
				o.Config = writeFile(t, tc.file, tc.content)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			err := Load(o)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %q; want substring %q", err.Error(), tc.want)
			}
		})
	}
}

func TestValidate_NegativeRefresh(t *testing.T) {
	o := Default()
	o.RefreshInterval = -time.Second
	if err := o.Validate(); err == nil {
		t.Error("expected error for negative refresh interval")
	}
}
