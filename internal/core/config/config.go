package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type Supabase struct {
	URL          string
	ServiceKey   string
	LogoBucket   string
	AvatarBucket string
	TimeoutSec   int
}

type Config struct {
	App      App
	Log      Log
	Supabase Supabase
}

func (s Supabase) Timeout() time.Duration {
	if s.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSec) * time.Second
}

// Load reads an optional YAML file (CONFIG_PATH) with APP_* environment
// overrides on top. Upstream credentials come from the keys the hosting
// platform injects (SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY).
func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "dashboard-bff")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8000)
	v.SetDefault("app.http.readtimeoutsec", 15)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("supabase.logobucket", "logos")
	v.SetDefault("supabase.avatarbucket", "avatars")
	v.SetDefault("supabase.timeoutsec", 30)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("read config: %v", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}

	if u := os.Getenv("SUPABASE_URL"); u != "" {
		c.Supabase.URL = u
	}
	if k := os.Getenv("SUPABASE_SERVICE_ROLE_KEY"); k != "" {
		c.Supabase.ServiceKey = k
	}
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		c.App.HTTP.Port = p
	}
	return &c
}

// Warnings lists startup problems that are deliberately non-fatal: the
// original deployment boots without upstream credentials and every request
// then fails upstream with 401. Kept observable in logs rather than fixed.
func (c *Config) Warnings() []string {
	var w []string
	if c.Supabase.URL == "" {
		w = append(w, "SUPABASE_URL is not set; upstream calls will fail")
	}
	if c.Supabase.ServiceKey == "" {
		w = append(w, "SUPABASE_SERVICE_ROLE_KEY is not set; upstream will reject every call")
	}
	return w
}
