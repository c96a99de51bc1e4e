package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		ShutdownTimeout time.Duration
	}

	APIConfig struct {
		BaseURL string
		Timeout time.Duration
	}

	Config struct {
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string
		DateFormat   string
		ResetPolicy  string // always | success
		SessionTTL   time.Duration
		DevAPIAddr   string

		Server ServerConfig
		API    APIConfig
	}
)

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the upper-cased ENV, eg. DEV_API_BASEURL.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Happy Fox")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "k3y-h4ppy-f0x$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("dateFormat", "02 Jan 2006 15:04")
	v.SetDefault("form.resetPolicy", "always")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("devapi.address", ":8001")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("api.baseURL", "http://localhost:8001")
	v.SetDefault("api.timeout", 30*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		DateFormat:   v.GetString("dateFormat"),
		ResetPolicy:  v.GetString("form.resetPolicy"),
		SessionTTL:   v.GetDuration("session.ttl"),
		DevAPIAddr:   v.GetString("devapi.address"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		API: APIConfig{
			BaseURL: v.GetString("api.baseURL"),
			Timeout: v.GetDuration("api.timeout"),
		},
	}
}
