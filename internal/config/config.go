package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
// It is built once at startup and passed by reference to the components that
// need it.
type Config struct {
	Server struct {
		Addr       string
		CORSOrigin string
	}
	Database struct {
		Path string
	}
	Upload struct {
		TempDir  string
		MaxBytes int64
	}
	Storage struct {
		Bucket        string
		KeyPrefix     string
		Region        string
		Endpoint      string
		PublicBaseURL string
	}
	AWS struct {
		Profile string
	}
	Auth struct {
		AccessTokenSecret  string
		RefreshTokenSecret string
		AccessTokenTTLMin  int
		RefreshTokenTTLDay int
		CookieSecure       bool
	}
	RateLimit struct {
		LoginPerMinute int
		Burst          int
	}
}

// AccessTokenTTL returns the access token lifetime as a duration.
func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenTTLMin) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime as a duration.
func (c Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTokenTTLDay) * 24 * time.Hour
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("VIEWTUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("server.corsorigin", "*")
	v.SetDefault("database.path", "data/viewtube.db")
	v.SetDefault("upload.tempdir", "data/tmp")
	v.SetDefault("upload.maxbytes", int64(5<<20))
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "media")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.publicbaseurl", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("auth.accesstokensecret", "")
	v.SetDefault("auth.refreshtokensecret", "")
	v.SetDefault("auth.accesstokenttlmin", 60)
	v.SetDefault("auth.refreshtokenttlday", 10)
	v.SetDefault("auth.cookiesecure", false)
	v.SetDefault("ratelimit.loginperminute", 10)
	v.SetDefault("ratelimit.burst", 5)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
