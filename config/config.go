package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int    `json:"port" yaml:"port"`
		BaseURL  string `json:"baseUrl" yaml:"baseUrl"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Identity selects which providers the auth facade composes.
	Identity *IdentityConfig `json:"identity" yaml:"identity"`

	// Firebase configuration for the remote identity provider and the
	// document store.
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	GoogleOAuth *GoogleOAuthConfig `json:"googleOAuth" yaml:"googleOAuth"`

	// Session configuration for the signed local session record and the
	// idle watchdog.
	Session *SessionConfig `json:"session" yaml:"session"`

	// LocalStore configuration for the fallback key/value slots.
	LocalStore *LocalStoreConfig `json:"localStore" yaml:"localStore"`

	// Mail configuration for the transactional email transport.
	Mail *MailConfig `json:"mail" yaml:"mail"`

	// PubSub configuration for auth-changed event publishing.
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// RateLimit configuration for login/registration throttling.
	RateLimit *RateLimitConfig `json:"rateLimit" yaml:"rateLimit"`
}

// IdentityConfig selects the identity sources.
type IdentityConfig struct {
	// RemoteEnabled controls whether the Firebase-backed provider is
	// attempted at all; when false every operation goes straight to the
	// local credential store and Google login is unavailable.
	RemoteEnabled bool `json:"remoteEnabled" yaml:"remoteEnabled"`
}

// FirebaseConfig defines the identity provider and document store settings.
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
	// WebAPIKey is the Identity Toolkit browser key used for the
	// password-verification REST call; the Admin SDK cannot check passwords.
	WebAPIKey string `json:"webApiKey" yaml:"webApiKey"`
}

type GoogleOAuthConfig struct {
	ClientID     string `json:"clientId" yaml:"clientId"`
	ClientSecret string `json:"clientSecret" yaml:"clientSecret"`
	RedirectURI  string `json:"redirectUri" yaml:"redirectUri"`
	Scopes       string `json:"scopes" yaml:"scopes"`
}

// SessionConfig defines session and idle-watchdog behavior.
type SessionConfig struct {
	// Secret signs the local session record.
	Secret string `json:"secret" yaml:"secret"`
	// TTLHours is the fixed server-independent session lifetime stamped at
	// login. Defaults to 12.
	TTLHours int `json:"ttlHours" yaml:"ttlHours"`
	// IdleTimeout is the inactivity window before forced logout.
	// Defaults to 30m.
	IdleTimeout time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
}

// LocalStoreConfig locates the fallback slot store on disk.
type LocalStoreConfig struct {
	Path string `json:"path" yaml:"path"`
}

// MailConfig defines the transactional mail transport.
type MailConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	ServiceID string `json:"serviceId" yaml:"serviceId"`
	PublicKey string `json:"publicKey" yaml:"publicKey"`
	Templates struct {
		Contact       string `json:"contact" yaml:"contact"`
		PasswordReset string `json:"passwordReset" yaml:"passwordReset"`
		VerifyEmail   string `json:"verifyEmail" yaml:"verifyEmail"`
	} `json:"templates" yaml:"templates"`
}

// PubSubConfig defines auth-changed event publishing.
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub.
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider).
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider).
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider).
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// RateLimitConfig throttles credential-guessing on the auth endpoints.
type RateLimitConfig struct {
	LoginPerMinute float64 `json:"loginPerMinute" yaml:"loginPerMinute"`
	Burst          int     `json:"burst" yaml:"burst"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf, overlaying environment
// variables whose segments are aligned with the existing YAML keys.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: FIREBASE_WEBAPIKEY -> firebase.webApiKey (not firebase.webapikey)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Session == nil {
		cfg.Session = &SessionConfig{}
	}
	if cfg.Session.TTLHours <= 0 {
		cfg.Session.TTLHours = 12
	}
	if cfg.Session.IdleTimeout <= 0 {
		cfg.Session.IdleTimeout = 30 * time.Minute
	}

	if cfg.LocalStore == nil {
		cfg.LocalStore = &LocalStoreConfig{}
	}
	if cfg.LocalStore.Path == "" {
		cfg.LocalStore.Path = "./data"
	}

	if cfg.RateLimit == nil {
		cfg.RateLimit = &RateLimitConfig{}
	}
	if cfg.RateLimit.LoginPerMinute <= 0 {
		cfg.RateLimit.LoginPerMinute = 10
	}
	if cfg.RateLimit.Burst <= 0 {
		cfg.RateLimit.Burst = 10
	}

	if cfg.GoogleOAuth != nil && cfg.GoogleOAuth.Scopes == "" {
		cfg.GoogleOAuth.Scopes = "openid email profile"
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
