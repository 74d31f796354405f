package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/dragon-hoard/internal/application"
	"github.com/bnema/dragon-hoard/internal/domain"
	"github.com/bnema/dragon-hoard/internal/ports"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	KeyModelName             = "model.name"
	KeyModelBaseURL          = "model.base_url"
	KeyModelTemperature      = "model.temperature"
	KeyModelMaxOutputTokens  = "model.max_output_tokens"
	KeyFactsEnabled          = "facts.enabled"
	KeyFactsTemperature      = "facts.temperature"
	KeyFactsMaxOutputTokens  = "facts.max_output_tokens"
	KeyFactsListKeys         = "facts.list_keys"
	KeyFactsIgnoredKeys      = "facts.ignored_keys"
	KeyMemoryMode            = "memory.mode"
	KeyRelationshipEnabled   = "relationship.enabled"
	KeyGoldModestBelow       = "gold.modest_below"
	KeyGoldGenerousBelow     = "gold.generous_below"
	KeySessionsPath          = "sessions.path"
	KeyScoresPath            = "scores.path"
	KeyPersonaPath           = "persona.path"
	KeyLogLevel              = "log.level"
	KeySecretsDir            = "secrets.dir"
	KeyServeAddr             = "serve.addr"
	envPrefix                = "HOARD"
	configDirName            = ".hoard"
	configFileName           = "config.toml"
	defaultModelName         = "gemini-2.5-flash"
	defaultServeAddr         = "127.0.0.1:8080"
	defaultLogLevel          = "warn"
	defaultScoresFileName    = "scores.db"
	defaultSecretsDirName    = "secrets"
	defaultSessionsFileName  = "sessions.toml"
	defaultTurnTemperature   = 0.9
	defaultTurnMaxTokens     = 200
	defaultFactsTemperature  = 0.7
	defaultFactsMaxTokens    = 300
	defaultModestGoldBelow   = 2000
	defaultGenerousGoldBelow = 5000
)

// Load reads ~/.hoard/config.toml (or path when set), then a .env file in
// the working directory, then HOARD_* environment variables. Missing files
// are not an error.
func Load(path string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, configDirName)

	v := viper.New()
	setDefaults(v, baseDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = filepath.Join(baseDir, configFileName)
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	return v, nil
}

func setDefaults(v *viper.Viper, baseDir string) {
	v.SetDefault(KeyModelName, defaultModelName)
	v.SetDefault(KeyModelBaseURL, "")
	v.SetDefault(KeyModelTemperature, defaultTurnTemperature)
	v.SetDefault(KeyModelMaxOutputTokens, defaultTurnMaxTokens)
	v.SetDefault(KeyFactsEnabled, false)
	v.SetDefault(KeyFactsTemperature, defaultFactsTemperature)
	v.SetDefault(KeyFactsMaxOutputTokens, defaultFactsMaxTokens)
	v.SetDefault(KeyFactsListKeys, domain.DefaultFactPolicy().ListKeys)
	v.SetDefault(KeyFactsIgnoredKeys, domain.DefaultFactPolicy().IgnoredKeys)
	v.SetDefault(KeyMemoryMode, string(domain.MemoryModeTranscript))
	v.SetDefault(KeyRelationshipEnabled, true)
	v.SetDefault(KeyGoldModestBelow, defaultModestGoldBelow)
	v.SetDefault(KeyGoldGenerousBelow, defaultGenerousGoldBelow)
	v.SetDefault(KeySessionsPath, filepath.Join(baseDir, defaultSessionsFileName))
	v.SetDefault(KeyScoresPath, filepath.Join(baseDir, defaultScoresFileName))
	v.SetDefault(KeyPersonaPath, "")
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeySecretsDir, filepath.Join(baseDir, defaultSecretsDirName))
	v.SetDefault(KeyServeAddr, defaultServeAddr)
}

// EngineConfig maps the loaded settings onto an engine configuration for the
// given persona.
func EngineConfig(v *viper.Viper, persona domain.Persona) (application.EngineConfig, error) {
	mode, err := domain.ParseMemoryMode(v.GetString(KeyMemoryMode))
	if err != nil {
		return application.EngineConfig{}, fmt.Errorf("parse %s: %w", KeyMemoryMode, err)
	}

	thresholds := domain.GoldThresholds{
		ModestBelow:   v.GetInt64(KeyGoldModestBelow),
		GenerousBelow: v.GetInt64(KeyGoldGenerousBelow),
	}
	if thresholds.ModestBelow <= 0 || thresholds.GenerousBelow <= thresholds.ModestBelow {
		return application.EngineConfig{}, fmt.Errorf("gold thresholds must satisfy 0 < %s < %s", KeyGoldModestBelow, KeyGoldGenerousBelow)
	}

	return application.EngineConfig{
		Persona:           persona,
		MemoryMode:        mode,
		TrackRelationship: v.GetBool(KeyRelationshipEnabled),
		ExtractFacts:      v.GetBool(KeyFactsEnabled),
		FactPolicy: domain.FactPolicy{
			ListKeys:    v.GetStringSlice(KeyFactsListKeys),
			IgnoredKeys: v.GetStringSlice(KeyFactsIgnoredKeys),
		},
		TurnOptions: ports.GenerateOptions{
			Temperature:     v.GetFloat64(KeyModelTemperature),
			MaxOutputTokens: v.GetInt(KeyModelMaxOutputTokens),
		},
		FactOptions: ports.GenerateOptions{
			Temperature:     v.GetFloat64(KeyFactsTemperature),
			MaxOutputTokens: v.GetInt(KeyFactsMaxOutputTokens),
		},
		GoldThresholds: thresholds,
	}, nil
}

func LogLevel(v *viper.Viper) (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("parse %s: %w", KeyLogLevel, err)
	}
	return level, nil
}
