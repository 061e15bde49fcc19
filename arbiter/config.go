package arbiter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mitchellh/mapstructure"

	"github.com/arbiterfs/arbiter/interfaces"
)

const defaultConfigPath = "~/.arbiter/config.json"

// Environment variables naming an alternate config file; the first one
// defined wins.
const (
	envConfigFile = "ARBITER_CONFIG_FILE"
	envConfigPath = "ARBITER_CONFIG_PATH"
)

// Config holds per-backend credential sections. Credentialed drivers are
// registered only for sections that are present and complete.
type Config struct {
	S3      *S3Config    `mapstructure:"s3"`
	Dropbox *TokenConfig `mapstructure:"dropbox"`
	GS      *TokenConfig `mapstructure:"gs"`
}

// S3Config carries a static AWS key pair. The secret key is accepted under
// either "secret" or the legacy "hidden" field name.
type S3Config struct {
	Access string `mapstructure:"access"`
	Secret string `mapstructure:"secret"`
	Hidden string `mapstructure:"hidden"`
}

// SecretKey returns the secret key, preferring the modern field name.
func (c *S3Config) SecretKey() string {
	if c.Secret != "" {
		return c.Secret
	}
	return c.Hidden
}

// Complete reports whether the section carries a usable key pair.
func (c *S3Config) Complete() bool {
	return c != nil && c.Access != "" && c.SecretKey() != ""
}

// TokenConfig carries a single OAuth bearer token.
type TokenConfig struct {
	Token string `mapstructure:"token"`
}

// Complete reports whether the section carries a token.
func (c *TokenConfig) Complete() bool {
	return c != nil && c.Token != ""
}

// configFilePath returns the on-disk config location: the first defined of
// the two override environment variables, else the default path.
func configFilePath() string {
	if p := os.Getenv(envConfigFile); p != "" {
		return p
	}
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return defaultConfigPath
}

// fileReader is the local filesystem collaborator used to read the config
// file; absence of the file is not an error.
type fileReader interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// loadConfig builds the effective configuration from an inline JSON
// document merged with the optional on-disk config file. Inline values take
// precedence over file values on key conflicts.
func loadConfig(ctx context.Context, inline string, files fileReader, log *slog.Logger) (Config, error) {
	inlineMap, err := parseConfigDocument(inline)
	if err != nil {
		return Config{}, fmt.Errorf("%w: inline config: %v", interfaces.ErrInvalidArgument, err)
	}

	fileMap := map[string]any{}
	path, err := ExpandTilde(configFilePath())
	if err == nil {
		if data, getErr := files.Get(ctx, path); getErr == nil {
			fileMap, err = parseConfigDocument(string(data))
			if err != nil {
				return Config{}, fmt.Errorf("%w: config file %s: %v", interfaces.ErrInvalidArgument, path, err)
			}
			log.Debug("Loaded config file", slog.String("path", path))
		}
	}

	var cfg Config
	if err := mapstructure.Decode(mergeConfig(inlineMap, fileMap), &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decoding config: %v", interfaces.ErrInvalidArgument, err)
	}
	return cfg, nil
}

func parseConfigDocument(doc string) (map[string]any, error) {
	if doc == "" {
		return map[string]any{}, nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		return nil, err
	}
	if parsed == nil {
		parsed = map[string]any{}
	}
	return parsed, nil
}

// mergeConfig combines two config documents. Keys present in both recurse
// when both values are objects; otherwise the inline value wins. Pure
// function; neither argument is mutated.
func mergeConfig(inline, file map[string]any) map[string]any {
	merged := make(map[string]any, len(inline)+len(file))
	for key, value := range file {
		merged[key] = value
	}
	for key, value := range inline {
		inlineObj, inlineIsObj := value.(map[string]any)
		fileObj, fileIsObj := merged[key].(map[string]any)
		if inlineIsObj && fileIsObj {
			merged[key] = mergeConfig(inlineObj, fileObj)
			continue
		}
		merged[key] = value
	}
	return merged
}
