// Package config resolves the upgrade engine's options from built-in
// defaults, an optional .loko.yaml config file and LOKO_-prefixed
// environment variables, in that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	log "github.com/bojanraic/loko/pkg/log"
)

// Default option values.
const (
	// DefaultWorkers is the fetch worker-pool size.
	DefaultWorkers = 5
	// DefaultHTTPTimeout bounds each registry request so a hung fetch cannot
	// stall the upgrade run's join point.
	DefaultHTTPTimeout = 10 * time.Second
	// DefaultBackupSuffix is inserted between the config file's stem and
	// extension to name the pre-upgrade backup: loko.yaml -> loko-prev.yaml.
	DefaultBackupSuffix = "-prev"
	// DefaultDockerHubURL is the registry API queried for image tags.
	DefaultDockerHubURL = "https://hub.docker.com"
)

// Viper keys, all under the upgrade section of .loko.yaml.
const (
	keyWorkers      = "upgrade.workers"
	keyHTTPTimeout  = "upgrade.http-timeout"
	keyBackupSuffix = "upgrade.backup-suffix"
	keyDockerHubURL = "upgrade.dockerhub-url"
	keyMappingsFile = "upgrade.mappings-file"
)

// configName is the config file looked up in the working directory when no
// explicit path is given (resolves to .loko.yaml).
const configName = ".loko"

// Options holds the resolved engine settings.
type Options struct {
	// Workers is the number of concurrent fetch workers.
	Workers int
	// HTTPTimeout is the per-request timeout for registry calls.
	HTTPTimeout time.Duration
	// BackupSuffix names the backup sibling written before a rewrite.
	BackupSuffix string
	// DockerHubURL is the base URL of the Docker Hub API.
	DockerHubURL string
	// MappingsFile optionally points at a user chart-to-repository mappings
	// file layered over the built-in table.
	MappingsFile string
}

// Defaults returns the built-in options.
func Defaults() Options {
	return Options{
		Workers:      DefaultWorkers,
		HTTPTimeout:  DefaultHTTPTimeout,
		BackupSuffix: DefaultBackupSuffix,
		DockerHubURL: DefaultDockerHubURL,
	}
}

// Load resolves Options against fs. When explicitPath is non-empty the file
// must exist and parse; otherwise .loko.yaml in the working directory is
// read if present and silently skipped if not. LOKO_* environment variables
// (LOKO_UPGRADE_WORKERS, LOKO_UPGRADE_HTTP_TIMEOUT, ...) override both.
// Out-of-range values fall back to their defaults with a warning rather
// than failing the run.
func Load(fs afero.Fs, explicitPath string) (Options, error) {
	v := viper.New()
	v.SetFs(fs)

	defaults := Defaults()
	v.SetDefault(keyWorkers, defaults.Workers)
	v.SetDefault(keyHTTPTimeout, defaults.HTTPTimeout)
	v.SetDefault(keyBackupSuffix, defaults.BackupSuffix)
	v.SetDefault(keyDockerHubURL, defaults.DockerHubURL)
	v.SetDefault(keyMappingsFile, "")

	v.SetEnvPrefix("LOKO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		if err := v.ReadInConfig(); err != nil {
			return Options{}, WrapConfigRead(explicitPath, err)
		}
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return Options{}, WrapConfigRead(configName+".yaml", err)
			}
		}
	}

	opts := Options{
		Workers:      v.GetInt(keyWorkers),
		HTTPTimeout:  v.GetDuration(keyHTTPTimeout),
		BackupSuffix: v.GetString(keyBackupSuffix),
		DockerHubURL: strings.TrimRight(v.GetString(keyDockerHubURL), "/"),
		MappingsFile: v.GetString(keyMappingsFile),
	}
	opts.sanitize()
	return opts, nil
}

// sanitize falls back to defaults for values that cannot drive the engine,
// warning so a typo in the config file is visible.
func (o *Options) sanitize() {
	if o.Workers <= 0 {
		log.Warn("invalid worker count, using default", "workers", o.Workers, "default", DefaultWorkers)
		o.Workers = DefaultWorkers
	}
	if o.HTTPTimeout <= 0 {
		log.Warn("invalid http timeout, using default", "timeout", o.HTTPTimeout, "default", DefaultHTTPTimeout)
		o.HTTPTimeout = DefaultHTTPTimeout
	}
	if o.BackupSuffix == "" {
		log.Warn("empty backup suffix, using default", "default", DefaultBackupSuffix)
		o.BackupSuffix = DefaultBackupSuffix
	}
	if o.DockerHubURL == "" {
		o.DockerHubURL = DefaultDockerHubURL
	}
}

// WrapConfigRead wraps a config file read or parse failure with its path.
func WrapConfigRead(path string, err error) error {
	return fmt.Errorf("failed to read config file %s: %w", path, err)
}
