package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-materials/pkg/indexer"
	"github.com/mattsolo1/grove-materials/pkg/scanner"
	"github.com/mattsolo1/grove-materials/pkg/watch"
)

// ProjectConfigName is looked up in the project root when --config is not given
const ProjectConfigName = ".materials.yaml"

var cfgFile string

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"root":             "root",
	"source":           "source",
	"output":           "output",
	"catalog":          "catalog",
	"log-level":        "log_level",
	"metrics-textfile": "metrics_textfile",
	"exclude":          "exclude",
	"ext":              "extensions",
	"debounce":         "watch.debounce",
}

func setDefaults() {
	viper.SetDefault("root", ".")
	viper.SetDefault("source", indexer.DefaultSourceDir)
	viper.SetDefault("output", indexer.DefaultOutputPath)
	viper.SetDefault("extensions", scanner.DefaultExtensions)
	viper.SetDefault("exclude_hidden", true)
	viper.SetDefault("exclude", []string{})
	viper.SetDefault("catalog", "")
	viper.SetDefault("metrics_textfile", "")
	viper.SetDefault("watch.debounce", watch.DefaultDebounce)
	viper.SetDefault("log_level", "warn")
}

// BindFlags binds the flags defined on cmd to their configuration keys.
// It must run for the command being executed, after flag parsing.
func BindFlags(cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || bindErr != nil {
			return
		}
		bindErr = viper.BindPFlag(key, f)
	})
	if bindErr != nil {
		return bindErr
	}

	if f := cmd.Flags().Lookup("include-hidden"); f != nil && f.Changed {
		include, err := cmd.Flags().GetBool("include-hidden")
		if err != nil {
			return err
		}
		viper.Set("exclude_hidden", !include)
	}
	return nil
}

// InitConfig loads .env, the config file and MATERIALS_* environment variables
func InitConfig() error {
	setDefaults()

	viper.SetEnvPrefix("MATERIALS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	root := viper.GetString("root")
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	case fileExists(filepath.Join(root, ProjectConfigName)):
		viper.SetConfigFile(filepath.Join(root, ProjectConfigName))
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "materials"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// IndexerConfig builds the indexer configuration from the loaded settings
func IndexerConfig() *indexer.Config {
	return &indexer.Config{
		ProjectRoot:   viper.GetString("root"),
		SourceDir:     viper.GetString("source"),
		OutputPath:    viper.GetString("output"),
		Extensions:    viper.GetStringSlice("extensions"),
		ExcludeHidden: viper.GetBool("exclude_hidden"),
		Exclude:       viper.GetStringSlice("exclude"),
	}
}

// CatalogPath returns the SQLite catalog location, or "" when disabled
func CatalogPath() string {
	return resolve(viper.GetString("catalog"))
}

// MetricsTextfile returns the metrics output location, or "" when disabled
func MetricsTextfile() string {
	return resolve(viper.GetString("metrics_textfile"))
}

// WatchDebounce returns the configured debounce for watch mode
func WatchDebounce() time.Duration {
	return viper.GetDuration("watch.debounce")
}

// NewLogger creates the process logger. Logs go to stderr so stdout stays
// reserved for command output.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = logrus.WarnLevel
		logger.Warnf("unknown log level %q, using warn", viper.GetString("log_level"))
	}
	logger.SetLevel(level)
	return logger
}

// AddGlobalFlags registers flags shared by every command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/.materials.yaml or $HOME/.config/materials/config.yaml)")
	cmd.PersistentFlags().String("root", ".", "Project root; url and id are relative to it")
	cmd.PersistentFlags().String("source", indexer.DefaultSourceDir, "Directory with lecture materials")
	cmd.PersistentFlags().StringP("output", "o", indexer.DefaultOutputPath, "Path of the generated JSON index")
	cmd.PersistentFlags().String("catalog", "", "SQLite catalog mirroring the index (disabled when empty)")
	cmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

// AddIndexFlags registers flags that shape an index run
func AddIndexFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("include-hidden", false, "Index files whose name starts with a dot")
	cmd.Flags().StringSlice("exclude", nil, "Glob of source-relative paths to skip (repeatable, ** supported)")
	cmd.Flags().StringSlice("ext", nil, "Allowed extensions (default: documents, images, media and archives)")
	cmd.Flags().String("metrics-textfile", "", "Write Prometheus metrics to this file after each run")
}

// Reset clears all loaded settings; used by tests
func Reset() {
	viper.Reset()
	cfgFile = ""
}

func resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(viper.GetString("root"), p)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
