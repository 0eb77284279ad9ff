package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasmlang/batch"
	"github.com/wippyai/wasmlang/catalog"
	"github.com/wippyai/wasmlang/classify"
	"github.com/wippyai/wasmlang/errors"
	"github.com/wippyai/wasmlang/inspect"
)

const (
	appName   = "wasmlang"
	envPrefix = "WASMLANG"
)

// settings is the effective configuration after flags, environment,
// config file and defaults are merged, in that precedence.
type settings struct {
	LogLevel string   `mapstructure:"log_level"`
	Catalog  string   `mapstructure:"catalog"`
	Format   string   `mapstructure:"format"`
	Ext      []string `mapstructure:"ext"`
	Workers  int      `mapstructure:"workers"`
}

func defaultSettings() settings {
	return settings{
		LogLevel: "info",
		Format:   batch.FormatText,
		Ext:      []string{".wasm"},
		Workers:  runtime.NumCPU(),
	}
}

// flagKeys maps viper keys to the flag names that feed them.
var flagKeys = map[string]string{
	"log_level": "log-level",
	"catalog":   "catalog",
	"format":    "format",
	"ext":       "ext",
	"workers":   "workers",
}

// app carries state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	log        *zap.Logger
	classifier *classify.Classifier
	cfgFile    string
	cfg        settings
}

func newApp() *app {
	return &app{v: viper.New(), log: zap.NewNop()}
}

// load resolves settings for cmd and installs the logger.
func (a *app) load(cmd *cobra.Command) error {
	v := a.v
	d := defaultSettings()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("catalog", d.Catalog)
	v.SetDefault("format", d.Format)
	v.SetDefault("ext", d.Ext)
	v.SetDefault("workers", d.Workers)

	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "bind --"+name)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := a.readConfigFile(); err != nil {
		return err
	}

	var cfg settings
	if err := v.Unmarshal(&cfg); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode settings")
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	a.cfg = cfg

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.setLogger(log)

	if used := v.ConfigFileUsed(); used != "" {
		a.log.Debug("config file loaded", zap.String("path", used))
	}
	return nil
}

func (a *app) readConfigFile() error {
	v := a.v
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
		err := v.ReadInConfig()
		if errors.Is(err, fs.ErrNotExist) {
			e := errors.NotFound(errors.PhaseLoad, "config file", a.cfgFile)
			e.Cause = err
			return e
		}
		if err != nil {
			return errors.Load(a.cfgFile, err)
		}
		return nil
	}

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, appName))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "read config file")
	}
	return nil
}

func (s settings) validate() error {
	var errs []error
	if s.Workers < 0 {
		errs = append(errs, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("workers").
			Value(s.Workers).
			Detail("workers must not be negative").
			Build())
	}
	if !slices.Contains([]string{batch.FormatText, batch.FormatCSV, batch.FormatJSON}, s.Format) {
		errs = append(errs, errors.Unsupported(errors.PhaseConfig, []string{"format"}, "output format", s.Format))
	}
	if _, err := zapcore.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("log_level").
			Value(s.LogLevel).
			Cause(err).
			Detail("invalid log level").
			Build())
	}
	return errors.Join(errs...)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil

	log, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "build logger")
	}
	return log, nil
}

func (a *app) setLogger(log *zap.Logger) {
	a.log = log
	batch.SetLogger(log.Named("batch"))
	catalog.SetLogger(log.Named("catalog"))
	inspect.SetLogger(log.Named("inspect"))
}

func (a *app) sync() {
	_ = a.log.Sync()
}

// catalog returns the configured catalog: the --catalog file when set,
// otherwise the built-in one.
func (a *app) catalog() (*catalog.Catalog, error) {
	if a.cfg.Catalog == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(a.cfg.Catalog)
}

func (a *app) getClassifier() (*classify.Classifier, error) {
	if a.classifier != nil {
		return a.classifier, nil
	}
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	c, err := classify.New(cat)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCompile, errors.KindInvalidData, err, "compile catalog")
	}
	a.log.Debug("classifier ready",
		zap.String("catalog", a.cfg.Catalog),
		zap.Int("rules", len(c.Rules())))
	a.classifier = c
	return c, nil
}
