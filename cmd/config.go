package cmd

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"makemod.dev/pkg/makemod/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "makemod"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	chdirFlagName   = "chdir"
	verboseFlagName = "verbose"
	logFileFlagName = "log-file"
	summaryFlagName = "summary"

	beginMarkerKey   = "markers.begin"
	endMarkerKey     = "markers.end"
	makefileKey      = "hosts.makefile"
	configureKey     = "hosts.configure"
	excludeKey       = "patterns.exclude"
	includeKey       = "patterns.include"
	stalePatternKey  = "patterns.stale"
	unitTestDirKey   = "tests.dir"
	testHarnessKey   = "tests.harness"
	binaryPrefixKey  = "tests.binary_prefix"
	wrapperPrefixKey = "tests.wrapper_prefix"
	extraDistKey     = "tests.extra_dist"
	summaryFileKey   = "summary.file"

	defaultSummaryFile = ".makemod-summary.yaml"

	envPrefix = "MAKEMOD"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".makemod.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	def := model.DefaultConfig()

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(beginMarkerKey, def.BeginMarker)
	viper.SetDefault(endMarkerKey, def.EndMarker)
	viper.SetDefault(makefileKey, string(def.MakefileAM))
	viper.SetDefault(configureKey, string(def.ConfigureAC))
	viper.SetDefault(includeKey, def.DefaultInclude)
	viper.SetDefault(excludeKey, def.DefaultExclude)
	viper.SetDefault(stalePatternKey, def.StalePattern)
	viper.SetDefault(unitTestDirKey, string(def.UnitTestDir))
	viper.SetDefault(testHarnessKey, def.TestHarness)
	viper.SetDefault(binaryPrefixKey, def.TestBinaryPrefix)
	viper.SetDefault(wrapperPrefixKey, def.WrapperPrefix)
	viper.SetDefault(extraDistKey, def.ExtraDistGlobs)
	viper.SetDefault(summaryFileKey, defaultSummaryFile)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// reloadConfig re-reads makemod.yaml relative to the current working
// directory, for use after --chdir has moved the process.
func reloadConfig() {
	// A missing file is fine; defaults and any earlier config stand.
	_ = viper.ReadInConfig()
}

// buildConfig assembles the generation configuration: the CASM layout
// defaults overlaid with whatever config/env/flags changed.
func buildConfig() model.Config {
	cfg := model.DefaultConfig()

	cfg.BeginMarker = viper.GetString(beginMarkerKey)
	cfg.EndMarker = viper.GetString(endMarkerKey)
	cfg.MakefileAM = model.Path(viper.GetString(makefileKey))
	cfg.ConfigureAC = model.Path(viper.GetString(configureKey))
	cfg.DefaultInclude = viper.GetString(includeKey)
	cfg.DefaultExclude = viper.GetString(excludeKey)
	cfg.StalePattern = viper.GetString(stalePatternKey)
	cfg.UnitTestDir = model.Path(viper.GetString(unitTestDirKey))
	cfg.TestHarness = viper.GetString(testHarnessKey)
	cfg.TestBinaryPrefix = viper.GetString(binaryPrefixKey)
	cfg.WrapperPrefix = viper.GetString(wrapperPrefixKey)
	cfg.ExtraDistGlobs = viper.GetStringSlice(extraDistKey)

	return cfg
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
