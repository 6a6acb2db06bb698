package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"breakd/internal/structures"

	"github.com/spf13/viper"
)

const AppName = "BreakDaemon"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "BREAKD_LOG_LEVEL")
	viper.BindEnv("webServer.port", "BREAKD_PORT")
	viper.BindEnv("persistence.saveInterval", "BREAKD_SAVE_INTERVAL")
	viper.BindEnv("scheduler.defaultBreakInterval", "BREAKD_BREAK_INTERVAL")
	viper.BindEnv("cache.enabled", "BREAKD_CACHE_ENABLED")
	viper.BindEnv("metrics.enabled", "BREAKD_METRICS_ENABLED")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}
	conf.ApplyDefaults()

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
