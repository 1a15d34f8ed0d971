package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/primetime/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 8020,
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	sqlitePath = configVar[string]{
		envKey:       "SERVER_SQLITE_PATH",
		flagKey:      "sqlite-path",
		defaultValue: "primetime.db",
	}
	timecodeIntervalMs = configVar[int]{
		envKey:       "SERVER_TIMECODE_INTERVAL_MS",
		flagKey:      "timecode-interval-ms",
		defaultValue: 500,
	}
	persistTimeoutMs = configVar[int]{
		envKey:       "SERVER_PERSIST_TIMEOUT_MS",
		flagKey:      "persist-timeout-ms",
		defaultValue: 2000,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(sqlitePath.flagKey, sqlitePath.defaultValue, "Path to the sqlite database file")
	pflag.Int(timecodeIntervalMs.flagKey, timecodeIntervalMs.defaultValue, "Timecode broadcast interval in milliseconds")
	pflag.Int(persistTimeoutMs.flagKey, persistTimeoutMs.defaultValue, "Playback state persistence timeout in milliseconds")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(sqlitePath.flagKey, sqlitePath.envKey)
	viper.BindEnv(timecodeIntervalMs.flagKey, timecodeIntervalMs.envKey)
	viper.BindEnv(persistTimeoutMs.flagKey, persistTimeoutMs.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(sqlitePath.flagKey, sqlitePath.defaultValue)
	viper.SetDefault(timecodeIntervalMs.flagKey, timecodeIntervalMs.defaultValue)
	viper.SetDefault(persistTimeoutMs.flagKey, persistTimeoutMs.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		Host:               viper.GetString(host.flagKey),
		Port:               viper.GetInt(port.flagKey),
		LogLevel:           viper.GetString(logLevel.flagKey),
		SqlitePath:         viper.GetString(sqlitePath.flagKey),
		TimecodeIntervalMs: viper.GetInt(timecodeIntervalMs.flagKey),
		PersistTimeoutMs:   viper.GetInt(persistTimeoutMs.flagKey),
		RedisHost:          viper.GetString(redisHost.flagKey),
		RedisPort:          viper.GetInt(redisPort.flagKey),
		RedisPassword:      viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
