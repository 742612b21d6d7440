package config

import (
	"log"

	"github.com/BurntSushi/toml"
)

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type KafkaConfig struct {
	Enabled  bool     `toml:"enabled"`
	Brokers  []string `toml:"brokers"`
	ClientID string   `toml:"clientID"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type SupportConfig struct {
	// Role that qualifies a staff account to own chat sessions.
	AgentRole string `toml:"agentRole"`
	// Cron spec for the duplicate-session sweep, standard 5-field syntax.
	ConsolidationCron string `toml:"consolidationCron"`
}

type Config struct {
	MainConfig    `toml:"mainConfig"`
	MysqlConfig   `toml:"mysqlConfig"`
	JwtConfig     `toml:"jwtConfig"`
	KafkaConfig   `toml:"kafkaConfig"`
	RedisConfig   `toml:"redisConfig"`
	LogConfig     `toml:"logConfig"`
	SupportConfig `toml:"supportConfig"`
}

var config *Config

func LoadConfig() error {
	configPath := "configs/config_local.toml"
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Printf("failed to load config file: %v, falling back to defaults", err)
		return err
	}
	return nil
}

func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
		if config.SupportConfig.AgentRole == "" {
			config.SupportConfig.AgentRole = "support"
		}
	}
	return config
}
