package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type JWTConfig struct {
	AccessSecret  string `yaml:"access_secret"`
	RefreshSecret string `yaml:"refresh_secret"`
}

// DutyConfig 每类值日的名额常数
type DutyConfig struct {
	LockerCapacity int `yaml:"locker_capacity"`
	WashCapacity   int `yaml:"wash_capacity"`
}

type Config struct {
	Addr  string      `yaml:"addr"`
	MySQL MySQLConfig `yaml:"mysql"`
	Redis RedisConfig `yaml:"redis"`
	Kafka KafkaConfig `yaml:"kafka"`
	SMTP  SMTPConfig  `yaml:"smtp"`
	JWT   JWTConfig   `yaml:"jwt"`
	Duty  DutyConfig  `yaml:"duty"`
}

// Load 读取 yaml 配置，缺省值就地补齐
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Duty.LockerCapacity <= 0 {
		c.Duty.LockerCapacity = 3
	}
	if c.Duty.WashCapacity <= 0 {
		c.Duty.WashCapacity = 1
	}
}
