package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of every environment variable read by this package.
const EnvPrefix = "HOMENET_"

// LoadDotEnv loads environment variables from path. A missing file is
// silently ignored so that .env files remain optional. Variables already
// set in the process environment are not overwritten.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the target blocks.
// Environment variables follow the pattern: HOMENET_TARGET_KEY
//
// A block that is absent from the settings file is created when at least one
// of its variables is set, so credentials can live entirely in the environment.
func applyEnvOverrides(t *Targets) {
	// Home automation server
	if url, user, pass := getenv("HOMEAUTOMATION_URL"), getenv("HOMEAUTOMATION_USER"), getenv("HOMEAUTOMATION_PASSWORD"); url != "" || user != "" || pass != "" {
		if t.HomeAutomationServerConfig == nil {
			t.HomeAutomationServerConfig = &HomeAutomationServerConfig{Timeout: defaultTimeoutSeconds}
		}
		setIfPresent(&t.HomeAutomationServerConfig.URL, url)
		setIfPresent(&t.HomeAutomationServerConfig.User, user)
		setIfPresent(&t.HomeAutomationServerConfig.Password, pass)
	}

	// MQTT
	if url, user, pass := getenv("MQTT_URL"), getenv("MQTT_USER"), getenv("MQTT_PASSWORD"); url != "" || user != "" || pass != "" {
		if t.MqttBrokerConfig == nil {
			t.MqttBrokerConfig = &MqttBrokerConfig{Timeout: defaultTimeoutSeconds}
		}
		setIfPresent(&t.MqttBrokerConfig.URL, url)
		setIfPresent(&t.MqttBrokerConfig.User, user)
		setIfPresent(&t.MqttBrokerConfig.Password, pass)
	}

	// InfluxDB
	url, token, org, bucket := getenv("INFLUXDB_URL"), getenv("INFLUXDB_TOKEN"), getenv("INFLUXDB_ORG"), getenv("INFLUXDB_BUCKET")
	if url != "" || token != "" || org != "" || bucket != "" {
		if t.InfluxDBConfig == nil {
			t.InfluxDBConfig = &InfluxDBConfig{Timeout: defaultTimeoutSeconds}
		}
		setIfPresent(&t.InfluxDBConfig.URL, url)
		setIfPresent(&t.InfluxDBConfig.Token, token)
		setIfPresent(&t.InfluxDBConfig.Org, org)
		setIfPresent(&t.InfluxDBConfig.Bucket, bucket)
	}
}

// defaultTimeoutSeconds is used for target blocks created from the environment.
const defaultTimeoutSeconds = 10

func getenv(key string) string {
	return os.Getenv(EnvPrefix + key)
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
