package config

import (
	"fmt"
	"strings"
	"time"
)

// Targets holds the optional outbound target blocks of a settings file.
// Embed it in an application settings struct; the JSON keys stay at the
// top level of the file.
type Targets struct {
	HomeAutomationServerConfig *HomeAutomationServerConfig `json:"HomeAutomationServerConfig,omitempty"`
	MqttBrokerConfig           *MqttBrokerConfig           `json:"MqttBrokerConfig,omitempty"`
	InfluxDBConfig             *InfluxDBConfig             `json:"InfluxDBConfig,omitempty"`
}

// OutboundTargets returns the embedded target blocks.
// The pointer receiver lets Manager apply environment overrides in place.
func (t *Targets) OutboundTargets() *Targets {
	return t
}

// HomeAutomationServerConfig contains the home automation server connection.
type HomeAutomationServerConfig struct {
	URL      string `json:"Url"`
	User     string `json:"User"`
	Password string `json:"Password"`
	Timeout  int    `json:"Timeout"` // seconds
}

// IsConfigured reports whether every connection field is populated.
// A nil config is never configured.
func (c *HomeAutomationServerConfig) IsConfigured() bool {
	return c != nil &&
		notBlank(c.URL) &&
		notBlank(c.User) &&
		notBlank(c.Password) &&
		c.Timeout > 0
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *HomeAutomationServerConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// String describes the target without revealing the password.
func (c *HomeAutomationServerConfig) String() string {
	if !c.IsConfigured() {
		return "Not configured"
	}
	return fmt.Sprintf("%s / %s / %s", c.URL, c.User, maskedSecret)
}

// MqttBrokerConfig contains the MQTT broker connection.
type MqttBrokerConfig struct {
	URL      string `json:"Url"`
	User     string `json:"User"`
	Password string `json:"Password"`
	Timeout  int    `json:"Timeout"` // seconds
}

// IsConfigured reports whether every connection field is populated.
// A nil config is never configured.
func (c *MqttBrokerConfig) IsConfigured() bool {
	return c != nil &&
		notBlank(c.URL) &&
		notBlank(c.User) &&
		notBlank(c.Password) &&
		c.Timeout > 0
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *MqttBrokerConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// String describes the target without revealing the password.
func (c *MqttBrokerConfig) String() string {
	if !c.IsConfigured() {
		return "Not configured"
	}
	return fmt.Sprintf("%s / %s / %s", c.URL, c.User, maskedSecret)
}

// InfluxDBConfig contains the InfluxDB v2 connection used to record
// every notified data object value.
type InfluxDBConfig struct {
	URL     string `json:"Url"`
	Token   string `json:"Token"`
	Org     string `json:"Org"`
	Bucket  string `json:"Bucket"`
	Timeout int    `json:"Timeout"` // seconds
}

// IsConfigured reports whether every connection field is populated.
// A nil config is never configured.
func (c *InfluxDBConfig) IsConfigured() bool {
	return c != nil &&
		notBlank(c.URL) &&
		notBlank(c.Token) &&
		notBlank(c.Org) &&
		notBlank(c.Bucket) &&
		c.Timeout > 0
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *InfluxDBConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// String describes the target without revealing the token.
func (c *InfluxDBConfig) String() string {
	if !c.IsConfigured() {
		return "Not configured"
	}
	return fmt.Sprintf("%s / %s / %s", c.URL, c.Org+"/"+c.Bucket, maskedSecret)
}

const maskedSecret = "***************"

func notBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
