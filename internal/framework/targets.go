package framework

import (
	"context"

	"github.com/nerrad567/homenet-framework/internal/homenet"
	"github.com/nerrad567/homenet-framework/internal/infrastructure/config"
	"github.com/nerrad567/homenet-framework/internal/infrastructure/influxdb"
	"github.com/nerrad567/homenet-framework/internal/infrastructure/mqtt"
	"github.com/nerrad567/homenet-framework/internal/outbound"
)

// Target names, also used as the "target" label of the outbound metrics.
const (
	TargetHomeAutomation = "homenet"
	TargetMQTT           = "mqtt"
	TargetInfluxDB       = "influxdb"
)

// targetsOf returns the target blocks of settings that embed config.Targets.
func targetsOf(settings any) *config.Targets {
	if h, ok := settings.(interface{ OutboundTargets() *config.Targets }); ok {
		return h.OutboundTargets()
	}
	return &config.Targets{}
}

// InitOutboundConnections creates the outbound targets from the settings and
// makes one connection attempt for each configured target.
//
// Targets whose settings block is missing or incomplete stay unconfigured
// and ignore every notification. Connection failures are logged; the target
// tries again on the next Notify.
func (f *Facade[A, S, St]) InitOutboundConnections(ctx context.Context) {
	if f.notifier != nil {
		_ = f.notifier.Close()
	}

	t := &config.Targets{}
	if f.Settings != nil {
		t = targetsOf(f.Settings)
	}

	f.notifier = outbound.NewNotifier(
		f.newTarget(TargetHomeAutomation, "home automation server", t.HomeAutomationServerConfig.IsConfigured(), f.homenetDialer(t.HomeAutomationServerConfig)),
		f.newTarget(TargetMQTT, "MQTT broker", t.MqttBrokerConfig.IsConfigured(), f.mqttDialer(t.MqttBrokerConfig)),
		f.newTarget(TargetInfluxDB, "InfluxDB", t.InfluxDBConfig.IsConfigured(), f.influxDialer(t.InfluxDBConfig)),
	)

	_ = f.notifier.Connect(ctx)
}

func (f *Facade[A, S, St]) newTarget(name, desc string, configured bool, dial outbound.Dialer) *outbound.Target {
	if override, ok := f.dialers[name]; ok {
		dial = override
	}
	return outbound.NewTarget(name, configured, dial,
		outbound.WithDescription(desc),
		outbound.WithLogger(f.Logger),
		outbound.WithMetrics(f.metrics),
	)
}

func (f *Facade[A, S, St]) homenetDialer(cfg *config.HomeAutomationServerConfig) outbound.Dialer {
	return func(context.Context) (outbound.Sender, error) {
		c, err := homenet.NewClient(*cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func (f *Facade[A, S, St]) mqttDialer(cfg *config.MqttBrokerConfig) outbound.Dialer {
	return func(context.Context) (outbound.Sender, error) {
		c, err := mqtt.Connect(*cfg, f.Logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func (f *Facade[A, S, St]) influxDialer(cfg *config.InfluxDBConfig) outbound.Dialer {
	return func(ctx context.Context) (outbound.Sender, error) {
		c, err := influxdb.Connect(ctx, *cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// LogTargets logs each outbound target's settings with the secret masked.
func (f *Facade[A, S, St]) LogTargets() {
	t := &config.Targets{}
	if f.Settings != nil {
		t = targetsOf(f.Settings)
	}
	f.Logger.Info("Home automation target: " + t.HomeAutomationServerConfig.String())
	f.Logger.Info("MQTT target           : " + t.MqttBrokerConfig.String())
	f.Logger.Info("InfluxDB target       : " + t.InfluxDBConfig.String())
}

// Targets returns the outbound targets in notification order.
func (f *Facade[A, S, St]) Targets() []*outbound.Target {
	return f.notifier.Targets()
}

// Notify forwards a data-object change to every configured target.
//
// Each target is tried even if another fails or panics. Failures are logged
// by the targets; the joined error is returned for callers that want it.
func (f *Facade[A, S, St]) Notify(ctx context.Context, name, value string) error {
	return f.notifier.Notify(ctx, name, value)
}
