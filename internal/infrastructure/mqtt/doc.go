// Package mqtt publishes data-object values to an MQTT broker.
//
// It is one of the optional outbound targets of the framework: each
// notified value is published with the data-object name as the topic and
// the value as the payload.
//
// # Broker URL
//
// The configured Url may carry any scheme paho understands (tcp, mqtt,
// ssl, mqtts, tls, ws, wss). A bare host gets tcp:// and a missing port
// is filled in with 1883 (8883 for TLS schemes).
//
// # Logging
//
// paho reports through package-level loggers. Connect points them at the
// caller's logger, so broker-level errors and warnings end up in the same
// log as the rest of the application.
//
// # Usage
//
//	client, err := mqtt.Connect(*cfg.MqttBrokerConfig, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.Publish("AZ_DECKENLAMPE", []byte("1")); err != nil {
//	    logger.Error("MQTT topic update error", "error", err)
//	}
package mqtt
