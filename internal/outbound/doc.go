// Package outbound forwards data-object changes to downstream systems.
//
// Every downstream system (home automation server, MQTT broker, InfluxDB)
// is one Target. A Target is either unconfigured, in which case every send
// is a silent no-op, or configured, in which case it connects lazily and
// pushes each value through its Sender.
//
//	unconfigured ──────────────► (no-op forever)
//	configured/not connected ──► configured/connected   on a successful dial
//
// A failed send is logged and returned but does not drop the connection
// handle: the next send reuses it. Only a failed dial leaves the target
// not connected, and every later send dials again.
//
// A Notifier fans one change out to all targets in order. A failure or panic
// in one target never prevents the others from being tried.
package outbound
