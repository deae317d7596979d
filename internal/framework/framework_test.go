package framework

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/homenet-framework/internal/infrastructure/config"
	"github.com/nerrad567/homenet-framework/internal/infrastructure/logging"
	"github.com/nerrad567/homenet-framework/internal/infrastructure/state"
	"github.com/nerrad567/homenet-framework/internal/outbound"
	"github.com/nerrad567/homenet-framework/internal/scheduler"
)

type testArgs struct {
	Arguments `embed:""`
	Metrics   string `help:"Metrics listen address"`
}

type testSettings struct {
	config.Targets
	IntervalInSeconds int `json:"IntervalInSeconds" validate:"required"`
}

type testState struct {
	MyProgramState int `json:"MyProgramState"`
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *fakeSender) Send(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, name+"="+value)
	return nil
}

func (s *fakeSender) Close() error { return nil }

func (s *fakeSender) values() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

type testFacade = Facade[testArgs, testSettings, testState]

// newTestFacade returns a facade whose arguments point into a temp dir.
func newTestFacade(t *testing.T, opts ...Option) (*testFacade, string) {
	t.Helper()
	dir := t.TempDir()
	opts = append([]Option{
		WithOutput(io.Discard, io.Discard),
		WithExit(func(int) {}),
		WithLogger(logging.Discard()),
	}, opts...)
	f := New[testArgs, testSettings, testState]("homenet-test", "1.2.3", opts...)
	require.NoError(t, f.ParseArguments([]string{
		"-c", filepath.Join(dir, "appsettings.json"),
		"--nlogconfig", filepath.Join(dir, "nlog.config"),
		"--statefile", filepath.Join(dir, "state.json"),
		"--envfile", filepath.Join(dir, ".env"),
	}))
	return f, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func writeSettings(t *testing.T, dir string, s testSettings) {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "appsettings.json"), string(data))
}

// =============================================================================
// Arguments
// =============================================================================

func TestParseArguments_Defaults(t *testing.T) {
	f := New[testArgs, testSettings, testState]("homenet-test", "1.0.0", WithOutput(io.Discard, io.Discard))

	require.NoError(t, f.ParseArguments(nil))

	assert.Equal(t, Paths{
		ConfigFile:        "appsettings.json",
		LoggingConfigFile: "nlog.config",
		StateFile:         "state.json",
		EnvFile:           ".env",
	}, f.Args.Paths())
}

func TestParseArguments_Values(t *testing.T) {
	f := New[testArgs, testSettings, testState]("homenet-test", "1.0.0", WithOutput(io.Discard, io.Discard))

	require.NoError(t, f.ParseArguments([]string{
		"--config", "a.hjson", "--nlogconfig", "log.yaml", "--statefile", "s.json", "--metrics", ":9100",
	}))

	assert.Equal(t, "a.hjson", f.Args.ConfigFile)
	assert.Equal(t, "log.yaml", f.Args.LoggingConfigFile)
	assert.Equal(t, "s.json", f.Args.StateFile)
	assert.Equal(t, ":9100", f.Args.Metrics)
}

func TestParseArguments_MalformedFallsBackToDefaults(t *testing.T) {
	var stderr bytes.Buffer
	f := New[testArgs, testSettings, testState]("homenet-test", "1.0.0", WithOutput(io.Discard, &stderr))

	err := f.ParseArguments([]string{"-c", "custom.json", "--no-such-flag"})

	require.ErrorIs(t, err, ErrParseArguments)
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, []string{"-c", "custom.json", "--no-such-flag"}, argErr.Args)
	assert.Contains(t, stderr.String(), "no-such-flag")
	assert.Equal(t, "appsettings.json", f.Args.ConfigFile, "arguments reset to defaults")
	assert.Equal(t, "state.json", f.Args.StateFile)
}

func TestParseArguments_HelpCallsExit(t *testing.T) {
	var stdout bytes.Buffer
	code := -1
	f := New[testArgs, testSettings, testState]("homenet-test", "1.0.0",
		WithOutput(&stdout, io.Discard),
		WithExit(func(c int) { code = c }),
	)

	_ = f.ParseArguments([]string{"--help"})

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "--nlogconfig")
	assert.Contains(t, stdout.String(), "--statefile")
}

// =============================================================================
// Configuration
// =============================================================================

func TestReadConfiguration(t *testing.T) {
	f, dir := newTestFacade(t)
	writeFile(t, filepath.Join(dir, "appsettings.json"), `{
		"HomeAutomationServerConfig": {"Url": "http://homenet", "User": "u", "Password": "p", "Timeout": 5},
		"IntervalInSeconds": 10
	}`)

	require.NoError(t, f.ReadConfiguration())
	require.NoError(t, f.ValidateConfiguration())

	assert.Equal(t, 10, f.Settings.IntervalInSeconds)
	assert.True(t, f.Settings.HomeAutomationServerConfig.IsConfigured())
	assert.Nil(t, f.Settings.MqttBrokerConfig)
	assert.Equal(t, filepath.Join(dir, "appsettings.json"), f.ConfigurationPath())
}

func TestReadConfiguration_MissingFileIsFatal(t *testing.T) {
	f, _ := newTestFacade(t)

	err := f.ReadConfiguration()
	assert.ErrorIs(t, err, config.ErrReadConfig)
	assert.Nil(t, f.Settings)
}

func TestReadConfiguration_DotEnvOverrides(t *testing.T) {
	f, dir := newTestFacade(t)
	writeSettings(t, dir, testSettings{IntervalInSeconds: 5})
	writeFile(t, filepath.Join(dir, ".env"), "HOMENET_MQTT_URL=tcp://broker\nHOMENET_MQTT_USER=alice\nHOMENET_MQTT_PASSWORD=secret\n")
	t.Cleanup(func() {
		for _, k := range []string{"HOMENET_MQTT_URL", "HOMENET_MQTT_USER", "HOMENET_MQTT_PASSWORD"} {
			_ = os.Unsetenv(k)
		}
	})

	require.NoError(t, f.ReadConfiguration())

	require.NotNil(t, f.Settings.MqttBrokerConfig)
	assert.Equal(t, "tcp://broker", f.Settings.MqttBrokerConfig.URL)
	assert.True(t, f.Settings.MqttBrokerConfig.IsConfigured())
}

func TestValidateConfiguration(t *testing.T) {
	f, dir := newTestFacade(t)

	require.ErrorIs(t, f.ValidateConfiguration(), ErrNotLoaded)

	writeSettings(t, dir, testSettings{})
	require.NoError(t, f.ReadConfiguration())

	err := f.ValidateConfiguration()
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"IntervalInSeconds"}, verr.Fields)
}

func TestSaveConfiguration(t *testing.T) {
	f, dir := newTestFacade(t)
	require.ErrorIs(t, f.SaveConfiguration(), ErrNotLoaded)

	writeSettings(t, dir, testSettings{IntervalInSeconds: 3})
	require.NoError(t, f.ReadConfiguration())

	f.Settings.IntervalInSeconds = 42
	require.NoError(t, f.SaveConfiguration())

	require.NoError(t, f.ReadConfiguration())
	assert.Equal(t, 42, f.Settings.IntervalInSeconds)
}

// =============================================================================
// Logger
// =============================================================================

func TestInitLogger(t *testing.T) {
	f, dir := newTestFacade(t)
	logPath := filepath.Join(dir, "logs", "app.log")
	writeFile(t, filepath.Join(dir, "nlog.config"), "level: debug\nformat: json\noutput: file\nfile:\n  path: "+logPath+"\n")

	require.NoError(t, f.InitLogger())
	f.Logger.Info("hello")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"homenet-test"`)
	assert.Contains(t, string(data), `"version":"1.2.3"`)
}

func TestInitLogger_MissingConfigIsFatal(t *testing.T) {
	f, _ := newTestFacade(t)
	assert.Error(t, f.InitLogger())
}

func TestInitLoggerTo_RedirectsStreamOutput(t *testing.T) {
	var buf bytes.Buffer
	f, dir := newTestFacade(t)
	writeFile(t, filepath.Join(dir, "nlog.config"), "level: info\nformat: text\noutput: stdout\n")

	require.NoError(t, f.InitLoggerTo(&buf))
	f.Logger.Info("into the pane")

	assert.Contains(t, buf.String(), "into the pane")
	assert.Contains(t, buf.String(), "service=homenet-test")
}

func TestInitLoggerTo_KeepsFileOutput(t *testing.T) {
	var buf bytes.Buffer
	f, dir := newTestFacade(t)
	logPath := filepath.Join(dir, "app.log")
	writeFile(t, filepath.Join(dir, "nlog.config"), "level: info\nformat: json\noutput: file\nfile:\n  path: "+logPath+"\n")

	require.NoError(t, f.InitLoggerTo(&buf))
	f.Logger.Info("into the file")
	require.NoError(t, f.Close())

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "into the file")
}

func TestLogTargets_MasksPasswords(t *testing.T) {
	var buf bytes.Buffer
	f, dir := newTestFacade(t, WithLogger(logging.NewWithWriter(&buf, logging.Config{Level: "info", Format: "text"}, "t", "v")))
	writeSettings(t, dir, testSettings{
		Targets: config.Targets{
			MqttBrokerConfig: &config.MqttBrokerConfig{URL: "mqtt://x", User: "u", Password: "topsecret", Timeout: 5},
		},
		IntervalInSeconds: 10,
	})
	require.NoError(t, f.ReadConfiguration())

	f.LogTargets()

	out := buf.String()
	assert.NotContains(t, out, "topsecret")
	assert.Contains(t, out, "mqtt://x / u / ***************")
	assert.Contains(t, out, "Home automation target: Not configured")
}

// =============================================================================
// State
// =============================================================================

func TestStateFile(t *testing.T) {
	f, _ := newTestFacade(t)

	require.ErrorIs(t, f.SaveStateFile(), ErrNotLoaded)

	f.ReadStateFile()
	require.NotNil(t, f.State)
	assert.Zero(t, f.State.MyProgramState)

	f.State.MyProgramState = 7
	require.NoError(t, f.SaveStateFile())

	f.State = nil
	f.ReadStateFile()
	assert.Equal(t, 7, f.State.MyProgramState)
}

func TestStateFile_CorruptUsesDefaults(t *testing.T) {
	f, dir := newTestFacade(t)
	writeFile(t, filepath.Join(dir, "state.json"), "{not json")

	f.ReadStateFile()

	require.NotNil(t, f.State)
	assert.Zero(t, f.State.MyProgramState)
}

// stateLogEntry returns the single "state file not loaded" entry in buf.
func stateLogEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var found []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		if entry["msg"] == "state file not loaded, using default state" {
			found = append(found, entry)
		}
	}
	require.Len(t, found, 1, buf.String())
	return found[0]
}

func TestReadStateFile_LogsReasonAtDebug(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "missing file", want: state.ErrNoStateFile},
		{name: "corrupt file", content: "{not json", want: state.ErrDecodeState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.NewWithWriter(&buf, logging.Config{Level: "debug", Format: "json"}, "homenet-test", "1.2.3")
			f, dir := newTestFacade(t, WithLogger(logger))
			path := filepath.Join(dir, "state.json")
			if tt.content != "" {
				writeFile(t, path, tt.content)
			}

			f.ReadStateFile()
			require.NotNil(t, f.State)
			assert.Zero(t, f.State.MyProgramState)

			entry := stateLogEntry(t, &buf)
			assert.Equal(t, "DEBUG", entry["level"])
			assert.Equal(t, path, entry["path"])
			assert.Contains(t, entry["error"], tt.want.Error())
		})
	}
}

func TestReadStateFile_NoLogWhenLoaded(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.Config{Level: "debug", Format: "json"}, "homenet-test", "1.2.3")
	f, dir := newTestFacade(t, WithLogger(logger))
	writeFile(t, filepath.Join(dir, "state.json"), `{"MyProgramState":3}`)

	f.ReadStateFile()

	assert.Equal(t, 3, f.State.MyProgramState)
	assert.NotContains(t, buf.String(), "state file not loaded")
}

func TestStateJSON(t *testing.T) {
	f, _ := newTestFacade(t)

	require.NoError(t, f.SetStateJSON([]byte(`{"MyProgramState":12}`)))
	assert.Equal(t, 12, f.State.MyProgramState)

	data, err := f.StateJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"MyProgramState":12}`, string(data))

	assert.Error(t, f.SetStateJSON([]byte("[")))
	assert.Equal(t, 12, f.State.MyProgramState, "state kept on decode error")
}

// =============================================================================
// Background job
// =============================================================================

func TestBackgroundJob(t *testing.T) {
	f, _ := newTestFacade(t)
	f.ReadStateFile()

	var mu sync.Mutex
	started := time.Now()
	var first atomic.Int64

	err := f.StartBackgroundJob(context.Background(), func(context.Context) error {
		first.CompareAndSwap(0, int64(time.Since(started)))
		mu.Lock()
		f.State.MyProgramState++
		mu.Unlock()
		return nil
	}, 1)
	require.NoError(t, err)

	require.ErrorIs(t, f.StartBackgroundJob(context.Background(), func(context.Context) error { return nil }, 1), ErrJobRunning)

	require.Eventually(t, func() bool { return f.BackgroundJobRuns() >= 1 }, 4*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, time.Duration(first.Load()), 990*time.Millisecond)

	require.NoError(t, f.StopBackgroundJob())
	mu.Lock()
	count := f.State.MyProgramState
	mu.Unlock()
	time.Sleep(1200 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, count, f.State.MyProgramState, "no runs after stop")
	mu.Unlock()

	assert.NoError(t, f.StopBackgroundJob())
	assert.Zero(t, f.BackgroundJobRuns())
}

func TestBackgroundJob_InvalidInterval(t *testing.T) {
	f, _ := newTestFacade(t)

	err := f.StartBackgroundJob(context.Background(), func(context.Context) error { return nil }, 0)
	assert.ErrorIs(t, err, scheduler.ErrInvalidInterval)
}

// =============================================================================
// Outbound notification
// =============================================================================

func TestNotify_OnlyMQTTConfigured(t *testing.T) {
	mqttSender := &fakeSender{}
	homeDials := 0

	f, dir := newTestFacade(t,
		WithDialer(TargetMQTT, func(context.Context) (outbound.Sender, error) { return mqttSender, nil }),
		WithDialer(TargetHomeAutomation, func(context.Context) (outbound.Sender, error) {
			homeDials++
			return &fakeSender{}, nil
		}),
	)
	writeFile(t, filepath.Join(dir, "appsettings.json"), `{
		"HomeAutomationServerConfig": null,
		"MqttBrokerConfig": {"Url": "mqtt://x", "User": "u", "Password": "p", "Timeout": 5},
		"IntervalInSeconds": 10
	}`)
	require.NoError(t, f.ReadConfiguration())
	f.InitOutboundConnections(context.Background())

	var err error
	require.NotPanics(t, func() { err = f.Notify(context.Background(), "T", "1") })

	require.NoError(t, err)
	assert.Equal(t, []string{"T=1"}, mqttSender.values())
	assert.Zero(t, homeDials)

	targets := f.Targets()
	require.Len(t, targets, 3)
	assert.False(t, targets[0].IsConfigured())
	assert.True(t, targets[1].IsConfigured())
	assert.False(t, targets[2].IsConfigured())
}

func TestNotify_MQTTConnectFailureDoesNotBlockHomeAutomation(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	tests := []struct {
		name string
		opts []Option
	}{
		{
			name: "connect throws",
			opts: []Option{WithDialer(TargetMQTT, func(context.Context) (outbound.Sender, error) {
				panic("mqtt connect threw")
			})},
		},
		{
			name: "broker unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu.Lock()
			paths = nil
			mu.Unlock()

			f, dir := newTestFacade(t, tt.opts...)
			writeSettings(t, dir, testSettings{
				Targets: config.Targets{
					HomeAutomationServerConfig: &config.HomeAutomationServerConfig{URL: srv.URL, User: "u", Password: "p", Timeout: 2},
					MqttBrokerConfig:           &config.MqttBrokerConfig{URL: "tcp://127.0.0.1:1", User: "u", Password: "p", Timeout: 2},
				},
				IntervalInSeconds: 10,
			})
			require.NoError(t, f.ReadConfiguration())
			f.InitOutboundConnections(context.Background())
			t.Cleanup(func() { _ = f.Close() })

			var err error
			require.NotPanics(t, func() { err = f.Notify(context.Background(), "T", "1") })

			assert.ErrorIs(t, err, outbound.ErrNotConnected)
			mu.Lock()
			assert.Equal(t, []string{"PUT /api/dataobjects/T/value"}, paths)
			mu.Unlock()

			health := f.HealthCheck(context.Background())
			assert.NoError(t, health[TargetHomeAutomation])
			assert.Error(t, health[TargetMQTT])
		})
	}
}

func TestNotify_BeforeInitIsNoOp(t *testing.T) {
	f, _ := newTestFacade(t)
	assert.NoError(t, f.Notify(context.Background(), "T", "1"))
	assert.Empty(t, f.Targets())
	assert.Empty(t, f.HealthCheck(context.Background()))
}

func TestRegistryExposesOutboundMetrics(t *testing.T) {
	mqttSender := &fakeSender{}
	f, dir := newTestFacade(t,
		WithDialer(TargetMQTT, func(context.Context) (outbound.Sender, error) { return mqttSender, nil }),
	)
	writeSettings(t, dir, testSettings{
		Targets: config.Targets{
			MqttBrokerConfig: &config.MqttBrokerConfig{URL: "mqtt://x", User: "u", Password: "p", Timeout: 5},
		},
		IntervalInSeconds: 10,
	})
	require.NoError(t, f.ReadConfiguration())
	f.InitOutboundConnections(context.Background())
	require.NoError(t, f.Notify(context.Background(), "T", "1"))

	mfs, err := f.Registry().Gather()
	require.NoError(t, err)

	var names []string
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	joined := strings.Join(names, ",")
	assert.Contains(t, joined, "homenet_outbound_sends_total")
	assert.Contains(t, joined, "homenet_outbound_connected")
	assert.Contains(t, joined, "go_goroutines")
}

func TestClose_Idempotent(t *testing.T) {
	f, _ := newTestFacade(t)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assert.False(t, errors.Is(f.Close(), ErrNotLoaded))
}
