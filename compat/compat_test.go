// FILE: lixenwraith/chanlog/compat/compat_test.go
package compat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/chanlog"
)

// bufSink collects writes in memory
type bufSink struct {
	bytes.Buffer
}

func (b *bufSink) Flush() error { return nil }
func (b *bufSink) Close() error { return nil }

// createTestCompatBuilder creates a registry-backed builder with in-memory sinks
func createTestCompatBuilder(t *testing.T) (*Builder, *chanlog.Logger, *bufSink, *bufSink) {
	t.Helper()

	reg, err := chanlog.NewBuilder().
		Template("%level|%prompt").
		Directory(t.TempDir()).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Shutdown() })

	out, errOut := &bufSink{}, &bufSink{}
	channel, err := reg.GetOrCreate("net", chanlog.WithSinks(out, errOut))
	require.NoError(t, err)

	return NewBuilder().WithChannel(channel), channel, out, errOut
}

func TestCompatBuilder(t *testing.T) {
	t.Run("with existing channel", func(t *testing.T) {
		builder, channel, _, _ := createTestCompatBuilder(t)

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Same(t, channel, gnetAdapter.Channel())
	})

	t.Run("with registry", func(t *testing.T) {
		reg, err := chanlog.NewRegistry(nil)
		require.NoError(t, err)
		defer reg.Shutdown()

		builder := NewBuilder().WithRegistry(reg, "http")
		fasthttpAdapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)

		assert.True(t, reg.Contains("http"))
		assert.Equal(t, "http", fasthttpAdapter.Channel().Identity())

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Same(t, fasthttpAdapter.Channel(), gnetAdapter.Channel())
	})

	t.Run("nil channel", func(t *testing.T) {
		_, err := NewBuilder().WithChannel(nil).BuildGnet()
		assert.Error(t, err)
	})
}

func TestGnetAdapter(t *testing.T) {
	builder, channel, out, errOut := createTestCompatBuilder(t)

	var fatalMsg string
	adapter, err := builder.BuildGnet(WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))
	require.NoError(t, err)

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	assert.Equal(t,
		"SERVER|gnet: gnet debug id=1\nINFO|gnet: gnet info id=2\nWARNING|gnet: gnet warn id=3\n",
		out.String())
	assert.Equal(t,
		"ERROR|gnet: gnet error id=4\nERROR|gnet: gnet fatal id=5 (fatal)\n",
		errOut.String())
	assert.Equal(t, "gnet: gnet fatal id=5", fatalMsg)
	assert.Equal(t, 5, channel.History().Len())
}

func TestFastHTTPAdapter(t *testing.T) {
	builder, _, out, errOut := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP()
	require.NoError(t, err)

	adapter.Printf("served %d bytes", 128)
	adapter.Printf("warning: slow handler %s", "/x")
	adapter.Printf("connection failed: %v", "reset")
	adapter.Printf("client request from %s", "10.0.0.1")

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SERVER|fasthttp: served 128 bytes", lines[0])
	assert.Equal(t, "WARNING|fasthttp: warning: slow handler /x", lines[1])
	assert.Equal(t, "CLIENT|fasthttp: client request from 10.0.0.1", lines[2])
	assert.Equal(t, "ERROR|fasthttp: connection failed: reset\n", errOut.String())
}

func TestFastHTTPAdapterOptions(t *testing.T) {
	builder, _, out, _ := createTestCompatBuilder(t)

	adapter, err := builder.BuildFastHTTP(
		WithDefaultLevel(chanlog.LevelInfo),
		WithLevelDetector(func(string) (chanlog.Level, bool) { return 0, false }),
	)
	require.NoError(t, err)

	adapter.Printf("request failed")
	assert.Equal(t, "INFO|fasthttp: request failed\n", out.String())
}

func TestDetectLogLevel(t *testing.T) {
	tests := []struct {
		msg   string
		level chanlog.Level
		ok    bool
	}{
		{"fatal error occurred", chanlog.LevelError, true},
		{"panic in handler", chanlog.LevelError, true},
		{"deprecated option", chanlog.LevelWarning, true},
		{"incoming request", chanlog.LevelClient, true},
		{"server started", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			level, ok := DetectLogLevel(tt.msg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.level, level)
			}
		})
	}
}
