package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "Test1 OK", args: []string{"cmd", "-a", "http://127.0.0.1:9090/api/v1/", "-i", "10"},
			expected: &Config{BaseURL: "http://127.0.0.1:9090/api/v1/", OnlineCheckInterval: 10 * time.Second}},
		{name: "Test2 all flags", args: []string{"cmd", "-d", "/tmp/a.db", "-m", ":9100", "-v", "-i", "5"},
			expected: &Config{DatabasePath: "/tmp/a.db", MetricsAddr: ":9100", VersionCheck: true, OnlineCheckInterval: 5 * time.Second}},
		{name: "Test3 foreign flags ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "-i", "1"},
			expected: &Config{OnlineCheckInterval: time.Second}},
		{name: "Test4 incorrect check interval", args: []string{"cmd", "-a", "x", "-i", "abc"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}
			err := parseFlags(config)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
