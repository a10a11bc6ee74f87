package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	configFlags := []string{"-c", "-config"}
	cliFlags := []string{"-s", "-d", "-b", "-locale"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "config path among storage flags",
			args:    []string{"-s", "file", "-c", "jarcover.json", "-d", "/var/lib/jarcover"},
			allowed: configFlags,
			want:    []string{"-c", "jarcover.json"},
		},
		{
			name:    "storage flags without the config path",
			args:    []string{"-s", "file", "-c", "jarcover.json", "-d", "/var/lib/jarcover"},
			allowed: cliFlags,
			want:    []string{"-s", "file", "-d", "/var/lib/jarcover"},
		},
		{
			name:    "equals form",
			args:    []string{"-locale=uk-UA", "-config=alt.json", "-currency=UAH"},
			allowed: cliFlags,
			want:    []string{"-locale=uk-UA"},
		},
		{
			name:    "dangling flag kept without value",
			args:    []string{"-b"},
			allowed: cliFlags,
			want:    []string{"-b"},
		},
		{
			name:    "next flag is never taken as a value",
			args:    []string{"-d", "-s", "sqlite"},
			allowed: cliFlags,
			want:    []string{"-d", "-s", "sqlite"},
		},
		{
			name:    "positional arguments dropped",
			args:    []string{"extra", "-x", "1", "-s", "file", "tail"},
			allowed: cliFlags,
			want:    []string{"-s", "file"},
		},
		{
			name:    "repeats preserved in order",
			args:    []string{"-c", "one.json", "-config", "two.json"},
			allowed: configFlags,
			want:    []string{"-c", "one.json", "-config", "two.json"},
		},
		{
			name:    "nothing to keep",
			args:    nil,
			allowed: configFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	t.Run("short -c with value", func(t *testing.T) {
		assert.Equal(t, "/path/short.json", ConfigPath([]string{"-c", "/path/short.json"}))
	})

	t.Run("long -config with value", func(t *testing.T) {
		assert.Equal(t, "/path/long.json", ConfigPath([]string{"-config", "/path/long.json"}))
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		assert.Empty(t, ConfigPath([]string{"-x", "1", "-y", "2"}))
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		assert.Equal(t, "/path/2.json", ConfigPath([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/from/env.json")
		assert.Equal(t, "/from/env.json", ConfigPath(nil))
	})

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/from/env.json")
		assert.Equal(t, "/from/flag.json", ConfigPath([]string{"-c", "/from/flag.json"}))
	})
}
