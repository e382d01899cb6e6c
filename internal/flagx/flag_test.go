package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	journalFlags := []string{"-d", "-s", "-m"}

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate values",
			args:    []string{"-d", "postgres", "-c", "cfg.json", "-s", "postgres://localhost/journal"},
			allowed: journalFlags,
			want:    []string{"-d", "postgres", "-s", "postgres://localhost/journal"},
		},
		{
			name:    "equals form",
			args:    []string{"-m=poll", "-e=.env"},
			allowed: journalFlags,
			want:    []string{"-m=poll"},
		},
		{
			name:    "double dash matches single dash name",
			args:    []string{"--d", "sqlite", "--m=event"},
			allowed: journalFlags,
			want:    []string{"--d", "sqlite", "--m=event"},
		},
		{
			name:    "single dash matches double dash name",
			args:    []string{"-env-file", "local.env"},
			allowed: []string{"--env-file"},
			want:    []string{"-env-file", "local.env"},
		},
		{
			name:    "positional arguments dropped",
			args:    []string{"import", "backup.json", "-d", "sqlite"},
			allowed: journalFlags,
			want:    []string{"-d", "sqlite"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-s"},
			allowed: journalFlags,
			want:    []string{"-s"},
		},
		{
			name:    "next flag is not taken as a value",
			args:    []string{"-d", "-m", "poll"},
			allowed: journalFlags,
			want:    []string{"-d", "-m", "poll"},
		},
		{
			name:    "equals value may start with a dash",
			args:    []string{"-s=-weird.db"},
			allowed: journalFlags,
			want:    []string{"-s=-weird.db"},
		},
		{
			name:    "repeats kept in order",
			args:    []string{"-m", "event", "-m", "poll"},
			allowed: journalFlags,
			want:    []string{"-m", "event", "-m", "poll"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-x", "1", "--y=2"},
			allowed: journalFlags,
			want:    []string{},
		},
		{
			name:    "empty args",
			args:    nil,
			allowed: journalFlags,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"gophjournal"}, args...)
}

func TestJsonConfigFlags(t *testing.T) {
	cases := map[string]struct {
		args []string
		want string
	}{
		"short":          {[]string{"-c", "journal.json"}, "journal.json"},
		"long":           {[]string{"-config", "/etc/gophjournal.json"}, "/etc/gophjournal.json"},
		"double dash":    {[]string{"--config=alt.json"}, "alt.json"},
		"last one wins":  {[]string{"-c", "a.json", "-config", "b.json"}, "b.json"},
		"other flags":    {[]string{"-d", "sqlite", "-m", "poll"}, ""},
		"no args at all": {nil, ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			withArgs(t, tc.args...)
			assert.Equal(t, tc.want, JsonConfigFlags())
		})
	}
}

func TestEnvFileFlags(t *testing.T) {
	withArgs(t, "-c", "cfg.json", "-e", "local.env")
	assert.Equal(t, "local.env", EnvFileFlags())
	assert.Equal(t, "cfg.json", JsonConfigFlags())

	withArgs(t, "-env-file=prod.env")
	assert.Equal(t, "prod.env", EnvFileFlags())

	withArgs(t)
	assert.Empty(t, EnvFileFlags())
}
