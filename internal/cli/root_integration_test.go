package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tengjizhang/scrub/internal/config"
)

func setEnvForTest(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOME",
		"XDG_CONFIG_HOME",
		"SCRUB_DB_PATH",
		"SCRUB_MAX_INPUT_BYTES",
		"SCRUB_FETCH_CONCURRENCY",
		"SCRUB_HTTP_TIMEOUT_SECONDS",
		"SCRUB_USER_AGENT",
		"SCRUB_LISTEN_ADDR",
		"SCRUB_LOG_LEVEL",
		"SCRUB_LOG_FORMAT",
	} {
		unsetEnvForTest(t, key)
	}
}

func writeConfigFile(t *testing.T, home string, body string) string {
	t.Helper()
	path := filepath.Join(home, ".config", "scrub", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestRootCommand_DBFlagOverridesEnvAndConfig(t *testing.T) {
	clearConfigEnv(t)
	home := t.TempDir()
	setEnvForTest(t, "HOME", home)

	configDB := filepath.Join(t.TempDir(), "from-config.db")
	writeConfigFile(t, home, `db_path = "`+configDB+`"`+"\n")

	envDB := filepath.Join(t.TempDir(), "from-env.db")
	setEnvForTest(t, "SCRUB_DB_PATH", envDB)

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBPath != envDB {
		t.Fatalf("LoadConfig DBPath = %q, want %q", cfg.DBPath, envDB)
	}

	flagDB := filepath.Join(t.TempDir(), "from-flag.db")
	root := NewRootCmd(cfg)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"--db", flagDB, "stats", "-o", "json"})

	if err := root.Execute(); err != nil {
		t.Fatalf("root.Execute: %v (stderr: %s)", err, stderr.String())
	}

	if _, err := os.Stat(flagDB); err != nil {
		t.Fatalf("expected flag DB at %q: %v", flagDB, err)
	}
	if _, err := os.Stat(envDB); !os.IsNotExist(err) {
		t.Fatalf("expected env DB not to be opened, stat err: %v", err)
	}
	if _, err := os.Stat(configDB); !os.IsNotExist(err) {
		t.Fatalf("expected config DB not to be opened, stat err: %v", err)
	}
}

func TestRootCommand_ConfigPolicyReachesSanitize(t *testing.T) {
	clearConfigEnv(t)
	home := t.TempDir()
	setEnvForTest(t, "HOME", home)
	writeConfigFile(t, home, `
[policy]
allowed_tags = { b = [] }
strip_content = ["script"]
`)

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	root := NewRootCmd(cfg)
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(`<p><b>bold</b><script>x</script></p>`))
	root.SetArgs([]string{"sanitize"})

	if err := root.Execute(); err != nil {
		t.Fatalf("root.Execute: %v", err)
	}
	if got := stdout.String(); got != "<b>bold</b>" {
		t.Fatalf("sanitize with configured policy = %q", got)
	}
}

func TestRootCommand_LogsGoToStderr(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scrub.db")
	res := execCLI(t, dbPath, "<p>x</p>", "put", "doc", "--log-level", "debug", "-o", "json")
	if res.err != nil {
		t.Fatalf("put: %v", res.err)
	}
	if !strings.Contains(res.stderr, "document stored") {
		t.Fatalf("expected debug log on stderr, got %q", res.stderr)
	}
	if strings.Contains(res.stdout, "document stored") {
		t.Fatalf("log leaked into stdout: %q", res.stdout)
	}
}
