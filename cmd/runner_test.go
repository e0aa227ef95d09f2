package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tempo/internal/shared"
	tu "github.com/desertthunder/tempo/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			input := strings.NewReader("")

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				Input:  input,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.input != input {
				t.Error("expected input to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil input uses stdin", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Input: nil})

			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}
			if output.String() != "{\"key\":\"value\"}\n" {
				t.Errorf("unexpected output: %q", output.String())
			}
		})

		t.Run("writes indented JSON when pretty", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}
			if !strings.Contains(output.String(), "  \"key\": \"value\"") {
				t.Errorf("expected indentation, got %q", output.String())
			}
		})

		t.Run("propagates write failures", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON("data", false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("clientTolerance", func(t *testing.T) {
		if got := clientTolerance(0); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
		if got := clientTolerance(90); got != 90*time.Second {
			t.Errorf("expected 90s, got %v", got)
		}
	})
}

func TestReadRedirectCode(t *testing.T) {
	t.Run("extracts code from redirect URL", func(t *testing.T) {
		input := strings.NewReader("https://example.com/callback?code=abc123&state=xyz\n")

		code, err := readRedirectCode(input, "xyz")
		if err != nil {
			t.Fatalf("readRedirectCode failed: %v", err)
		}
		if code != "abc123" {
			t.Errorf("expected abc123, got %s", code)
		}
	})

	t.Run("rejects state mismatch", func(t *testing.T) {
		input := strings.NewReader("https://example.com/callback?code=abc123&state=wrong\n")

		_, err := readRedirectCode(input, "xyz")
		if !errors.Is(err, shared.ErrAuthorization) {
			t.Errorf("expected ErrAuthorization, got %v", err)
		}
	})

	t.Run("surfaces denial from the consent page", func(t *testing.T) {
		input := strings.NewReader("https://example.com/callback?error=access_denied&state=xyz\n")

		_, err := readRedirectCode(input, "xyz")
		if !errors.Is(err, shared.ErrAuthorization) {
			t.Errorf("expected ErrAuthorization, got %v", err)
		}
		if !strings.Contains(err.Error(), "access_denied") {
			t.Errorf("expected error code in message, got %v", err)
		}
	})

	t.Run("rejects URL without code", func(t *testing.T) {
		input := strings.NewReader("https://example.com/callback?state=xyz\n")

		_, err := readRedirectCode(input, "xyz")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		input := strings.NewReader("")

		_, err := readRedirectCode(input, "xyz")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestDatabaseCommands(t *testing.T) {
	newDBRunner := func(t *testing.T) (*Runner, *bytes.Buffer) {
		t.Helper()

		config := shared.DefaultConfig()
		config.Database.Path = ":memory:"

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output})
		if err := runner.openDatabase(); err != nil {
			t.Fatalf("openDatabase failed: %v", err)
		}
		t.Cleanup(func() { runner.db.Close() })
		return runner, output
	}

	t.Run("openDatabase is idempotent", func(t *testing.T) {
		runner, _ := newDBRunner(t)

		db := runner.db
		if err := runner.openDatabase(); err != nil {
			t.Fatalf("second openDatabase failed: %v", err)
		}
		if runner.db != db {
			t.Error("expected the same database handle")
		}
	})

	t.Run("connect without stored credentials", func(t *testing.T) {
		runner, _ := newDBRunner(t)

		err := runner.connect()
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("cache clear on empty cache", func(t *testing.T) {
		runner, output := newDBRunner(t)

		if err := runner.CacheClear(context.Background(), nil); err != nil {
			t.Fatalf("CacheClear failed: %v", err)
		}
		if !strings.Contains(output.String(), "Cache cleared") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("logout without stored credentials", func(t *testing.T) {
		runner, output := newDBRunner(t)

		if err := runner.AuthLogout(context.Background(), nil); err != nil {
			t.Fatalf("AuthLogout failed: %v", err)
		}
		if !strings.Contains(output.String(), "Logged out") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})
}

func TestSetupCreatesConfig(t *testing.T) {
	dir := t.TempDir()
	wd := tu.MustGetwd(t)
	tu.MustChdir(t, dir)
	t.Cleanup(func() { tu.MustChdir(t, wd) })

	config := shared.DefaultConfig()
	config.Database.Path = ":memory:"

	runner := NewRunner(RunnerOpts{Config: config, Output: &bytes.Buffer{}})

	cmd := setupCommand(runner)
	if err := cmd.Run(context.Background(), []string{"setup", "--config", "config.toml"}); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	t.Cleanup(func() {
		if runner.db != nil {
			runner.db.Close()
		}
	})

	tu.AssertFileExists(t, "config.toml")
	content := tu.MustReadFile(t, "config.toml")
	if !strings.Contains(content, "[spotify]") {
		t.Errorf("config template missing spotify section: %s", content)
	}
}
