package main

import (
	"context"
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestContext(t *testing.T, args map[string]string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", "info", "")
	set.String("db", "", "")
	set.String("redis", "", "")
	set.String("redis-password", "", "")
	set.String("user", "", "")
	set.Bool("anonymous", false, "")
	for name, value := range args {
		require.NoError(t, set.Set(name, value))
	}
	return cli.NewContext(nil, set, nil)
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
			c := newTestContext(t, map[string]string{"log-level": level})
			assert.NoError(t, setupLogger(c), "level %q should be accepted", level)
		}
	})

	t.Run("invalid level rejected", func(t *testing.T) {
		c := newTestContext(t, map[string]string{"log-level": "verbose"})
		err := setupLogger(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("sets default logger", func(t *testing.T) {
		original := slog.Default()
		defer slog.SetDefault(original)

		c := newTestContext(t, map[string]string{"log-level": "debug"})
		require.NoError(t, setupLogger(c))
		assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestOpenStoreFlagValidation(t *testing.T) {
	t.Run("no store selected", func(t *testing.T) {
		c := newTestContext(t, nil)
		_, err := openStore(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "either --db or --redis")
	})

	t.Run("both stores selected", func(t *testing.T) {
		c := newTestContext(t, map[string]string{
			"db":    "/tmp/chats",
			"redis": "localhost:6379",
		})
		_, err := openStore(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})
}

func TestResolveIdentityFlagValidation(t *testing.T) {
	t.Run("no identity selected", func(t *testing.T) {
		c := newTestContext(t, nil)
		_, err := resolveIdentity(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "either --user or --anonymous")
	})

	t.Run("both identities selected", func(t *testing.T) {
		c := newTestContext(t, map[string]string{
			"user":      "alice",
			"anonymous": "true",
		})
		_, err := resolveIdentity(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("user flag", func(t *testing.T) {
		c := newTestContext(t, map[string]string{"user": "alice"})
		resolver, err := resolveIdentity(c)
		require.NoError(t, err)

		ident, err := resolver.Resolve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "alice", ident.Key())
	})

	t.Run("anonymous flag", func(t *testing.T) {
		c := newTestContext(t, map[string]string{"anonymous": "true"})
		resolver, err := resolveIdentity(c)
		require.NoError(t, err)

		ident, err := resolver.Resolve(context.Background())
		require.NoError(t, err)
		assert.True(t, ident.IsAnonymous())
	})
}
