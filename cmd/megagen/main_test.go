package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	megagen "github.com/11philip22/meganz-account-generator"
)

var testAccount = &megagen.GeneratedAccount{
	Email:    "abc123def456@guerrillamailblock.com",
	Password: "hunter2hunter2",
	Name:     "Alex Walker",
}

// fakeGenerator implements accountMaker for testing.
type fakeGenerator struct {
	generateFn         func(ctx context.Context, password string) (*megagen.GeneratedAccount, error)
	generateWithNameFn func(ctx context.Context, password, name string) (*megagen.GeneratedAccount, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, password string) (*megagen.GeneratedAccount, error) {
	if f.generateFn != nil {
		return f.generateFn(ctx, password)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeGenerator) GenerateWithName(ctx context.Context, password, name string) (*megagen.GeneratedAccount, error) {
	if f.generateWithNameFn != nil {
		return f.generateWithNameFn(ctx, password, name)
	}
	return nil, errors.New("not implemented")
}

// testEnv wires run() to in-memory buffers and a recorded sleep.
type testEnv struct {
	cfg    Config
	out    bytes.Buffer
	errOut bytes.Buffer
	sleeps []time.Duration
}

func newTestEnv(gen accountMaker) *testEnv {
	env := &testEnv{}
	env.cfg = Config{
		Stdout: &env.out,
		Stderr: &env.errOut,
		Sleep:  func(d time.Duration) { env.sleeps = append(env.sleeps, d) },
		NewGenerator: func(opts ...megagen.Option) (accountMaker, error) {
			return gen, nil
		},
	}
	return env
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, os.Stdout, cfg.Stdout)
	assert.Equal(t, os.Stderr, cfg.Stderr)
	require.NotNil(t, cfg.Sleep)
	require.NotNil(t, cfg.NewGenerator)
}

func TestParseArgs_Defaults(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseArgs([]string{"--password", "pw"}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "pw", opts.password)
	assert.Equal(t, "", opts.name)
	assert.Equal(t, 1, opts.count)
	assert.Equal(t, "", opts.output)
	assert.Equal(t, "", opts.proxy)
	assert.False(t, opts.verbose)
}

func TestParseArgs_AllFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseArgs([]string{
		"--password", "pw",
		"--name", "John Doe",
		"--count", "3",
		"--output", "accounts.txt",
		"--proxy", "socks5://127.0.0.1:9050",
		"--verbose",
	}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "John Doe", opts.name)
	assert.Equal(t, 3, opts.count)
	assert.Equal(t, "accounts.txt", opts.output)
	assert.Equal(t, "socks5://127.0.0.1:9050", opts.proxy)
	assert.True(t, opts.verbose)
}

func TestParseArgs_MissingPassword(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseArgs([]string{"--count", "2"}, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--password is required")
	assert.Contains(t, stderr.String(), "Usage")
}

func TestParseArgs_InvalidCount(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseArgs([]string{"--password", "pw", "--count", "0"}, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--count must be at least 1")
}

func TestRun_SingleAccount(t *testing.T) {
	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, password string) (*megagen.GeneratedAccount, error) {
			assert.Equal(t, "hunter2hunter2", password)
			return testAccount, nil
		},
	}
	env := newTestEnv(gen)

	err := run([]string{"megagen", "--password", "hunter2hunter2"}, env.cfg)
	require.NoError(t, err)

	out := env.out.String()
	assert.Contains(t, out, "Account created successfully!")
	assert.Contains(t, out, "Email: abc123def456@guerrillamailblock.com")
	assert.Contains(t, out, "Summary: 1/1 accounts created successfully")
	assert.NotContains(t, out, "Generating account")
	assert.Empty(t, env.sleeps)
}

func TestRun_MultipleAccounts(t *testing.T) {
	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, password string) (*megagen.GeneratedAccount, error) {
			return testAccount, nil
		},
	}
	env := newTestEnv(gen)

	err := run([]string{"megagen", "--password", "pw", "--count", "3"}, env.cfg)
	require.NoError(t, err)

	out := env.out.String()
	assert.Contains(t, out, "Generating account 1/3...")
	assert.Contains(t, out, "Generating account 3/3...")
	assert.Contains(t, out, "Summary: 3/3 accounts created successfully")

	assert.Equal(t, []time.Duration{attemptPause, attemptPause}, env.sleeps)
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	attempt := 0
	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, password string) (*megagen.GeneratedAccount, error) {
			attempt++
			if attempt == 1 {
				return nil, errors.New("mailbox unavailable")
			}
			return testAccount, nil
		},
	}
	env := newTestEnv(gen)

	err := run([]string{"megagen", "--password", "pw", "--count", "2"}, env.cfg)
	require.NoError(t, err)

	assert.Contains(t, env.errOut.String(), "Failed to generate account: mailbox unavailable")
	assert.Contains(t, env.out.String(), "Summary: 1/2 accounts created successfully")
	assert.Equal(t, []time.Duration{attemptPause}, env.sleeps)
}

func TestRun_AllAttemptsFail(t *testing.T) {
	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, password string) (*megagen.GeneratedAccount, error) {
			return nil, errors.New("boom")
		},
	}
	env := newTestEnv(gen)

	err := run([]string{"megagen", "--password", "pw", "--count", "2"}, env.cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no accounts were created")
	assert.Contains(t, env.out.String(), "Summary: 0/2 accounts created successfully")
}

func TestRun_GeneratorInitError(t *testing.T) {
	env := newTestEnv(nil)
	env.cfg.NewGenerator = func(opts ...megagen.Option) (accountMaker, error) {
		return nil, errors.New("bad proxy")
	}

	err := run([]string{"megagen", "--password", "pw"}, env.cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize generator")
}

func TestRun_NameFlagUsesGenerateWithName(t *testing.T) {
	var gotName string
	gen := &fakeGenerator{
		generateWithNameFn: func(ctx context.Context, password, name string) (*megagen.GeneratedAccount, error) {
			gotName = name
			return testAccount, nil
		},
	}
	env := newTestEnv(gen)

	err := run([]string{"megagen", "--password", "pw", "--name", "John Doe"}, env.cfg)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", gotName)
}

func TestRun_SavesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.txt")
	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, password string) (*megagen.GeneratedAccount, error) {
			return testAccount, nil
		},
	}
	env := newTestEnv(gen)

	err := run([]string{"megagen", "--password", "pw", "--output", path}, env.cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "---\n" +
		"Email: abc123def456@guerrillamailblock.com\n" +
		"Password: hunter2hunter2\n" +
		"Name: Alex Walker\n\n"
	assert.Equal(t, want, string(data))
	assert.Contains(t, env.out.String(), "Saved to "+path)
}

func TestRun_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.txt")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0600))

	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, password string) (*megagen.GeneratedAccount, error) {
			return testAccount, nil
		},
	}
	env := newTestEnv(gen)

	err := run([]string{"megagen", "--password", "pw", "--output", path}, env.cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("existing\n---\n")))
}

func TestRun_FileWriteFailureWarnsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "accounts.txt")
	gen := &fakeGenerator{
		generateFn: func(ctx context.Context, password string) (*megagen.GeneratedAccount, error) {
			return testAccount, nil
		},
	}
	env := newTestEnv(gen)

	err := run([]string{"megagen", "--password", "pw", "--output", path}, env.cfg)

	require.NoError(t, err)
	assert.Contains(t, env.errOut.String(), "warning: failed to save to "+path)
	assert.Contains(t, env.out.String(), "Summary: 1/1 accounts created successfully")
}

func TestRun_EnvReadError(t *testing.T) {
	t.Setenv("MEGAGEN_TIMEOUT", "not-a-duration")

	env := newTestEnv(&fakeGenerator{})
	err := run([]string{"megagen", "--password", "pw"}, env.cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read environment")
}

func TestLoadEnv_Defaults(t *testing.T) {
	// t.Setenv records the restore; Unsetenv clears for the test itself.
	for _, key := range []string{"MEGAGEN_TIMEOUT", "MEGAGEN_POLL_INTERVAL", "MEGAGEN_PROXY"} {
		t.Setenv(key, "placeholder")
		os.Unsetenv(key)
	}

	env, err := loadEnv()
	require.NoError(t, err)

	assert.Equal(t, 300*time.Second, env.Timeout)
	assert.Equal(t, 5*time.Second, env.PollInterval)
	assert.Equal(t, "", env.Proxy)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("MEGAGEN_TIMEOUT", "90s")
	t.Setenv("MEGAGEN_POLL_INTERVAL", "2s")
	t.Setenv("MEGAGEN_PROXY", "socks5://127.0.0.1:9050")

	env, err := loadEnv()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, env.Timeout)
	assert.Equal(t, 2*time.Second, env.PollInterval)
	assert.Equal(t, "socks5://127.0.0.1:9050", env.Proxy)
}

func TestAppendAccount_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, appendAccount(path, testAccount))
	require.NoError(t, appendAccount(path, testAccount))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	single := "---\n" + testAccount.String() + "\n\n"
	assert.Equal(t, single+single, string(data))
}
