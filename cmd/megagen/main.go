// Command megagen creates MEGA.nz accounts backed by disposable
// Guerrilla Mail addresses.
//
// Usage:
//
//	megagen --password <PASSWORD> [--name <NAME>] [--count <N>] [--output <FILE>] [--proxy <URL>]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	megagen "github.com/11philip22/meganz-account-generator"
)

// attemptPause is the fixed pause between consecutive attempts, to stay
// under the provider's rate limits.
const attemptPause = 30 * time.Second

var divider = strings.Repeat("=", 40)

// accountMaker is the surface of *megagen.AccountGenerator the command uses.
type accountMaker interface {
	Generate(ctx context.Context, password string) (*megagen.GeneratedAccount, error)
	GenerateWithName(ctx context.Context, password, name string) (*megagen.GeneratedAccount, error)
}

// Config wires the command's dependencies so tests can intercept them.
type Config struct {
	Stdout io.Writer
	Stderr io.Writer
	Sleep  func(time.Duration)

	// NewGenerator builds the account generator.
	NewGenerator func(opts ...megagen.Option) (accountMaker, error)
}

func DefaultConfig() Config {
	return Config{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Sleep:  time.Sleep,
		NewGenerator: func(opts ...megagen.Option) (accountMaker, error) {
			return megagen.New(opts...)
		},
	}
}

type options struct {
	password string
	name     string
	count    int
	output   string
	proxy    string
	verbose  bool
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("megagen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.password, "password", "", "password for the new account(s) (required)")
	fs.StringVar(&opts.name, "name", "", "name for the account (random if not specified)")
	fs.IntVar(&opts.count, "count", 1, "number of accounts to generate")
	fs.StringVar(&opts.output, "output", "", "output file to save credentials (appends to file)")
	fs.StringVar(&opts.proxy, "proxy", "", "proxy URL for all traffic")
	fs.BoolVar(&opts.verbose, "verbose", false, "log attempt progress to stderr")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.password == "" {
		fs.Usage()
		return nil, errors.New("--password is required")
	}
	if opts.count < 1 {
		return nil, fmt.Errorf("--count must be at least 1, got %d", opts.count)
	}
	return opts, nil
}

func run(args []string, cfg Config) error {
	opts, err := parseArgs(args[1:], cfg.Stderr)
	if err != nil {
		return err
	}

	env, err := loadEnv()
	if err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	proxy := opts.proxy
	if proxy == "" {
		proxy = env.Proxy
	}

	genOpts := []megagen.Option{
		megagen.WithTimeout(env.Timeout),
		megagen.WithPollInterval(env.PollInterval),
	}
	if proxy != "" {
		genOpts = append(genOpts, megagen.WithProxy(proxy))
	}
	if opts.verbose {
		handler := slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		genOpts = append(genOpts, megagen.WithLogger(slog.New(handler)))
	}

	gen, err := cfg.NewGenerator(genOpts...)
	if err != nil {
		return fmt.Errorf("initialize generator: %w", err)
	}

	fmt.Fprintf(cfg.Stdout, "MEGA.nz Account Generator\n%s\n", divider)

	ctx := context.Background()
	created := 0

	for i := 1; i <= opts.count; i++ {
		if opts.count > 1 {
			fmt.Fprintf(cfg.Stdout, "\nGenerating account %d/%d...\n", i, opts.count)
		}

		account, err := generateOne(ctx, gen, opts)
		if err != nil {
			fmt.Fprintf(cfg.Stderr, "\nFailed to generate account: %v\n", err)
		} else {
			created++
			fmt.Fprintf(cfg.Stdout, "\n%s\nAccount created successfully!\n%s\n%s\n", divider, account, divider)

			if opts.output != "" {
				if err := appendAccount(opts.output, account); err != nil {
					fmt.Fprintf(cfg.Stderr, "warning: failed to save to %s: %v\n", opts.output, err)
				} else {
					fmt.Fprintf(cfg.Stdout, "Saved to %s\n", opts.output)
				}
			}
		}

		if i < opts.count {
			fmt.Fprintf(cfg.Stdout, "\nWaiting %v before next account...\n", attemptPause)
			cfg.Sleep(attemptPause)
		}
	}

	fmt.Fprintf(cfg.Stdout, "\n%s\nSummary: %d/%d accounts created successfully\n", divider, created, opts.count)
	if created == 0 {
		return errors.New("no accounts were created")
	}
	return nil
}

func generateOne(ctx context.Context, gen accountMaker, opts *options) (*megagen.GeneratedAccount, error) {
	if opts.name != "" {
		return gen.GenerateWithName(ctx, opts.password, opts.name)
	}
	return gen.Generate(ctx, opts.password)
}

// appendAccount writes one credential block to the output file, creating it
// if necessary.
func appendAccount(path string, account *megagen.GeneratedAccount) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f, "---\n%s\n\n", account); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
