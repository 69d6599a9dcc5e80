package megagen

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/11philip22/meganz-account-generator/internal/guerrilla"
	"github.com/11philip22/meganz-account-generator/internal/mega"
)

// mailProvider is the disposable-mailbox surface a generation attempt needs.
// *guerrilla.Client implements it.
type mailProvider interface {
	CreateAddress(ctx context.Context, alias string) (string, error)
	ListMessages(ctx context.Context, address string) ([]guerrilla.Message, error)
	FetchMessage(ctx context.Context, address string, id guerrilla.MessageID) (*guerrilla.MessageDetails, error)
	DeleteAddress(ctx context.Context, address string) error
}

// accountService is the registration surface of the account provider.
// *mega.Client implements it.
type accountService interface {
	Register(ctx context.Context, email, password, name string) (*mega.RegistrationState, error)
	VerifyRegistration(ctx context.Context, state *mega.RegistrationState, confirmKey string) error
}

// AccountGenerator creates MEGA accounts backed by disposable Guerrilla Mail
// addresses. It is safe for concurrent use; every Generate call runs an
// independent attempt with its own mailbox and registration state.
type AccountGenerator struct {
	mail     mailProvider
	accounts accountService

	timeout      time.Duration
	pollInterval time.Duration
	logger       *slog.Logger
}

// New creates an account generator.
func New(opts ...Option) (*AccountGenerator, error) {
	cfg := &generatorConfig{
		timeout:      defaultTimeout,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %v", cfg.timeout)
	}
	if cfg.pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %v", cfg.pollInterval)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = buildHTTPClient(cfg.proxyURL)
	}

	return &AccountGenerator{
		mail:         guerrilla.New(guerrilla.WithHTTPClient(httpClient)),
		accounts:     mega.New(mega.WithHTTPClient(httpClient)),
		timeout:      cfg.timeout,
		pollInterval: cfg.pollInterval,
		logger:       logger,
	}, nil
}

// buildHTTPClient returns the HTTP client shared by the mailbox and the MEGA
// API. The proxy URL is parsed per request, so a malformed value surfaces as
// a transport error on first use rather than at construction.
func buildHTTPClient(proxyURL string) *http.Client {
	client := &http.Client{Timeout: 30 * time.Second}
	if proxyURL == "" {
		return client
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = func(*http.Request) (*url.URL, error) {
		return url.Parse(proxyURL)
	}
	client.Transport = transport
	return client
}

// Generate creates one account with the given password and a random display
// name. It blocks until the account is confirmed, the configured timeout
// expires, or ctx is cancelled.
func (g *AccountGenerator) Generate(ctx context.Context, password string) (*GeneratedAccount, error) {
	return g.generate(ctx, password, randomName())
}

// GenerateWithName is Generate with a caller-chosen display name.
func (g *AccountGenerator) GenerateWithName(ctx context.Context, password, name string) (*GeneratedAccount, error) {
	return g.generate(ctx, password, name)
}

func (g *AccountGenerator) generate(ctx context.Context, password, name string) (*GeneratedAccount, error) {
	email, err := g.mail.CreateAddress(ctx, randomAlias())
	if err != nil {
		return nil, &MailError{Op: "create address", Err: err}
	}
	g.logger.Debug("mailbox created", "address", email)

	state, err := g.accounts.Register(ctx, email, password, name)
	if err != nil {
		return nil, &AccountServiceError{Op: "register", Err: err}
	}
	g.logger.Debug("registration started", "address", email, "handle", state.UserHandle)

	confirmKey, err := g.waitForConfirmation(ctx, email)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("confirmation key extracted", "address", email)

	if err := g.accounts.VerifyRegistration(ctx, state, confirmKey); err != nil {
		return nil, &AccountServiceError{Op: "verify", Err: err}
	}

	// The mailbox has served its purpose; failing to release it does not
	// fail the attempt.
	if err := g.mail.DeleteAddress(ctx, email); err != nil {
		g.logger.Debug("mailbox cleanup failed", "address", email, "error", err)
	}

	return &GeneratedAccount{
		Email:    email,
		Password: password,
		Name:     name,
	}, nil
}
