package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"edututor/internal/config"
	"edututor/internal/domain"
	"edututor/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// gpuAllLayers asks the runtime to offload every layer to the accelerator.
const gpuAllLayers = 999

const warmupPrompt = "Reply with the single word OK."

// Factory materializes the langchaingo model for a configuration.
type Factory func(cfg config.ModelConfig) (llms.Model, error)

// Loader performs the one-time acquisition of the model handle.
type Loader struct {
	cfg     config.ModelConfig
	factory Factory

	once   sync.Once
	handle *Handle
	err    error
}

// LoaderOption customizes a Loader.
type LoaderOption func(*Loader)

// WithFactory replaces the backend factory, mainly for tests.
func WithFactory(f Factory) LoaderOption {
	return func(l *Loader) { l.factory = f }
}

// NewLoader creates a Loader for cfg. Nothing is loaded until Load is called.
func NewLoader(cfg config.ModelConfig, opts ...LoaderOption) *Loader {
	l := &Loader{cfg: cfg, factory: NewModel}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load materializes the model once. Repeat calls return the same handle or error.
func (l *Loader) Load(ctx context.Context) (*Handle, error) {
	l.once.Do(func() {
		l.handle, l.err = l.load(ctx)
	})
	return l.handle, l.err
}

func (l *Loader) load(ctx context.Context) (*Handle, error) {
	log := logger.Get()
	log.Info("Loading language model",
		zap.String("backend", l.cfg.Backend),
		zap.String("model", l.cfg.Name),
		zap.String("device", l.cfg.Device))

	model, err := l.factory(l.cfg)
	if err != nil {
		log.Error("Failed to create language model client", zap.Error(err))
		return nil, domain.NewModelLoadError(err)
	}

	h := &Handle{model: model, name: l.cfg.Name, device: l.cfg.Device, timeout: l.cfg.Timeout}

	if l.cfg.Warmup {
		start := time.Now()
		if _, err := h.Complete(ctx, warmupPrompt, domain.CompletionLimits{MaxNewTokens: 1}); err != nil {
			log.Error("Language model warm-up failed", zap.Error(err))
			return nil, domain.NewModelLoadError(err)
		}
		log.Info("Language model warmed up", zap.Duration("duration", time.Since(start)))
	}
	return h, nil
}

// Handle is a loaded model. Completions are serialized by a single gate.
type Handle struct {
	mu      sync.Mutex
	model   llms.Model
	name    string
	device  string
	timeout time.Duration
}

// ModelName returns the configured model identifier.
func (h *Handle) ModelName() string { return h.name }

// Device returns the configured device preference.
func (h *Handle) Device() string { return h.device }

// Complete blocks until the model has produced its continuation of prompt.
func (h *Handle) Complete(ctx context.Context, prompt string, limits domain.CompletionLimits) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	opts := []llms.CallOption{llms.WithTemperature(limits.Temperature)}
	if limits.MaxNewTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(limits.MaxNewTokens))
	}
	if len(limits.Stop) > 0 {
		opts = append(opts, llms.WithStopWords(limits.Stop))
	}

	start := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, h.model, prompt, opts...)
	if err != nil {
		logger.Get().Error("Language model completion failed",
			zap.String("model", h.name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return "", domain.NewModelUnavailableError(err)
	}
	logger.Get().Debug("Language model completion finished",
		zap.String("model", h.name),
		zap.Int("max_new_tokens", limits.MaxNewTokens),
		zap.Duration("duration", time.Since(start)))

	// Some servers echo the prompt in front of the continuation.
	return strings.TrimPrefix(text, prompt), nil
}

var _ domain.ModelHost = (*Handle)(nil)

// DeviceProfile maps a device preference to the number of GPU layers to
// offload (-1 leaves the runtime default) and whether the f16 KV cache is used.
func DeviceProfile(device string) (numGPU int, f16 bool) {
	switch device {
	case "cpu":
		return 0, false
	case "gpu":
		return gpuAllLayers, true
	default:
		return -1, true
	}
}

// NewModel builds the langchaingo client selected by cfg.Backend.
func NewModel(cfg config.ModelConfig) (llms.Model, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	switch cfg.Backend {
	case "ollama":
		if cfg.ServerURL == "" {
			return nil, fmt.Errorf("ollama server URL cannot be empty")
		}
		opts := []ollama.Option{
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Name),
			ollama.WithHTTPClient(httpClient),
		}
		if cfg.KeepAlive != "" {
			opts = append(opts, ollama.WithKeepAlive(cfg.KeepAlive))
		}
		numGPU, f16 := DeviceProfile(cfg.Device)
		if numGPU >= 0 {
			opts = append(opts, ollama.WithRunnerNumGPU(numGPU))
		}
		opts = append(opts, ollama.WithRunnerF16KV(f16))
		return ollama.New(opts...)
	case "openai":
		opts := []openai.Option{
			openai.WithModel(cfg.Name),
			openai.WithHTTPClient(httpClient),
		}
		switch {
		case cfg.APIKey != "":
			opts = append(opts, openai.WithToken(cfg.APIKey))
		case cfg.ServerURL != "":
			// self-hosted OpenAI-compatible servers accept any token
			opts = append(opts, openai.WithToken("EMPTY"))
		}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		return openai.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported model backend: %q", cfg.Backend)
	}
}
