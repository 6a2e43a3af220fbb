package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"edututor/internal/config"
	"edututor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel is a scripted llms.Model that records call options.
type fakeModel struct {
	mu       sync.Mutex
	reply    func(prompt string) (string, error)
	prompts  []string
	options  []llms.CallOptions
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	prompt := ""
	for _, part := range messages[0].Parts {
		if text, ok := part.(llms.TextContent); ok {
			prompt += text.Text
		}
	}

	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.options = append(f.options, opts)
	f.mu.Unlock()

	time.Sleep(time.Millisecond)
	text, err := f.reply(prompt)
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func testModelConfig() config.ModelConfig {
	return config.ModelConfig{Backend: "ollama", Name: "granite3.3:2b", ServerURL: "http://localhost:11434", Device: "auto", Timeout: time.Second}
}

func TestLoader_LoadIsIdempotent(t *testing.T) {
	var builds int
	model := &fakeModel{reply: func(string) (string, error) { return "OK", nil }}
	loader := NewLoader(testModelConfig(), WithFactory(func(config.ModelConfig) (llms.Model, error) {
		builds++
		return model, nil
	}))

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
	assert.Equal(t, "granite3.3:2b", first.ModelName())
}

func TestLoader_WarmupFailureIsModelLoadError(t *testing.T) {
	cfg := testModelConfig()
	cfg.Warmup = true
	model := &fakeModel{reply: func(string) (string, error) { return "", errors.New("model not found") }}
	loader := NewLoader(cfg, WithFactory(func(config.ModelConfig) (llms.Model, error) { return model, nil }))

	handle, err := loader.Load(context.Background())

	assert.Nil(t, handle)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
	assert.Equal(t, domain.CodeModelLoad, domain.CodeOf(err))

	_, again := loader.Load(context.Background())
	assert.Same(t, err, again)
}

func TestLoader_FactoryFailureIsModelLoadError(t *testing.T) {
	loader := NewLoader(testModelConfig(), WithFactory(func(config.ModelConfig) (llms.Model, error) {
		return nil, errors.New("weights unavailable")
	}))

	_, err := loader.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrModelLoad)
	assert.Contains(t, err.Error(), "weights unavailable")
}

func TestHandle_CompletePassesLimits(t *testing.T) {
	model := &fakeModel{reply: func(prompt string) (string, error) { return prompt + "Q1: generated", nil }}
	h := &Handle{model: model, name: "test", timeout: time.Second}

	text, err := h.Complete(context.Background(), "PROMPT ", domain.CompletionLimits{
		MaxNewTokens: 240,
		Temperature:  0.7,
		Stop:         []string{"\n\n\n"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Q1: generated", text, "prompt echo is stripped")
	require.Len(t, model.options, 1)
	assert.Equal(t, 240, model.options[0].MaxTokens)
	assert.InDelta(t, 0.7, model.options[0].Temperature, 1e-9)
	assert.Equal(t, []string{"\n\n\n"}, model.options[0].StopWords)
}

func TestHandle_CompleteFailureIsModelUnavailable(t *testing.T) {
	model := &fakeModel{reply: func(string) (string, error) { return "", errors.New("connection refused") }}
	h := &Handle{model: model, name: "test"}

	_, err := h.Complete(context.Background(), "prompt", domain.CompletionLimits{MaxNewTokens: 10})

	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestHandle_CompleteIsSerialized(t *testing.T) {
	model := &fakeModel{reply: func(string) (string, error) { return "ok", nil }}
	h := &Handle{model: model, name: "test"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Complete(context.Background(), "prompt", domain.CompletionLimits{MaxNewTokens: 5})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), model.maxSeen.Load())
	assert.Len(t, model.prompts, 8)
}

func TestDeviceProfile(t *testing.T) {
	tests := []struct {
		device  string
		wantGPU int
		wantF16 bool
	}{
		{"cpu", 0, false},
		{"gpu", gpuAllLayers, true},
		{"auto", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.device, func(t *testing.T) {
			numGPU, f16 := DeviceProfile(tt.device)
			assert.Equal(t, tt.wantGPU, numGPU)
			assert.Equal(t, tt.wantF16, f16)
		})
	}
}

func TestNewModel_Validation(t *testing.T) {
	cfg := testModelConfig()
	cfg.Name = ""
	_, err := NewModel(cfg)
	assert.ErrorContains(t, err, "model name cannot be empty")

	cfg = testModelConfig()
	cfg.ServerURL = ""
	_, err = NewModel(cfg)
	assert.ErrorContains(t, err, "ollama server URL cannot be empty")

	cfg = testModelConfig()
	cfg.Backend = "torch"
	_, err = NewModel(cfg)
	assert.ErrorContains(t, err, "unsupported model backend")
}

func TestNewModel_Ollama(t *testing.T) {
	model, err := NewModel(testModelConfig())
	require.NoError(t, err)
	assert.NotNil(t, model)
}
