package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel returns a canned response (or error) and captures the prompt.
type fakeModel struct {
	response string
	err      error
	prompt   string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, part := range messages[len(messages)-1].Parts {
		if text, ok := part.(llms.TextContent); ok {
			f.prompt = text.Text
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestService(t *testing.T, model llms.Model) *Service {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.RequestsPerSecond = 1000 // no throttling in tests
	return NewServiceWithModel(cfg, model)
}

func TestLookup_Success(t *testing.T) {
	model := &fakeModel{response: `{
		"address": "123 Main St",
		"city": "Seattle",
		"state": "WA",
		"website_or_email": "acme.example",
		"phone": "206-555-0100",
		"source_urls": ["https://acme.example/contact"]
	}`}
	svc := newTestService(t, model)

	info, err := svc.Lookup(context.Background(), "Acme Co")
	require.NoError(t, err)

	assert.Equal(t, "123 Main St", info.Address)
	assert.Equal(t, "Seattle", info.City)
	assert.Equal(t, "WA", info.State)
	assert.Equal(t, "acme.example", info.WebsiteOrEmail)
	assert.Equal(t, "206-555-0100", info.Phone)
	assert.Equal(t, []string{"https://acme.example/contact"}, info.SourceURLs)
	assert.Contains(t, model.prompt, `"Acme Co"`)
}

func TestLookup_FencedResponse(t *testing.T) {
	model := &fakeModel{response: "```json\n{\"city\": \"Seattle\", \"state\": \"WA\"}\n```"}
	svc := newTestService(t, model)

	info, err := svc.Lookup(context.Background(), "Acme Co")
	require.NoError(t, err)
	assert.Equal(t, "Seattle", info.City)
}

func TestLookup_EmptyBusinessName(t *testing.T) {
	model := &fakeModel{}
	svc := newTestService(t, model)

	_, err := svc.Lookup(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, ClassMissingFields, Classify(err))
	assert.Empty(t, model.prompt, "no provider call for an empty name")
}

func TestLookup_ProviderError(t *testing.T) {
	svc := newTestService(t, &fakeModel{err: errors.New("502 bad gateway")})

	_, err := svc.Lookup(context.Background(), "Acme Co")
	require.Error(t, err)
	assert.Equal(t, ClassAPIError, Classify(err))
}

func TestLookup_InvalidJSON(t *testing.T) {
	svc := newTestService(t, &fakeModel{response: "Sure! The address is 123 Main St."})

	_, err := svc.Lookup(context.Background(), "Acme Co")
	require.Error(t, err)
	assert.Equal(t, ClassJSONDecodeError, Classify(err))
}

func TestLookup_BusinessNotFound(t *testing.T) {
	svc := newTestService(t, &fakeModel{response: `{"error": "No company named \"Acme Co\" could be found."}`})

	_, err := svc.Lookup(context.Background(), "Acme Co")
	require.Error(t, err)
	assert.Equal(t, ClassBusinessNotFound, Classify(err))
	assert.Contains(t, err.Error(), "could be found")
}

func TestLookup_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no city", `{"address": "123 Main St", "state": "WA"}`},
		{"no state", `{"address": "123 Main St", "city": "Seattle"}`},
		{"empty object", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &fakeModel{response: tt.response})
			_, err := svc.Lookup(context.Background(), "Acme Co")
			require.Error(t, err)
			assert.Equal(t, ClassMissingFields, Classify(err))
		})
	}
}

func TestLookup_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(t, &fakeModel{response: `{"city": "Seattle", "state": "WA"}`})
	_, err := svc.Lookup(ctx, "Acme Co")
	require.Error(t, err)
	assert.Equal(t, ClassAPIError, Classify(err))
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.input))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Model = ""
	require.Error(t, cfg.Validate())

	cfg = NewDefaultConfig()
	cfg.RequestsPerSecond = 0
	require.Error(t, cfg.Validate())
}
