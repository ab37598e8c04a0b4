// Package enrich looks up missing business contact information through an
// LLM provider that returns a strict JSON contact object.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/pdffill/internal/config"
)

// ContactInfo is a successful lookup result.
type ContactInfo struct {
	Address        string   `json:"address"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	WebsiteOrEmail string   `json:"website_or_email"`
	Phone          string   `json:"phone"`
	SourceURLs     []string `json:"source_urls"`
}

// Lookup is the external contact-info capability. Implementations return
// either a populated ContactInfo or a classified error (see Classify).
type Lookup interface {
	Lookup(ctx context.Context, businessName string) (*ContactInfo, error)
}

// Config holds enrichment configuration.
type Config struct {
	Model             string          `koanf:"model"`
	BaseURL           string          `koanf:"base_url"`
	APIKey            config.Secret   `koanf:"api_key"`
	RequestsPerSecond float64         `koanf:"requests_per_second"`
	Timeout           config.Duration `koanf:"timeout"`
}

// NewDefaultConfig returns enrichment defaults. The API key falls back to
// OPENAI_API_KEY when not configured.
func NewDefaultConfig() *Config {
	return &Config{
		Model:             "gpt-4o-mini",
		RequestsPerSecond: 1,
		Timeout:           config.Duration(0),
	}
}

// Validate checks configuration for errors.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %f", c.RequestsPerSecond)
	}
	return nil
}

// Service performs contact lookups against an LLM provider.
type Service struct {
	llm     llms.Model
	limiter *rate.Limiter
	config  *Config
}

// NewService creates a lookup service backed by the OpenAI-compatible API
// from config.
func NewService(cfg *Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	apiKey := cfg.APIKey.Value()
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("API key required: set enrichment.api_key or OPENAI_API_KEY")
	}

	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(apiKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	return NewServiceWithModel(cfg, llm), nil
}

// NewServiceWithModel creates a lookup service on an existing model.
// Used by tests to inject a fake provider.
func NewServiceWithModel(cfg *Config, llm llms.Model) *Service {
	return &Service{
		llm:     llm,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		config:  cfg,
	}
}

// Lookup asks the provider for official contact information. Every error
// carries exactly one Classification.
func (s *Service) Lookup(ctx context.Context, businessName string) (*ContactInfo, error) {
	if strings.TrimSpace(businessName) == "" {
		return nil, newLookupError(ClassMissingFields, errors.New("business name is empty"))
	}

	if s.config.Timeout.Duration() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout.Duration())
		defer cancel()
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, newLookupError(ClassAPIError, err)
	}

	output, err := llms.GenerateFromSinglePrompt(ctx, s.llm, lookupPrompt(businessName),
		llms.WithTemperature(0),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, newLookupError(ClassAPIError, err)
	}

	return parseLookupResponse(businessName, output)
}

// parseLookupResponse decodes the provider's JSON reply and validates the
// required fields.
func parseLookupResponse(businessName, output string) (*ContactInfo, error) {
	var raw struct {
		ContactInfo
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(stripFences(output)), &raw); err != nil {
		return nil, newLookupError(ClassJSONDecodeError, err)
	}

	if raw.Error != "" {
		return nil, newLookupError(ClassBusinessNotFound, errors.New(raw.Error))
	}

	if raw.City == "" || raw.State == "" {
		return nil, newLookupError(ClassMissingFields,
			fmt.Errorf("response for %q lacks city or state", businessName))
	}

	info := raw.ContactInfo
	return &info, nil
}

// stripFences removes a markdown code fence some providers wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// lookupPrompt states the sourcing rules and the error-object contract the
// parser expects.
func lookupPrompt(businessName string) string {
	return fmt.Sprintf(`Find the official contact information for the company named %[1]q.

You must determine the company's:
1. Street address (headquarters or main office)
2. City
3. State or province (if applicable)
4. Official website URL
5. Phone number (if applicable)
6. Source URLs of the sources you used.

Follow these rules:

1. Use authoritative and trustworthy sources such as:
   - The company's official website (preferred)
   - LinkedIn company pages
   - Business registries (e.g., SEC filings, government listings)
   - Reliable business directories (Crunchbase, Bloomberg, etc.)

2. The "website_or_email" field must always be the company's official domain,
   not a LinkedIn or directory page.

3. The "address" should be the primary headquarters address, not a branch
   office or distributor. Include street number and name where available.

4. If you find multiple addresses or conflicting information:
   - Prefer the one listed on the company's official site.
   - Otherwise, prefer the headquarters location listed by multiple reliable sources.
   - A United States address, if one exists, should take precedence.

5. If the company cannot be found or lacks sufficient information to
   determine an address and website, return only a JSON object with an
   "error" key and a clear message, e.g.:
   {"error": "No company named %[1]q could be found."}

Respond with a single JSON object with keys: address, city, state,
website_or_email, phone, source_urls (array of strings). No other keys, no
surrounding prose.`, businessName)
}
