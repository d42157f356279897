package pdftext

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tsawler/pdftext/text"
)

// Config holds the tunable parts of extraction.
type Config struct {
	// Workers bounds how many documents GetTextAll extracts at once.
	Workers int `validate:"min=1,max=64"`

	// SpaceThreshold is the array adjustment above which a space is
	// emitted.
	SpaceThreshold float64 `validate:"min=0"`

	// SpacingRule picks the show operators SpaceThreshold applies to.
	SpacingRule text.SpacingRule `validate:"oneof=literal array"`

	// MaxResolveDepth bounds chains of indirect references.
	MaxResolveDepth int `validate:"min=1,max=1000"`
}

// NewDefaultConfig returns the configuration used when no WithConfig
// option is given.
func NewDefaultConfig() *Config {
	return &Config{
		Workers:         4,
		SpaceThreshold:  text.DefaultSpaceThreshold,
		SpacingRule:     text.SpacingLiteral,
		MaxResolveDepth: 100,
	}
}

// Validate checks every field against its bounds.
func (cfg *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(cfg)
}

type options struct {
	cfg    Config
	log    *slog.Logger
	tracer trace.TracerProvider
}

// Option configures an Extractor and the package-level helpers.
type Option func(*options)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger. A nil logger discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithTracerProvider sets where extraction spans are sent. The default is
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracer = tp
	}
}

func buildOptions(opts []Option) (options, error) {
	o := options{cfg: *NewDefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	if o.tracer == nil {
		o.tracer = otel.GetTracerProvider()
	}
	if err := o.cfg.Validate(); err != nil {
		return o, fmt.Errorf("invalid config: %w", err)
	}
	return o, nil
}
