package docfill

import (
	"io"
	"log/slog"

	"github.com/javajack/docfill/grid"
)

// ProgressFunc receives fill progress as a percentage and a short message.
type ProgressFunc func(percent int, message string)

// Options holds configuration for the Filler.
type Options struct {
	templatePath   string
	templateReader io.Reader
	format         Format
	config         *Config
	logger         *slog.Logger
	progress       ProgressFunc
	normalize      bool
	preWrite       func(grid.Document) error
}

func defaultOptions() *Options {
	return &Options{
		normalize: true,
	}
}

// Option configures the Filler.
type Option func(*Options)

// WithTemplate sets the template file path.
func WithTemplate(path string) Option {
	return func(o *Options) { o.templatePath = path }
}

// WithTemplateReader sets the template as an io.Reader.
func WithTemplateReader(r io.Reader) Option {
	return func(o *Options) { o.templateReader = r }
}

// WithFormat forces the template format instead of detecting it from the
// file extension or the archive contents.
func WithFormat(f Format) Option {
	return func(o *Options) { o.format = f }
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(o *Options) { o.config = cfg }
}

// WithLogger sets the structured logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithProgress sets a callback invoked at the phase boundaries of a fill.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Options) { o.progress = fn }
}

// WithNormalize controls whether the plan is normalized against the
// template before writing (default: true).
func WithNormalize(normalize bool) Option {
	return func(o *Options) { o.normalize = normalize }
}

// WithPreWrite sets a callback executed after filling and before writing
// the output.
func WithPreWrite(fn func(grid.Document) error) Option {
	return func(o *Options) { o.preWrite = fn }
}
