package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultPath is where the configuration document is looked up by default.
const DefaultPath = "config/prompts.yaml"

// Loaded is the outcome of a Store.Load call.
type Loaded struct {
	// Template always contains every required placeholder.
	Template Template

	// Summary is the rendered framework, empty when none could be parsed.
	Summary Summary

	// Framework is the parsed framework the summary was rendered from.
	Framework Framework

	// Fallback is set when Template is the built-in fallback.
	Fallback bool

	// Reason explains why the fallback was used. Nil when Fallback is false.
	Reason error
}

// Store loads the prompt template and framework from a configuration file.
// It keeps no state between calls and is safe for concurrent use.
type Store struct {
	path     string
	fallback Template
	logger   *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report fallback paths.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithFallback replaces the built-in fallback template.
// A template that fails validation is ignored.
func WithFallback(t Template) Option {
	return func(s *Store) {
		if t.Validate() == nil {
			s.fallback = t
		}
	}
}

// NewStore creates a store reading from path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		fallback: Fallback,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the configuration file path.
func (s *Store) Path() string { return s.path }

// Template loads and returns the template and summary pair.
func (s *Store) Template() (Template, Summary) {
	l := s.Load()
	return l.Template, l.Summary
}

// Load reads the configuration file. It never fails: every error path
// substitutes the fallback template and is reported through Loaded.Reason.
func (s *Store) Load() Loaded {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.fail(Loaded{}, fmt.Errorf("%w: %s", ErrNotFound, s.path), zap.ErrorLevel)
		}
		return s.fail(Loaded{}, fmt.Errorf("%w: %v", ErrRead, err), zap.ErrorLevel)
	}
	return s.parse(data, FormatFor(s.path))
}

func (s *Store) parse(data []byte, format Format) Loaded {
	doc, err := parseDocument(data, format)
	if err != nil {
		level := zap.ErrorLevel
		if errors.Is(err, ErrEmpty) {
			level = zap.WarnLevel
		}
		return s.fail(Loaded{}, err, level)
	}

	var out Loaded
	fw, err := s.decodeFramework(doc)
	if err != nil {
		// The framework is optional context; keep going with an empty one.
		s.logger.Warn("framework section unusable", zap.String("path", s.path), zap.Error(err))
	} else {
		out.Framework = fw
		out.Summary = fw.Summary()
	}

	var raw string
	if err := doc.decode("prompt_template", &raw); err != nil {
		return s.fail(out, err, zap.ErrorLevel)
	}
	tmpl := Template(strings.TrimSpace(raw))
	if err := tmpl.Validate(); err != nil {
		return s.fail(out, err, zap.WarnLevel)
	}

	out.Template = tmpl
	return out
}

// decodeFramework reads the framework section, falling back to the legacy
// layout with tiers and outreach_principles at the top level.
func (s *Store) decodeFramework(doc document) (Framework, error) {
	var fw Framework
	if doc.has("framework") {
		if err := doc.decode("framework", &fw); err != nil {
			return Framework{}, err
		}
		return fw, nil
	}

	// Legacy sections are independent of each other.
	if err := doc.decode("outreach_principles", &fw.OutreachPrinciples); err != nil {
		s.logger.Warn("outreach principles unusable", zap.String("path", s.path), zap.Error(err))
		fw.OutreachPrinciples = nil
	}
	if err := doc.decode("tiers", &fw.Tiers); err != nil {
		s.logger.Warn("tiers unusable", zap.String("path", s.path), zap.Error(err))
		fw.Tiers = nil
	}
	return fw, nil
}

func (s *Store) fail(out Loaded, reason error, level zapcore.Level) Loaded {
	out.Template = s.fallback
	out.Fallback = true
	out.Reason = reason

	if ce := s.logger.Check(level, "using fallback prompt template"); ce != nil {
		ce.Write(zap.String("path", s.path), zap.Error(reason))
	}
	return out
}
