package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/randalmurphal/prospectkit/generate"
	"github.com/randalmurphal/prospectkit/model"
	"github.com/randalmurphal/prospectkit/parser"
)

// Defaults used by New.
const (
	DefaultDir      = "output"
	DefaultLinkName = "list1.md"
	DefaultTitle    = "CustomerFinder MVP Results"
	DefaultMarket   = "Qatar"

	// businessRunes bounds the business line in the header.
	businessRunes = 100

	fileTimeLayout   = "20060102_150405"
	headerTimeLayout = "2006-01-02 15:04:05"
)

// DisplayZone is the zone used for header timestamps and file names (UTC+3).
var DisplayZone = time.FixedZone("AST", 3*60*60)

var (
	// ErrNoResult is returned when there is nothing to export.
	ErrNoResult = errors.New("no result to export")

	// ErrNotSuccessful is returned for failed generations.
	ErrNotSuccessful = errors.New("generation did not succeed")

	// ErrEmptyContent is returned when the provider returned no text.
	ErrEmptyContent = errors.New("generated content is empty")
)

// Exporter renders results and writes them to a directory.
type Exporter struct {
	dir    string
	link   string
	title  string
	market string
	zone   *time.Location
	logger *zap.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLink sets the path of the latest-file symlink. Empty disables it.
func WithLink(path string) Option {
	return func(e *Exporter) { e.link = path }
}

// WithMarket sets the market named in the header.
func WithMarket(market string) Option {
	return func(e *Exporter) { e.market = market }
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(e *Exporter) { e.title = title }
}

// WithZone sets the display zone.
func WithZone(loc *time.Location) Option {
	return func(e *Exporter) { e.zone = loc }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) { e.logger = logger }
}

// New creates an Exporter writing into dir. An empty dir uses DefaultDir.
func New(dir string, opts ...Option) *Exporter {
	if dir == "" {
		dir = DefaultDir
	}
	e := &Exporter{
		dir:    dir,
		link:   DefaultLinkName,
		title:  DefaultTitle,
		market: DefaultMarket,
		zone:   DisplayZone,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Written describes a completed export.
type Written struct {
	Path string

	// Link is the symlink that now points at Path, or empty if none was made.
	Link string

	// Structured reports whether the content looked like a prospect table.
	Structured bool

	// Prospects is the number of rows read from the prospect table.
	Prospects int
}

// FileName returns the export file name for a generation time.
func FileName(t time.Time) string {
	return "customer_list_" + t.Format(fileTimeLayout) + ".md"
}

// Render writes the markdown document for res to w.
func (e *Exporter) Render(w io.Writer, businessDesc string, res *generate.Result) error {
	s, err := success(res)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", e.title)
	fmt.Fprintf(&b, "## Generated: %s\n", res.GeneratedAt.In(e.zone).Format(headerTimeLayout))
	fmt.Fprintf(&b, "## Market Focus: %s\n", e.market)
	fmt.Fprintf(&b, "## Business: %s...\n\n", head(businessDesc, businessRunes))

	b.WriteString("## Generated List\n\n")
	b.WriteString(s.Content)

	b.WriteString("\n\n---\n")
	b.WriteString("**Metadata:**\n")
	fmt.Fprintf(&b, "- Tokens used: %d\n", s.TokensUsed)
	fmt.Fprintf(&b, "- Cost: %s\n", FormatCost(s.Cost))
	fmt.Fprintf(&b, "- Model: %s\n", orNA(s.Model))
	fmt.Fprintf(&b, "- %s Focus: %t\n", e.market, s.RegionalFocus)
	if s.DefaultPriceUsed {
		fmt.Fprintf(&b, "- Priced as: %s (default)\n", s.Cost.PricedAs)
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// Write renders res into a new file under the export directory and refreshes
// the latest-file symlink. Symlink failures are logged and otherwise ignored.
func (e *Exporter) Write(businessDesc string, res *generate.Result) (*Written, error) {
	s, err := success(res)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	generated := res.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	path := filepath.Join(e.dir, FileName(generated.In(e.zone)))

	if err := writeFile(path, func(w io.Writer) error { return e.Render(w, businessDesc, res) }); err != nil {
		return nil, err
	}

	out := &Written{
		Path:       path,
		Structured: parser.HasTableStructure(s.Content),
		Prospects:  len(parser.Parse(s.Content).Prospects),
	}
	if !out.Structured {
		e.logger.Warn("generated content may not be properly formatted as a table",
			zap.String("path", path),
			zap.Int("table_lines", parser.TableLineCount(s.Content)))
	}

	if e.link != "" {
		if err := replaceLink(e.link, path); err != nil {
			e.logger.Warn("could not create symlink",
				zap.String("link", e.link),
				zap.String("target", path),
				zap.Error(err))
		} else {
			out.Link = e.link
		}
	}

	e.logger.Info("export written",
		zap.String("path", path),
		zap.Int("tokens", s.TokensUsed),
		zap.Int("prospects", out.Prospects))
	return out, nil
}

// writeFile creates path and fills it with render. A partly written file is
// removed.
func writeFile(path string, render func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err = render(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write export file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

// FormatCost renders a cost as "$X USD (Y QAR)". Amounts beyond the first
// go in parentheses.
func FormatCost(c model.Cost) string {
	if len(c.Amounts) == 0 {
		return "N/A"
	}
	var b strings.Builder
	for i, a := range c.Amounts {
		v := strconv.FormatFloat(a.Value, 'f', -1, 64)
		switch {
		case i == 0 && a.Currency == model.USD:
			fmt.Fprintf(&b, "$%s %s", v, a.Currency)
		case i == 0:
			fmt.Fprintf(&b, "%s %s", v, a.Currency)
		default:
			fmt.Fprintf(&b, " (%s %s)", v, a.Currency)
		}
	}
	return b.String()
}

// replaceLink points link at target, replacing any existing file or link.
// The link target is relative when possible so the pair can be moved together.
func replaceLink(link, target string) error {
	if fi, err := os.Lstat(link); err == nil {
		if fi.IsDir() {
			return fmt.Errorf("%s is a directory", link)
		}
		if err := os.Remove(link); err != nil {
			return err
		}
	}

	dest := target
	if rel, err := filepath.Rel(filepath.Dir(link), target); err == nil {
		dest = rel
	}
	return os.Symlink(dest, link)
}

func success(res *generate.Result) (*generate.Success, error) {
	if res == nil {
		return nil, ErrNoResult
	}
	if res.Success == nil {
		if res.Failure != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotSuccessful, res.Failure.Message)
		}
		return nil, ErrNotSuccessful
	}
	if strings.TrimSpace(res.Success.Content) == "" {
		return nil, ErrEmptyContent
	}
	return res.Success, nil
}

func head(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
