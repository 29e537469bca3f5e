package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pulumi-compose/pulumi-compose/internal/compose"
	"github.com/pulumi-compose/pulumi-compose/internal/pulumi"
)

// ErrUnsupportedFormat indicates the input syntax has no working driver or
// the input could not be read in that syntax.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Syntax identifies the language a Pulumi program is written in.
type Syntax int

const (
	SyntaxUnknown Syntax = iota
	SyntaxYAML
	SyntaxTypeScript
	SyntaxJSON
	SyntaxBicep
)

// Syntaxes lists every recognized syntax.
var Syntaxes = []Syntax{SyntaxYAML, SyntaxTypeScript, SyntaxJSON, SyntaxBicep}

var syntaxExtensions = map[string]Syntax{
	".yaml":  SyntaxYAML,
	".yml":   SyntaxYAML,
	".ts":    SyntaxTypeScript,
	".json":  SyntaxJSON,
	".bicep": SyntaxBicep,
}

// SyntaxFromExtension maps a file extension (with or without the leading
// dot) to a syntax. Unrecognized extensions map to SyntaxUnknown.
func SyntaxFromExtension(ext string) Syntax {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return syntaxExtensions[ext]
}

// SyntaxFromPath maps a file path to a syntax by its extension.
func SyntaxFromPath(path string) Syntax {
	return SyntaxFromExtension(filepath.Ext(path))
}

// ParseSyntax parses a syntax name as printed by String.
func ParseSyntax(name string) Syntax {
	name = strings.ToLower(name)
	for _, s := range Syntaxes {
		if s.String() == name {
			return s
		}
	}
	return SyntaxFromExtension(name)
}

// String returns the syntax name.
func (s Syntax) String() string {
	switch s {
	case SyntaxYAML:
		return "yaml"
	case SyntaxTypeScript:
		return "typescript"
	case SyntaxJSON:
		return "json"
	case SyntaxBicep:
		return "bicep"
	default:
		return "unknown"
	}
}

// Extensions returns the file extensions mapped to the syntax, sorted.
func (s Syntax) Extensions() []string {
	var exts []string
	for ext, syntax := range syntaxExtensions {
		if syntax == s {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// Implemented reports whether the syntax has a working driver.
func (s Syntax) Implemented() bool {
	return s == SyntaxYAML
}

// Parsed is the result of reading a program.
type Parsed struct {
	Entries []compose.ServiceEntry
	Skipped []pulumi.SkippedResource
}

// Parse reads a program and returns its rewritten service entries.
func (s Syntax) Parse(raw []byte, opts Options) (*Parsed, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	switch s {
	case SyntaxYAML:
		return parseYAML(raw, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// Render serializes the output document.
func (s Syntax) Render(file *compose.File) ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	switch s {
	case SyntaxYAML:
		return compose.Marshal(file)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

func (s Syntax) check() error {
	switch {
	case s == SyntaxUnknown:
		return fmt.Errorf("%w: unrecognized syntax", ErrUnsupportedFormat)
	case !s.Implemented():
		return fmt.Errorf("%w: %s programs are not implemented", ErrUnsupportedFormat, s)
	default:
		return nil
	}
}

func parseYAML(raw []byte, opts Options) (*Parsed, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	extraction, err := pulumi.Extract(&doc, opts.Mode)
	if err != nil {
		return nil, err
	}

	return &Parsed{
		Entries: RewriteAll(extraction.Workloads, opts.Dapr.WithDefaults()),
		Skipped: extraction.Skipped,
	}, nil
}
