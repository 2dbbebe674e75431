package detect

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
)

//go:embed patterns.yaml
var builtinPatterns []byte

// ErrInvalidPatterns indicates a pattern file is malformed, does not match
// the pattern file schema, or holds a regex that does not compile.
var ErrInvalidPatterns = errors.New("invalid patterns")

// Category groups detection patterns by what a match means for the file.
type Category string

// Detection categories.
const (
	CategoryInput      Category = "input"
	CategoryOutput     Category = "output"
	CategoryDependency Category = "dependency"
)

// Categories returns every category in matching order.
func Categories() []Category {
	return []Category{CategoryInput, CategoryOutput, CategoryDependency}
}

// Pattern is one detection heuristic.
//
// ArgPosition and ArgName describe where the file argument usually sits in
// the matched call. They are informational: extraction takes every quoted
// literal on a matching line.
type Pattern struct {
	Regex       string `json:"regex" jsonschema:"regular expression matched case-insensitively against each line" yaml:"regex"`
	ArgName     string `json:"arg_name,omitempty" jsonschema:"name of the file argument in the matched call" yaml:"arg_name,omitempty"`
	Description string `json:"description,omitempty" jsonschema:"human-readable description" yaml:"description,omitempty"`
	ArgPosition int    `json:"arg_position,omitempty" jsonschema:"1-based position of the file argument in the matched call" yaml:"arg_position,omitempty"`
}

// LanguagePatterns holds the ordered patterns of one language.
type LanguagePatterns struct {
	Input      []Pattern `json:"input,omitempty" jsonschema:"patterns whose matches are files read" yaml:"input,omitempty"`
	Output     []Pattern `json:"output,omitempty" jsonschema:"patterns whose matches are files written" yaml:"output,omitempty"`
	Dependency []Pattern `json:"dependency,omitempty" jsonschema:"patterns whose matches are scripts depended on" yaml:"dependency,omitempty"`
}

// Patterns returns the patterns of category c.
func (lp LanguagePatterns) Patterns(c Category) []Pattern {
	switch c {
	case CategoryInput:
		return lp.Input
	case CategoryOutput:
		return lp.Output
	case CategoryDependency:
		return lp.Dependency
	}

	return nil
}

// PatternFile is the document format of the built-in catalogue and of
// user-supplied pattern files.
type PatternFile struct {
	Languages map[string]LanguagePatterns `json:"languages" jsonschema:"detection patterns keyed by language name" yaml:"languages"`
}

// Schema returns the JSON Schema of [PatternFile].
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[PatternFile](nil)
	if err != nil {
		return nil, fmt.Errorf("infer pattern file schema: %w", err)
	}

	s.Title = "putflow detection patterns"

	return s, nil
}

var resolvedSchema = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}

	rs, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve pattern file schema: %w", err)
	}

	return rs, nil
})

// ParsePatternFile decodes a YAML (or JSON) pattern file and validates it
// against [Schema].
func ParsePatternFile(data []byte) (*PatternFile, error) {
	var raw any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatterns, err)
	}

	rs, err := resolvedSchema()
	if err != nil {
		return nil, err
	}

	err = rs.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatterns, err)
	}

	var pf PatternFile

	err = yaml.Unmarshal(data, &pf)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatterns, err)
	}

	return &pf, nil
}

// BuiltinPatterns returns the embedded pattern catalogue.
func BuiltinPatterns() *PatternFile {
	pf, err := ParsePatternFile(builtinPatterns)
	if err != nil {
		panic(fmt.Sprintf("built-in patterns: %v", err))
	}

	return pf
}

// compiled is a [Pattern] with its regex compiled.
type compiled struct {
	re *regexp.Regexp
	Pattern
}

// Catalog is a compiled, read-only set of detection patterns.
//
// Create instances with [NewCatalog] or [DefaultCatalog].
type Catalog struct {
	languages map[string]map[Category][]compiled
}

// NewCatalog compiles the given pattern files into a [Catalog]. Patterns of
// later files are appended after those of earlier files, per language and
// category.
func NewCatalog(pfs ...*PatternFile) (*Catalog, error) {
	c := &Catalog{languages: make(map[string]map[Category][]compiled)}

	for _, pf := range pfs {
		for _, lang := range slices.Sorted(maps.Keys(pf.Languages)) {
			lp := pf.Languages[lang]

			cats, ok := c.languages[lang]
			if !ok {
				cats = make(map[Category][]compiled)
				c.languages[lang] = cats
			}

			for _, cat := range Categories() {
				for _, p := range lp.Patterns(cat) {
					re, err := regexp.Compile("(?i)" + p.Regex)
					if err != nil {
						return nil, fmt.Errorf("%w: %s %s pattern %q: %w", ErrInvalidPatterns, lang, cat, p.Regex, err)
					}

					cats[cat] = append(cats[cat], compiled{Pattern: p, re: re})
				}
			}
		}
	}

	return c, nil
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := NewCatalog(BuiltinPatterns())
	if err != nil {
		panic(fmt.Sprintf("built-in patterns: %v", err))
	}

	return c
})

// DefaultCatalog returns the catalogue compiled from the built-in patterns.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// Languages returns the names of languages with at least one pattern, in
// sorted order.
func (c *Catalog) Languages() []string {
	var names []string

	for name, cats := range c.languages {
		for _, ps := range cats {
			if len(ps) > 0 {
				names = append(names, name)

				break
			}
		}
	}

	slices.Sort(names)

	return names
}

// Has reports whether language has at least one pattern.
func (c *Catalog) Has(language string) bool {
	return slices.Contains(c.Languages(), language)
}

// Patterns returns the patterns of one language and category, in matching
// order.
func (c *Catalog) Patterns(language string, cat Category) []Pattern {
	ps := c.languages[language][cat]

	out := make([]Pattern, len(ps))
	for i, p := range ps {
		out[i] = p.Pattern
	}

	return out
}
