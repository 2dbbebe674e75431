package syntax

import (
	"slices"
	"strings"
)

// Comment prefixes recognized by [Resolve].
const (
	PrefixHash    = "#"
	PrefixDash    = "--"
	PrefixSlash   = "//"
	PrefixPercent = "%"
)

// DefaultPrefix is returned for extensions not listed in the table.
const DefaultPrefix = PrefixHash

// Language describes a source language in the comment syntax table.
type Language struct {
	Name       string
	Prefix     string
	Extensions []string
}

// family groups languages sharing one single-line comment prefix.
type family struct {
	prefix    string
	languages []Language
}

// families is searched in order; the first family that lists an extension
// wins.
var families = []family{
	{
		prefix: PrefixHash,
		languages: []Language{
			{Name: "r", Extensions: []string{"r"}},
			{Name: "python", Extensions: []string{"py"}},
			{Name: "shell", Extensions: []string{"sh", "bash", "zsh"}},
			{Name: "julia", Extensions: []string{"jl"}},
			{Name: "ruby", Extensions: []string{"rb"}},
			{Name: "perl", Extensions: []string{"pl"}},
			{Name: "yaml", Extensions: []string{"yaml", "yml"}},
			{Name: "toml", Extensions: []string{"toml"}},
			{Name: "powershell", Extensions: []string{"ps1"}},
			{Name: "dockerfile", Extensions: []string{"dockerfile"}},
			{Name: "makefile", Extensions: []string{"mk"}},
		},
	},
	{
		prefix: PrefixDash,
		languages: []Language{
			{Name: "sql", Extensions: []string{"sql"}},
			{Name: "lua", Extensions: []string{"lua"}},
			{Name: "haskell", Extensions: []string{"hs"}},
		},
	},
	{
		prefix: PrefixSlash,
		languages: []Language{
			{Name: "javascript", Extensions: []string{"js", "mjs", "cjs", "jsx"}},
			{Name: "typescript", Extensions: []string{"ts", "tsx"}},
			{Name: "java", Extensions: []string{"java"}},
			{Name: "c", Extensions: []string{"c", "h"}},
			{Name: "cpp", Extensions: []string{"cpp", "cc", "cxx", "hpp"}},
			{Name: "csharp", Extensions: []string{"cs"}},
			{Name: "go", Extensions: []string{"go"}},
			{Name: "rust", Extensions: []string{"rs"}},
			{Name: "swift", Extensions: []string{"swift"}},
			{Name: "kotlin", Extensions: []string{"kt", "kts"}},
			{Name: "scala", Extensions: []string{"scala"}},
			{Name: "php", Extensions: []string{"php"}},
			{Name: "dart", Extensions: []string{"dart"}},
			{Name: "groovy", Extensions: []string{"groovy", "nf"}},
		},
	},
	{
		prefix: PrefixPercent,
		languages: []Language{
			{Name: "matlab", Extensions: []string{"m"}},
			{Name: "latex", Extensions: []string{"tex"}},
			{Name: "erlang", Extensions: []string{"erl"}},
		},
	},
}

// Resolve maps a file extension to its language and single-line comment
// prefix. The extension is matched case-insensitively, with or without a
// leading dot.
//
// Unknown extensions resolve to [DefaultPrefix] with ok set to false, so that
// callers can still look for hash-comment annotations in unsupported files.
func Resolve(ext string) (Language, bool) {
	ext = normalizeExt(ext)

	for _, fam := range families {
		for _, lang := range fam.languages {
			if slices.Contains(lang.Extensions, ext) {
				lang.Prefix = fam.prefix
				lang.Extensions = slices.Clone(lang.Extensions)

				return lang, true
			}
		}
	}

	return Language{Prefix: DefaultPrefix}, false
}

// Prefix returns the comment prefix for ext. See [Resolve].
func Prefix(ext string) string {
	lang, _ := Resolve(ext)

	return lang.Prefix
}

// ByName returns the language with the given canonical name.
func ByName(name string) (Language, bool) {
	name = strings.ToLower(strings.TrimSpace(name))

	for _, lang := range Languages() {
		if lang.Name == name {
			return lang, true
		}
	}

	return Language{}, false
}

// Languages returns every language in the table, in lookup order.
func Languages() []Language {
	var langs []Language

	for _, fam := range families {
		for _, lang := range fam.languages {
			lang.Prefix = fam.prefix
			lang.Extensions = slices.Clone(lang.Extensions)
			langs = append(langs, lang)
		}
	}

	return langs
}

// Extensions returns every known extension (without the leading dot), in
// lookup order.
func Extensions() []string {
	var exts []string

	for _, lang := range Languages() {
		exts = append(exts, lang.Extensions...)
	}

	return exts
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
