// Package manifest defines the canonical SKILL.md manifest model and its
// validation rules. Parsing is split into two phases: the frontmatter is
// first read into an untyped field bag (structural errors only), then the
// bag is validated field by field and decoded into a strict Manifest value,
// so structural and semantic failures stay distinguishable.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// FileName is the manifest file expected inside every skill directory.
const FileName = "SKILL.md"

const (
	maxNameLength        = 64
	maxDescriptionLength = 500
)

var nameRegexp = regexp.MustCompile(`^[a-z0-9-]+$`)

var (
	// ErrMalformedHeader indicates the frontmatter delimiters are absent or unterminated.
	ErrMalformedHeader = errors.New("malformed manifest header")
	// ErrInvalidEncoding indicates the frontmatter is present but not decodable YAML.
	ErrInvalidEncoding = errors.New("invalid manifest header encoding")
)

// Manifest is one skill's declared identity and instructions.
type Manifest struct {
	Name         string   `mapstructure:"name" yaml:"name"`
	Description  string   `mapstructure:"description" yaml:"description"`
	AllowedTools []string `mapstructure:"allowed-tools" yaml:"allowed-tools,omitempty"`
	Model        string   `mapstructure:"model" yaml:"model,omitempty"`
	SubSkills    []string `mapstructure:"sub-skills" yaml:"sub-skills,omitempty"`
	Body         string   `mapstructure:"-" yaml:"-"`
}

// Fields is the untyped frontmatter bag produced by structural parsing.
type Fields map[string]interface{}

// ValidationError describes one semantic rule violation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult is the outcome of validating a skill directory.
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Manifest *Manifest // set when Valid
}

// CombineErrors folds a list of validation errors into a single error value.
// Returns nil for an empty list.
func CombineErrors(errs []ValidationError) error {
	var combined *multierror.Error
	for _, e := range errs {
		combined = multierror.Append(combined, e)
	}
	return combined.ErrorOrNil()
}

// ParseFields splits manifest content into the untyped frontmatter bag and
// the body text. It reports only structural failures: ErrMalformedHeader
// when the delimiters are absent or unterminated, ErrInvalidEncoding when
// the delimited block is not decodable YAML. No semantic rules are applied.
func ParseFields(content []byte) (Fields, string, error) {
	text := string(content)
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return nil, "", errors.Wrap(ErrMalformedHeader, "missing frontmatter delimiter")
	}
	if extractBody(text) == text {
		return nil, "", errors.Wrap(ErrMalformedHeader, "unterminated frontmatter")
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, "", errors.Wrap(err, "failed to parse markdown")
	}

	metaData, err := meta.TryGet(pctx)
	if err != nil {
		return nil, "", errors.Wrap(ErrInvalidEncoding, err.Error())
	}
	if metaData == nil {
		return nil, "", errors.Wrap(ErrMalformedHeader, "missing frontmatter")
	}

	return Fields(metaData), extractBody(text), nil
}

// extractBody returns the text after the closing frontmatter delimiter.
// If no closing delimiter exists the content is returned unchanged.
func extractBody(content string) string {
	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		rest, ok = strings.CutPrefix(content, "---\r\n")
		if !ok {
			return content
		}
	}

	for _, marker := range []string{"---\n", "---\r\n"} {
		if strings.HasPrefix(rest, marker) {
			return rest[len(marker):]
		}
	}
	for _, marker := range []string{"\n---\n", "\n---\r\n"} {
		if idx := strings.Index(rest, marker); idx != -1 {
			return rest[idx+len(marker):]
		}
	}
	if strings.HasSuffix(rest, "\n---") {
		return ""
	}
	return content
}

// ValidateFields applies every semantic rule to the field bag and collects
// all violations; it never short-circuits on the first failure.
func ValidateFields(fields Fields) []ValidationError {
	var errs []ValidationError

	errs = append(errs, validateRequiredString(fields, "name", maxNameLength, validateNameFormat)...)
	errs = append(errs, validateRequiredString(fields, "description", maxDescriptionLength, nil)...)
	errs = append(errs, validateStringList(fields, "allowed-tools")...)
	errs = append(errs, validateStringList(fields, "sub-skills")...)

	if value, ok := fields["model"]; ok && value != nil {
		if _, isString := value.(string); !isString {
			errs = append(errs, ValidationError{Field: "model", Message: "must be a string"})
		}
	}

	return errs
}

func validateNameFormat(s string) []ValidationError {
	if !nameRegexp.MatchString(s) {
		return []ValidationError{{Field: "name", Message: "must contain only lowercase letters, digits, and hyphens"}}
	}
	return nil
}

func validateRequiredString(fields Fields, field string, maxLen int, extra func(string) []ValidationError) []ValidationError {
	value, ok := fields[field]
	if !ok || value == nil {
		return []ValidationError{{Field: field, Message: "is required"}}
	}

	s, isString := value.(string)
	if !isString {
		return []ValidationError{{Field: field, Message: "must be a string"}}
	}
	if s == "" {
		return []ValidationError{{Field: field, Message: "is required"}}
	}

	var errs []ValidationError
	if utf8.RuneCountInString(s) > maxLen {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("must be %d characters or less", maxLen)})
	}
	if strings.ContainsAny(s, "\n\r") {
		errs = append(errs, ValidationError{Field: field, Message: "must be a single line"})
	} else if extra != nil {
		errs = append(errs, extra(s)...)
	}
	return errs
}

func validateStringList(fields Fields, field string) []ValidationError {
	value, ok := fields[field]
	if !ok || value == nil {
		return nil
	}

	list, isList := value.([]interface{})
	if !isList {
		return []ValidationError{{Field: field, Message: "must be a list"}}
	}

	var errs []ValidationError
	for i, item := range list {
		if _, isString := item.(string); !isString {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("element %d must be a string", i)})
		}
	}
	return errs
}

// decode maps a validated field bag into the strict Manifest struct.
func decode(fields Fields, body string) (*Manifest, error) {
	var m Manifest
	if err := mapstructure.Decode(map[string]interface{}(fields), &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode manifest fields")
	}
	m.Body = body
	return &m, nil
}

// Load reads and fully validates the manifest file at path.
func Load(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	fields, body, err := ParseFields(content)
	if err != nil {
		return nil, err
	}

	if errs := ValidateFields(fields); len(errs) > 0 {
		return nil, errors.Wrapf(CombineErrors(errs), "invalid manifest %s", path)
	}

	return decode(fields, body)
}

// ValidateDirectory checks that dir is a directory containing a manifest
// file whose header passes every rule. It never mutates the filesystem.
func ValidateDirectory(dir string) *ValidationResult {
	info, err := os.Stat(dir)
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{Field: "directory", Message: fmt.Sprintf("%s does not exist", dir)}}}
	}
	if !info.IsDir() {
		return &ValidationResult{Errors: []ValidationError{{Field: "directory", Message: fmt.Sprintf("%s is not a directory", dir)}}}
	}

	path := filepath.Join(dir, FileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{Field: "manifest", Message: fmt.Sprintf("%s not found in %s", FileName, dir)}}}
	}

	fields, body, err := ParseFields(content)
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{Field: "manifest", Message: err.Error()}}}
	}

	if errs := ValidateFields(fields); len(errs) > 0 {
		return &ValidationResult{Errors: errs}
	}

	m, err := decode(fields, body)
	if err != nil {
		return &ValidationResult{Errors: []ValidationError{{Field: "manifest", Message: err.Error()}}}
	}

	return &ValidationResult{Valid: true, Manifest: m}
}
