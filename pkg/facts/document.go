package facts

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// APIVersion is the only fact document version understood today.
	APIVersion = "v1"
	// Kind identifies a fact document.
	Kind = "TypeFacts"
)

// Document is the on-disk form of a batch of type facts:
//
//	apiVersion: v1
//	kind: TypeFacts
//	name: petstore
//	spec:
//	  types:
//	    - name: com.acme.Dog
//	      superType: com.acme.Animal
type Document struct {
	APIVersion string         `yaml:"apiVersion"`
	Kind       string         `yaml:"kind"`
	Name       string         `yaml:"name"`
	Metadata   map[string]any `yaml:"metadata,omitempty"`
	Spec       DocumentSpec   `yaml:"spec"`
}

// DocumentSpec holds the facts of a Document.
type DocumentSpec struct {
	Types []*TypeFact `yaml:"types"`
}

// ValidationError represents a document validation error with context
type ValidationError struct {
	Field   string // Field path (e.g., "spec.types[0].fields[1].type")
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error at %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	result := fmt.Sprintf("found %d validation errors:\n", len(e))
	for i, err := range e {
		result += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return result
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseFile reads and validates a fact document.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fact document: %w", err)
	}
	doc, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseBytes decodes and validates a fact document.
func ParseBytes(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the envelope and every fact in the document.
func (d *Document) Validate() error {
	var errs ValidationErrors

	if d.APIVersion != APIVersion {
		errs = append(errs, ValidationError{
			Field:   "apiVersion",
			Message: fmt.Sprintf("unsupported apiVersion %q (want %q)", d.APIVersion, APIVersion),
		})
	}
	if d.Kind != Kind {
		errs = append(errs, ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("unexpected kind %q (want %q)", d.Kind, Kind),
		})
	}

	for i, t := range d.Spec.Types {
		prefix := fmt.Sprintf("spec.types[%d]", i)
		if t == nil {
			errs = append(errs, ValidationError{Field: prefix, Message: "empty entry"})
			continue
		}
		errs = append(errs, ValidateFact(t, prefix)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateFact runs struct-tag validation on a single fact and reports
// failures relative to prefix.
func ValidateFact(t *TypeFact, prefix string) ValidationErrors {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: prefix, Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   prefix + trimRoot(fe.Namespace()),
			Message: fmt.Sprintf("failed %q check", fe.Tag()),
		})
	}
	return out
}

// trimRoot turns "TypeFact.Fields[0].Type" into ".Fields[0].Type".
func trimRoot(ns string) string {
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			return ns[i:]
		}
	}
	return ""
}

// Write marshals a document to path.
func Write(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling fact document: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
