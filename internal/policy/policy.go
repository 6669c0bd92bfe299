// Package policy loads the governance document and answers authorization
// queries for the dispatcher.
//
// The document declares two things: paths that may never be mutated
// (immutable glob patterns) and per-target verb allowlists (editable). It is
// loaded once per process and never mutated afterwards, so a single Store is
// safe to share across a batch of sequential dispatch calls.
package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound indicates the policy document does not exist.
	ErrNotFound = errors.New("policy document not found")

	// ErrInvalid indicates the policy document could not be parsed or
	// failed schema validation.
	ErrInvalid = errors.New("policy document invalid")
)

// documentSchema is the structural contract for policy.yaml. Documents that
// do not conform are rejected outright rather than partially trusted.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "immutable": {
      "type": "array",
      "items": {"type": "string", "minLength": 1}
    },
    "editable": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string", "minLength": 1}
      }
    }
  },
  "additionalProperties": false
}`

// Document is the parsed policy document.
type Document struct {
	// Immutable is an ordered list of glob patterns. A path matching any
	// pattern may never be mutated, regardless of verb.
	Immutable []string `yaml:"immutable"`

	// Editable maps a target (path or symbolic name) to the verbs
	// permitted on it. An explicit empty list denies all verbs; a target
	// absent from the map is unrestricted.
	Editable map[string][]string `yaml:"editable"`
}

// Store answers immutability and verb-allowlist queries against a loaded
// Document. Queries against an unloaded Store are permissive by default
// (policy is advisory until successfully loaded); constructing the Store in
// strict mode inverts that to fail-closed.
type Store struct {
	doc    *Document
	strict bool
	schema *jsonschema.Schema
}

// NewStore creates an empty Store. strict selects the fail-closed posture
// for queries made before a document is loaded.
func NewStore(strict bool) *Store {
	return &Store{strict: strict}
}

// Load reads, parses, and validates the policy document at path, caching it
// in the Store. A missing file fails with ErrNotFound; a malformed or
// non-conforming file fails with ErrInvalid.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to read policy document: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := s.validate(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	s.doc = &doc
	return nil
}

// validate checks the decoded document against documentSchema. The value is
// round-tripped through encoding/json first because the schema validator
// expects JSON-decoded types.
func (s *Store) validate(raw any) error {
	if s.schema == nil {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("policy.json", strings.NewReader(documentSchema)); err != nil {
			return fmt.Errorf("failed to add schema resource: %v", err)
		}
		sch, err := compiler.Compile("policy.json")
		if err != nil {
			return fmt.Errorf("failed to compile policy schema: %v", err)
		}
		s.schema = sch
	}

	if raw == nil {
		// An empty document is a valid policy with no restrictions.
		return nil
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to prepare validation object: %v", err)
	}
	var obj any
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("failed to prepare validation object: %v", err)
	}

	if err := s.schema.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return errors.New(ve.Error())
		}
		return err
	}
	return nil
}

// Loaded reports whether a document has been loaded.
func (s *Store) Loaded() bool {
	return s.doc != nil
}

// Document returns the loaded document, or nil.
func (s *Store) Document() *Document {
	return s.doc
}

// IsImmutable reports whether the project-relative path rel matches any
// immutable pattern. Patterns use doublestar glob semantics against
// slash-normalized paths; a pattern with a trailing separator matches the
// directory itself and everything under it. With no document loaded the
// answer is false (fail-open) unless the Store is strict.
func (s *Store) IsImmutable(rel string) bool {
	if s.doc == nil {
		return s.strict
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.doc.Immutable {
		if matchPattern(pattern, rel) {
			return true
		}
	}
	return false
}

// AllowedVerbs returns the explicit verb allowlist for target and whether
// the target key exists. present=false means the target is unrestricted.
// With no document loaded, a strict Store denies everything by returning an
// empty present list; otherwise the target is unrestricted.
func (s *Store) AllowedVerbs(target string) ([]string, bool) {
	if s.doc == nil {
		if s.strict {
			return []string{}, true
		}
		return nil, false
	}
	verbs, ok := s.doc.Editable[target]
	return verbs, ok
}

// matchPattern matches one immutable pattern against a slash-normalized
// relative path. Matching is anchored: "generated/" covers generated and
// generated/out.json but not src/generated/x.
func matchPattern(pattern, rel string) bool {
	p := filepath.ToSlash(strings.TrimSpace(pattern))
	if p == "" {
		return false
	}
	if strings.HasSuffix(p, "/") {
		base := strings.TrimSuffix(p, "/")
		if rel == base {
			return true
		}
		p = base + "/**"
	}
	ok, err := doublestar.Match(p, rel)
	return err == nil && ok
}
