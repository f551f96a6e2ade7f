// Package script runs batches of interval index operations described in
// YAML or JSON documents.
//
// A script seeds one index with float64 endpoints and string payloads,
// then applies its operations in order and collects one Result each.
package script

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Operation names.
const (
	OpInsert          = "insert"
	OpDelete          = "delete"
	OpDeleteValue     = "delete_value"
	OpClear           = "clear"
	OpOverlap         = "overlap"
	OpBetween         = "between"
	OpStrictlyBetween = "strictly_between"
	OpContains        = "contains"
	OpLowest          = "lowest"
	OpHighest         = "highest"
	OpRank            = "rank"
	OpPercentile      = "percentile"
	OpMax             = "max"
	OpSize            = "size"
	OpCountAt         = "count_at"
	OpAll             = "all"
	OpVerify          = "verify"
)

// Sentinel errors.
var (
	ErrSchema    = errors.New("script does not match schema")
	ErrDecode    = errors.New("script is not valid YAML")
	ErrUnknownOp = errors.New("unknown operation")
)

//go:embed schema.json
var schemaJSON []byte

// Script is a named batch of operations over one interval index.
type Script struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Intervals   []Interval  `yaml:"intervals"`
	Operations  []Operation `yaml:"operations"`
}

// Interval seeds the index before any operation runs.
type Interval struct {
	Low   float64 `yaml:"low"`
	High  float64 `yaml:"high"`
	Value string  `yaml:"value"`
}

// Operation is one step of a script. Only the fields the operation uses
// are set.
type Operation struct {
	Op    string  `yaml:"op"`
	Low   float64 `yaml:"low"`
	High  float64 `yaml:"high"`
	Value string  `yaml:"value"`
	Point float64 `yaml:"point"`
	N     int     `yaml:"n"`
	P     float64 `yaml:"p"`
}

// String renders the operation with its arguments, e.g. "overlap [15, 30]".
func (o Operation) String() string {
	switch o.Op {
	case OpInsert, OpDeleteValue:
		return fmt.Sprintf("%s [%s, %s] %s", o.Op, num(o.Low), num(o.High), o.Value)
	case OpDelete, OpOverlap, OpBetween, OpStrictlyBetween:
		return fmt.Sprintf("%s [%s, %s]", o.Op, num(o.Low), num(o.High))
	case OpContains:
		return fmt.Sprintf("%s %s", o.Op, num(o.Point))
	case OpCountAt:
		return fmt.Sprintf("%s %s", o.Op, num(o.Low))
	case OpLowest, OpHighest, OpRank:
		return fmt.Sprintf("%s %d", o.Op, o.N)
	case OpPercentile:
		return fmt.Sprintf("%s %s", o.Op, num(o.P))
	default:
		return o.Op
	}
}

// Violation is one schema failure, located by its field path.
type Violation struct {
	Field       string
	Description string
}

// SchemaError lists every schema violation of a document.
type SchemaError struct {
	Violations []Violation
}

// Error joins all violations into one message.
func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Description)
	}

	return fmt.Sprintf("%s: %s", ErrSchema, strings.Join(parts, "; "))
}

// Unwrap makes errors.Is(err, ErrSchema) hold.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse decodes a YAML or JSON script, checks it against the embedded
// JSON Schema and decodes it into a Script. Schema failures are returned
// as a *SchemaError holding every violation.
func Parse(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	err = Validate(data)
	if err != nil {
		return nil, err
	}

	var s Script

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err = dec.Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &s, nil
}

// Validate checks a YAML or JSON document against the script schema
// without building a Script.
func Validate(data []byte) error {
	var doc any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		violations = append(violations, Violation{Field: re.Field(), Description: re.Description()})
	}

	return &SchemaError{Violations: violations}
}

// num formats an endpoint without trailing zeros.
func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
