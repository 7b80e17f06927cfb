package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tspforge/matrix"
)

var (
	errMissingEntries = errors.New("input has missing entries; rerun with --closure")
	errUnreachable    = errors.New("input graph is not strongly connected")
	errEmptyInput     = errors.New("empty input")
)

// inputFlags are shared by every command that reads an instance.
type inputFlags struct {
	format  string
	closure bool
}

func (in *inputFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&in.format, "format", "auto", "input format: auto, json, yaml or csv")
	fs.BoolVar(&in.closure, "closure", false, "fill missing entries with shortest-path distances")
}

// document is the mapping form of an instance. A bare list is either the
// matrix rows or the points.
type document struct {
	Matrix [][]*float64   `json:"matrix" yaml:"matrix"`
	Points []matrix.Point `json:"points" yaml:"points"`
}

// build turns a decoded document into a matrix.
func (doc document) build() (*matrix.Dense, error) {
	switch {
	case len(doc.Matrix) > 0 && len(doc.Points) > 0:
		return nil, errors.New("both matrix and points given")
	case len(doc.Points) > 0:
		return matrix.FromPoints(doc.Points)
	case len(doc.Matrix) > 0:
		return denseFromRows(doc.Matrix)
	}

	return nil, errEmptyInput
}

// read loads the instance at path ("" or "-" is stdin). Missing entries
// (null, .inf or empty CSV cells) are +Inf and need --closure.
func (in *inputFlags) read(path string, stdin io.Reader) (*matrix.Dense, error) {
	m, err := in.parse(path, stdin)
	if err != nil {
		return nil, err
	}

	return in.complete(m)
}

// parse decodes the instance without checking its entries.
func (in *inputFlags) parse(path string, stdin io.Reader) (*matrix.Dense, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyInput
	}

	format := in.format
	if format == "" || format == "auto" {
		format = detectFormat(path, data)
	}
	var m *matrix.Dense
	switch format {
	case "csv":
		m, err = parseCSV(data)
	case "json":
		m, err = parseJSON(data)
	case "yaml":
		m, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("unknown input format %q", in.format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", displayName(path), err)
	}

	return m, nil
}

// complete applies the closure, or rejects missing entries without it.
func (in *inputFlags) complete(m *matrix.Dense) (*matrix.Dense, error) {
	ok, err := matrix.Reachable(m)
	if err != nil {
		return nil, err
	}
	if ok {
		return m, nil
	}
	if !in.closure {
		return nil, errMissingEntries
	}
	if m, err = matrix.MetricClosure(m); err != nil {
		return nil, err
	}
	if ok, err = matrix.Reachable(m); err != nil {
		return nil, err
	}
	if !ok {
		return nil, errUnreachable
	}

	return m, nil
}

// detectFormat goes by extension, then by the first byte of the content.
func detectFormat(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	if c := bytes.TrimSpace(data)[0]; c == '[' || c == '{' {
		return "json"
	}

	return "yaml"
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}

	return path
}

// parseJSON accepts a bare matrix, a bare point list, or an object with a
// "matrix" or "points" key.
func parseJSON(data []byte) (*matrix.Dense, error) {
	var doc document
	data = bytes.TrimSpace(data)
	if data[0] == '{' {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}

		return doc.build()
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errEmptyInput
	}
	target := any(&doc.Matrix)
	if first := bytes.TrimSpace(raw[0]); len(first) > 0 && first[0] == '{' {
		target = &doc.Points
	}
	if err := json.Unmarshal(data, target); err != nil {
		return nil, err
	}

	return doc.build()
}

// parseYAML is parseJSON for YAML documents.
func parseYAML(data []byte) (*matrix.Dense, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, errEmptyInput
	}
	node := root.Content[0]

	var doc document
	switch node.Kind {
	case yaml.MappingNode:
		if err := node.Decode(&doc); err != nil {
			return nil, err
		}
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return nil, errEmptyInput
		}
		target := any(&doc.Matrix)
		if node.Content[0].Kind == yaml.MappingNode {
			target = &doc.Points
		}
		if err := node.Decode(target); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("line %d: expected a list or a mapping", node.Line)
	}

	return doc.build()
}

// denseFromRows builds a square matrix; nil cells become +Inf.
func denseFromRows(rows [][]*float64) (*matrix.Dense, error) {
	n := len(rows)
	vals := make([][]float64, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), n, matrix.ErrNonSquare)
		}
		vals[i] = make([]float64, n)
		for j, p := range row {
			if p == nil {
				vals[i][j] = math.Inf(1)
				continue
			}
			vals[i][j] = *p
		}
	}

	return matrix.NewDenseFrom(vals)
}

// parseCSV reads one matrix row per record. Lines starting with # are skipped.
func parseCSV(data []byte) (*matrix.Dense, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comment = '#'
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := make([][]*float64, len(records))
	for i, rec := range records {
		rows[i] = make([]*float64, len(rec))
		for j, cell := range rec {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("record %d field %d: %w", i+1, j+1, err)
			}
			rows[i][j] = &v
		}
	}

	return denseFromRows(rows)
}
