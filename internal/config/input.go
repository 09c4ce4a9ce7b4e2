package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tribgo/tribgo/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of taxpayer input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a snapshot from a YAML or JSON file and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*domain.InputSnapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	snapshot, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return snapshot, nil
}

// Parse decodes a snapshot document. Unknown keys are rejected so a
// misspelled deduction cannot silently count as zero.
func (ip *InputParser) Parse(data []byte) (*domain.InputSnapshot, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var snapshot domain.InputSnapshot
	if err := dec.Decode(&snapshot); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty input document: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := domain.ValidateSnapshot(&snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// LoadSnapshot is a shorthand for NewInputParser().LoadFromFile(path).
func LoadSnapshot(path string) (*domain.InputSnapshot, error) {
	return NewInputParser().LoadFromFile(path)
}
