package main

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	paramsPath = "../../configs/fiscal_params.yaml"
	inputPath  = "../../configs/example_input.yaml"
)

func execute(t *testing.T, args ...string) (tea.Model, error) {
	t.Helper()

	var started tea.Model
	cmd := newRootCmd(func(m tea.Model) error {
		started = m
		return nil
	})
	var stderr bytes.Buffer
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--fiscal-params", paramsPath}, args...))
	err := cmd.Execute()
	return started, err
}

func TestRootCommand_StartsDashboard(t *testing.T) {
	m, err := execute(t, inputPath, "--year", "2025")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Contains(t, m.View(), "fiscal year 2025")
}

func TestRootCommand_DefaultsToLatestYear(t *testing.T) {
	m, err := execute(t, inputPath)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Contains(t, m.View(), "fiscal year 2026")
}

func TestRootCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input file", nil},
		{"two input files", []string{inputPath, inputPath}},
		{"missing input file", []string{"does-not-exist.yaml"}},
		{"unsupported year", []string{inputPath, "--year", "2019"}},
		{"non-numeric year", []string{inputPath, "--year", "next"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := execute(t, tt.args...)
			assert.Error(t, err)
			assert.Nil(t, m, "the dashboard must not start on error")
		})
	}
}
