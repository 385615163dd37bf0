// Package errors provides the error taxonomy of poitool.
//
// Fatal conditions (a missing input file, an unresolvable coordinate column,
// a broken configuration) are typed errors that match a sentinel through
// errors.Is. Per-row problems are never errors; they are tallied by the
// pipelines and reported in the run summary.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Unwrap mirror the standard library so callers need one import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

// Sentinel errors
var (
	// ErrNotFound indicates that a required input file does not exist
	ErrNotFound = errors.New("not found")

	// ErrMissingColumn indicates that a required column could not be resolved
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates that an input file contains no rows
	ErrEmptyInput = errors.New("empty input")
)

// FileNotFoundError represents a missing input file.
type FileNotFoundError struct {
	// Role describes what the file is used for (e.g. "table", "geometry").
	Role string
	Path string
}

// Error implements the error interface
func (e *FileNotFoundError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s file not found: %s", e.Role, e.Path)
	}
	return fmt.Sprintf("file not found: %s", e.Path)
}

// Is implements errors.Is support
func (e *FileNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewFileNotFoundError creates a new FileNotFoundError
func NewFileNotFoundError(role, path string) *FileNotFoundError {
	return &FileNotFoundError{Role: role, Path: path}
}

// ColumnError represents a column that could not be found in a header row.
type ColumnError struct {
	Column string
	Header []string
}

// Error implements the error interface
func (e *ColumnError) Error() string {
	return fmt.Sprintf("could not find %s column in header [%s]", e.Column, strings.Join(e.Header, ";"))
}

// Is implements errors.Is support
func (e *ColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// NewColumnError creates a new ColumnError
func NewColumnError(column string, header []string) *ColumnError {
	return &ColumnError{Column: column, Header: header}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewConfigError creates a new ConfigError
func NewConfigError(field, message string, err error) *ConfigError {
	return &ConfigError{Field: field, Message: message, Err: err}
}
