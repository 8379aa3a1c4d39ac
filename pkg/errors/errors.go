// Package errors provides custom error types for the inventory pipeline.
// These errors enable programmatic error checking and make the per-file
// versus fatal failure distinction explicit throughout the application.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the inventory pipeline
var (
	// ErrSchema indicates required columns are missing after normalization
	ErrSchema = errors.New("schema mismatch")

	// ErrRead indicates a source file could not be read
	ErrRead = errors.New("read failed")

	// ErrConfig indicates invalid or missing configuration
	ErrConfig = errors.New("invalid configuration")

	// ErrNoValidFiles indicates zero files survived transformation
	ErrNoValidFiles = errors.New("no valid files")

	// ErrEmptyBatch indicates merge was invoked with no new records
	ErrEmptyBatch = errors.New("empty batch")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")
)

// SchemaError reports required canonical columns missing from a source
// table after header normalization. It is recoverable per file: the
// orchestrator skips the file and continues the run.
type SchemaError struct {
	File      string
	Missing   []string
	Available []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("required columns %s missing from %s after normalization (available: %s)",
		strings.Join(e.Missing, ", "), e.File, strings.Join(e.Available, ", "))
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// NewSchemaError creates a new SchemaError
func NewSchemaError(file string, missing, available []string) *SchemaError {
	return &SchemaError{File: file, Missing: missing, Available: available}
}

// ReadError reports a source file that could not be listed or read.
// Like SchemaError it is recoverable per file.
type ReadError struct {
	File string
	Err  error
}

// Error implements the error interface
func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read source file %s: %v", e.File, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ReadError) Is(target error) bool {
	return target == ErrRead
}

// NewReadError creates a new ReadError
func NewReadError(file string, err error) *ReadError {
	return &ReadError{File: file, Err: err}
}

// ConfigError represents a configuration error. It is fatal: the run
// aborts before any file is processed.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// NoValidFilesError is the terminal (but non-fatal) state for a run in
// which zero files survived transformation. The orchestrator returns a
// sentinel summary instead of a partial result.
type NoValidFilesError struct {
	Found int
}

// Error implements the error interface
func (e *NoValidFilesError) Error() string {
	return fmt.Sprintf("no valid files processed (%d found)", e.Found)
}

// Is implements errors.Is support
func (e *NoValidFilesError) Is(target error) bool {
	return target == ErrNoValidFiles
}

// NewNoValidFilesError creates a new NoValidFilesError
func NewNoValidFilesError(found int) *NoValidFilesError {
	return &NoValidFilesError{Found: found}
}

// MergeError represents an error during merge or metrics stages. There
// is no partial result to salvage, so it is fatal for the run.
type MergeError struct {
	Stage string
	Err   error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	return fmt.Sprintf("merge failed at %s stage: %v", e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError
func NewMergeError(stage string, err error) *MergeError {
	return &MergeError{Stage: stage, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ParseError represents an error when parsing source values
type ParseError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s value %q: %s", e.Field, e.Value, e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(field, value, message string) *ParseError {
	return &ParseError{Field: field, Value: value, Message: message}
}

// PublishError represents an error from the output destination
type PublishError struct {
	Destination string
	At          time.Time
	Err         error
}

// Error implements the error interface
func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish to %s: %v", e.Destination, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *PublishError) Unwrap() error {
	return e.Err
}

// NewPublishError creates a new PublishError
func NewPublishError(destination string, err error) *PublishError {
	return &PublishError{Destination: destination, At: time.Now(), Err: err}
}

// Helper functions for error checking

// IsSchema checks if an error is a schema error
func IsSchema(err error) bool {
	return errors.Is(err, ErrSchema)
}

// IsRead checks if an error is a read error
func IsRead(err error) bool {
	return errors.Is(err, ErrRead)
}

// IsConfig checks if an error is a configuration error
func IsConfig(err error) bool {
	return errors.Is(err, ErrConfig)
}

// IsNoValidFiles checks if an error is the no-valid-files sentinel
func IsNoValidFiles(err error) bool {
	return errors.Is(err, ErrNoValidFiles)
}

// IsRecoverable reports whether an error may be skipped per file
// without aborting the run.
func IsRecoverable(err error) bool {
	return IsSchema(err) || IsRead(err)
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapRead wraps an error as a ReadError
func WrapRead(file string, err error) error {
	if err == nil {
		return nil
	}
	return NewReadError(file, err)
}
