package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrMalformedXML    = errors.New("input is not well-formed XML")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrNotRegularFile  = errors.New("not a regular file")
	ErrNotDirectory    = errors.New("not a directory")
	ErrNoXMLFiles      = errors.New("no XML files found")
	ErrNoInput         = errors.New("no input provided: specify an XML file, or a directory with -d")
	ErrBatchIncomplete = errors.New("one or more files failed to convert")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParse   ErrorType = "parse"
	ErrorTypeConvert ErrorType = "convert"
	ErrorTypeEncode  ErrorType = "encode"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison by category
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to locating or reading input
func NewInputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInput, Message: message, Err: err}
}

// NewParseError creates a new error related to XML parsing
func NewParseError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeParse, Message: message, Err: err}
}

// NewEncodeError creates a new error related to JSON encoding
func NewEncodeError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeEncode, Message: message, Err: err}
}

// NewOutputError creates a new error related to writing output
func NewOutputError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeOutput, Message: message, Err: err}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeConfig, Message: message, Err: err}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParse:
			return fmt.Sprintf("XML parsing error: %s", appErr.Message)
		case ErrorTypeConvert:
			return fmt.Sprintf("Conversion error: %s", appErr.Message)
		case ErrorTypeEncode:
			return fmt.Sprintf("JSON encoding error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide an XML document."
	}
	if errors.Is(err, ErrMalformedXML) {
		return "Error: The input is not well-formed XML. Check the document and its encoding."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with XML content."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrNotDirectory) {
		return "Error: The input path is not a directory. Drop the -d flag to convert a single file."
	}
	if errors.Is(err, ErrNoXMLFiles) {
		return "Error: No .xml files were found in the input directory."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Specify an XML file, or a directory with -d."
	}
	if errors.Is(err, ErrBatchIncomplete) {
		return "Error: Some files failed to convert. See the log output for details."
	}

	return fmt.Sprintf("Error: %v", err)
}
