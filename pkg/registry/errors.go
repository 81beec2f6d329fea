package registry

import (
	"fmt"
)

// Define specific error types for chart mapping issues.

// ErrMappingExtension indicates the mappings file path has an invalid extension.
type ErrMappingExtension struct {
	Path string
}

func (e *ErrMappingExtension) Error() string {
	return fmt.Sprintf("mappings file path must end with .yaml or .yml: %s", e.Path)
}

// WrapMappingExtension creates a new ErrMappingExtension error.
func WrapMappingExtension(path string) error {
	return &ErrMappingExtension{Path: path}
}

// ErrMappingFileNotExist indicates the mappings file does not exist.
type ErrMappingFileNotExist struct {
	Path string
	Err  error
}

func (e *ErrMappingFileNotExist) Error() string {
	return fmt.Sprintf("mappings file does not exist: %s (%v)", e.Path, e.Err)
}

func (e *ErrMappingFileNotExist) Unwrap() error {
	return e.Err
}

// WrapMappingFileNotExist creates a new ErrMappingFileNotExist error.
func WrapMappingFileNotExist(path string, err error) error {
	return &ErrMappingFileNotExist{Path: path, Err: err}
}

// ErrMappingFileRead indicates an error occurred while reading the mappings file.
type ErrMappingFileRead struct {
	Path string
	Err  error
}

func (e *ErrMappingFileRead) Error() string {
	return fmt.Sprintf("failed to read mappings file '%s': %v", e.Path, e.Err)
}

func (e *ErrMappingFileRead) Unwrap() error {
	return e.Err
}

// WrapMappingFileRead creates a new ErrMappingFileRead error.
func WrapMappingFileRead(path string, err error) error {
	return &ErrMappingFileRead{Path: path, Err: err}
}

// ErrMappingFileEmpty indicates the mappings file is empty.
type ErrMappingFileEmpty struct {
	Path string
}

func (e *ErrMappingFileEmpty) Error() string {
	return fmt.Sprintf("mappings file is empty: %s", e.Path)
}

// WrapMappingFileEmpty creates a new ErrMappingFileEmpty error.
func WrapMappingFileEmpty(path string) error {
	return &ErrMappingFileEmpty{Path: path}
}

// ErrMappingFileParse indicates an error occurred while parsing the mappings file content.
type ErrMappingFileParse struct {
	Path string
	Err  error
}

func (e *ErrMappingFileParse) Error() string {
	return fmt.Sprintf("failed to parse mappings file '%s': %v", e.Path, e.Err)
}

func (e *ErrMappingFileParse) Unwrap() error {
	return e.Err
}

// WrapMappingFileParse creates a new ErrMappingFileParse error.
func WrapMappingFileParse(path string, err error) error {
	return &ErrMappingFileParse{Path: path, Err: err}
}

// ErrInvalidMapping indicates a mapping entry is missing its chart name or URL.
type ErrInvalidMapping struct {
	Path  string
	Index int
}

func (e *ErrInvalidMapping) Error() string {
	return fmt.Sprintf("mapping entry %d in file '%s' must set both chart and url", e.Index, e.Path)
}

// WrapInvalidMapping creates a new ErrInvalidMapping error.
func WrapInvalidMapping(path string, index int) error {
	return &ErrInvalidMapping{Path: path, Index: index}
}

// ErrDuplicateChart indicates a chart name appears more than once in the mappings file.
type ErrDuplicateChart struct {
	Path  string
	Chart string
}

func (e *ErrDuplicateChart) Error() string {
	return fmt.Sprintf("duplicate chart '%s' found in mappings file '%s'", e.Chart, e.Path)
}

// WrapDuplicateChart creates a new ErrDuplicateChart error.
func WrapDuplicateChart(path, chart string) error {
	return &ErrDuplicateChart{Path: path, Chart: chart}
}
