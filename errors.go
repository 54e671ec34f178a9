package taskmill

import "errors"

var (
	// ErrInvalidAssemblyID is returned when the assembly sequence id is
	// missing or does not parse as a positive integer.
	ErrInvalidAssemblyID = errors.New("taskmill: assembly sequence id must be a positive integer")

	// ErrEmptyAssemblyName is returned when no assembly name is supplied.
	ErrEmptyAssemblyName = errors.New("taskmill: assembly name must not be empty")

	// ErrUnsupportedType is returned when the input is not a readable
	// Word document.
	ErrUnsupportedType = errors.New("taskmill: unsupported document type")

	// ErrEmptyDocument is returned when text extraction yields no
	// non-blank lines.
	ErrEmptyDocument = errors.New("taskmill: document contains no extractable text")

	// ErrNoTasks is returned when every extraction strategy comes back
	// empty.
	ErrNoTasks = errors.New("taskmill: no tasks recognized in document")

	// ErrPackaging is returned when the workbook or archive cannot be
	// generated. Extraction results stay valid when this happens.
	ErrPackaging = errors.New("taskmill: failed to create download files")
)
