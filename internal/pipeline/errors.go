package pipeline

import "errors"

var (
	// ErrTemplateNotFound indicates the template is missing from every source.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTemplateName indicates a name that is not a bare *.html file name.
	ErrInvalidTemplateName = errors.New("invalid template name")

	// ErrTemplateInvalid indicates a parse or execution error in the template.
	ErrTemplateInvalid = errors.New("invalid template")

	// ErrExternalReference indicates the document references a resource that
	// is not inlined as a data URI.
	ErrExternalReference = errors.New("document references external resource")
)
