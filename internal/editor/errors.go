// internal/editor/errors.go
package editor

import "errors"

var (
	ErrFieldNotFound        = errors.New("field not found")
	ErrNoDraft              = errors.New("no field is being added")
	ErrDraftInvalid         = errors.New("field definition is incomplete")
	ErrConfirmationRequired = errors.New("removing a field requires confirmation")
	ErrInvalidDataType      = errors.New("unsupported data type")
	ErrKeyNotScoped         = errors.New("key does not apply to this data type")
	ErrInvalidValue         = errors.New("invalid value")
	ErrInvalidPattern       = errors.New("invalid regular expression")
	ErrInvalidDependency    = errors.New("field cannot depend on this field")
	ErrOptionsNotSupported  = errors.New("data type does not take options")
	ErrOptionNotFound       = errors.New("option not found")
)
