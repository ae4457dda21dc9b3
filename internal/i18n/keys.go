// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Request validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyRateLimited        = "request.rate_limited"
	KeyInternalError      = "request.internal_error"

	// Forms
	KeyFormValid   = "form.valid"
	KeyFormInvalid = "form.invalid"

	// Edit sessions
	KeySessionCreated  = "session.created"
	KeySessionDeleted  = "session.deleted"
	KeySessionNotFound = "session.not_found"

	// Field definitions
	KeyFieldNotFound        = "field.not_found"
	KeyFieldAdded           = "field.added"
	KeyFieldUpdated         = "field.updated"
	KeyFieldRemoved         = "field.removed"
	KeyFieldConfirmRemove   = "field.confirm_remove"
	KeyFieldDraftMissing    = "field.draft_missing"
	KeyFieldDraftIncomplete = "field.draft_incomplete"
	KeyFieldInvalidEdit     = "field.invalid_edit"
	KeyOptionNotFound       = "option.not_found"

	// Product types
	KeyProductTypeNotFound    = "product_type.not_found"
	KeyProductTypeSaved       = "product_type.saved"
	KeyProductTypeInvalid     = "product_type.invalid"
	KeyProductTypeHasProblems = "product_type.has_problems"
	KeyProductTypeSaveFailed  = "product_type.save_failed"
	KeyProductTypeLoadFailed  = "product_type.load_failed"

	// Preview
	KeyPreviewReset        = "preview.reset"
	KeyPreviewWindowClosed = "preview.window_closed"
)

// Prefixes of keys built from validator issue and editor problem codes.
const (
	PrefixFieldIssue    = "validation.field."
	PrefixEditorProblem = "editor.problem."
)
