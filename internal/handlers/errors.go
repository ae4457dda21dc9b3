// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/taxonomy-admin/internal/apiclient"
	"github.com/javajoker/taxonomy-admin/internal/editor"
	"github.com/javajoker/taxonomy-admin/internal/i18n"
	"github.com/javajoker/taxonomy-admin/internal/preview"
	"github.com/javajoker/taxonomy-admin/internal/services"
	"github.com/javajoker/taxonomy-admin/internal/utils"
)

var editErrors = []error{
	editor.ErrInvalidDataType,
	editor.ErrKeyNotScoped,
	editor.ErrInvalidValue,
	editor.ErrInvalidPattern,
	editor.ErrInvalidDependency,
	editor.ErrOptionsNotSupported,
}

// respondError maps service and editor errors onto the API envelope.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)
	_ = c.Error(err)

	var problems *services.ProblemsError
	if errors.As(err, &problems) {
		utils.UnprocessableResponse(c, "FIELD_PROBLEMS", i18n.T(lang, i18n.KeyProductTypeHasProblems),
			services.LocalizeProblems(lang, problems.Problems))
		return
	}

	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		utils.NotFoundResponse(c, "session")
	case errors.Is(err, services.ErrProductTypeNotFound):
		utils.NotFoundResponse(c, "product_type")
	case errors.Is(err, editor.ErrFieldNotFound):
		utils.NotFoundResponse(c, "field")
	case errors.Is(err, editor.ErrOptionNotFound):
		utils.NotFoundResponse(c, "option")
	case errors.Is(err, editor.ErrNoDraft):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyFieldDraftMissing), nil)
	case errors.Is(err, editor.ErrConfirmationRequired):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyFieldConfirmRemove), nil)
	case errors.Is(err, preview.ErrWindowClosed):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyPreviewWindowClosed), nil)
	case errors.Is(err, editor.ErrDraftInvalid):
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", i18n.T(lang, i18n.KeyFieldDraftIncomplete), utils.GetValidationErrors(err))
	case errors.Is(err, services.ErrInvalidProductType):
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", i18n.T(lang, i18n.KeyProductTypeInvalid), utils.GetValidationErrors(err))
	case errors.Is(err, services.ErrSaveFailed):
		utils.BadGatewayResponse(c, i18n.T(lang, i18n.KeyProductTypeSaveFailed, upstreamMessage(err)))
	case errors.Is(err, services.ErrLoadFailed):
		utils.BadGatewayResponse(c, i18n.T(lang, i18n.KeyProductTypeLoadFailed, upstreamMessage(err)))
	case isEditError(err):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFieldInvalidEdit, err.Error()), nil)
	default:
		if validationErrors := utils.GetValidationErrors(err); len(validationErrors) > 0 {
			utils.ValidationErrorResponse(c, validationErrors)
			return
		}
		utils.InternalErrorResponse(c, "")
	}
}

func isEditError(err error) bool {
	for _, target := range editErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// upstreamMessage is the catalogue API's own message when it sent one.
func upstreamMessage(err error) string {
	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return err.Error()
}
