// internal/handlers/form.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/taxonomy-admin/internal/i18n"
	"github.com/javajoker/taxonomy-admin/internal/services"
	"github.com/javajoker/taxonomy-admin/internal/utils"
)

type FormHandler struct {
	formService *services.FormService
}

func NewFormHandler(formService *services.FormService) *FormHandler {
	return &FormHandler{
		formService: formService,
	}
}

// POST /forms/validate
func (h *FormHandler) Validate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ValidateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.formService.Validate(lang, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	message := i18n.T(lang, i18n.KeyFormValid)
	if !result.Success {
		message = i18n.T(lang, i18n.KeyFormInvalid)
	}
	utils.SuccessResponse(c, gin.H{
		"message": message,
		"result":  result,
	})
}

// POST /forms/evaluate
func (h *FormHandler) Evaluate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.EvaluateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"visible": h.formService.Evaluate(&req),
	})
}

// POST /forms/schema
func (h *FormHandler) DescribeSchema(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.DescribeSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	desc, err := h.formService.DescribeSchema(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, desc)
}
