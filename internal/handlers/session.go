// internal/handlers/session.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/taxonomy-admin/internal/editor"
	"github.com/javajoker/taxonomy-admin/internal/i18n"
	"github.com/javajoker/taxonomy-admin/internal/models"
	"github.com/javajoker/taxonomy-admin/internal/services"
	"github.com/javajoker/taxonomy-admin/internal/utils"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

// SetKeyRequest sets one key of a sub-editor panel.
type SetKeyRequest struct {
	Key   string `json:"key" validate:"required,max=50"`
	Value any    `json:"value"`
}

type PreviewValuesRequest struct {
	Values models.FormValues `json:"values" validate:"required"`
}

type WindowStateRequest struct {
	Open bool `json:"open"`
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
	}
}

// GET /categories/:categoryId/types
func (h *SessionHandler) ListProductTypes(c *gin.Context) {
	types, err := h.sessionService.List(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, gin.H{
		"productTypes": types,
	}, gin.H{
		"categoryId": c.Param("categoryId"),
		"total":      len(types),
	})
}

// POST /sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.sessionService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.sessionService.View(id, lang)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySessionCreated),
		"session": view,
	})
}

// GET /sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	h.render(c, nil)
}

// DELETE /sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.sessionService.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySessionDeleted),
	})
}

// PUT /sessions/:id/product-type
func (h *SessionHandler) UpdateProductType(c *gin.Context) {
	var req models.ProductType
	if !bindJSON(c, &req) {
		return
	}
	h.render(c, h.sessionService.SetProductType(c.Param("id"), req))
}

// POST /sessions/:id/draft
func (h *SessionHandler) OpenDraft(c *gin.Context) {
	h.render(c, h.sessionService.OpenDraft(c.Param("id")))
}

// PATCH /sessions/:id/draft
func (h *SessionHandler) UpdateDraft(c *gin.Context) {
	var patch models.FieldPatch
	if !bindPatch(c, &patch) {
		return
	}
	h.render(c, h.sessionService.UpdateDraft(c.Param("id"), patch))
}

// POST /sessions/:id/draft/commit
func (h *SessionHandler) CommitDraft(c *gin.Context) {
	h.render(c, h.sessionService.CommitDraft(c.Param("id")))
}

// DELETE /sessions/:id/draft
func (h *SessionHandler) CancelDraft(c *gin.Context) {
	h.render(c, h.sessionService.CancelDraft(c.Param("id")))
}

// PATCH /sessions/:id/fields/:key
func (h *SessionHandler) UpdateField(c *gin.Context) {
	var patch models.FieldPatch
	if !bindPatch(c, &patch) {
		return
	}
	h.render(c, h.sessionService.UpdateField(c.Param("id"), c.Param("key"), patch))
}

// DELETE /sessions/:id/fields/:key?confirm=true
func (h *SessionHandler) RemoveField(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	h.render(c, h.sessionService.RemoveField(c.Param("id"), c.Param("key"), confirmed))
}

// POST /sessions/:id/fields/:key/toggle
func (h *SessionHandler) ToggleField(c *gin.Context) {
	h.render(c, h.sessionService.ToggleField(c.Param("id"), c.Param("key")))
}

// PUT /sessions/:id/fields/:key/validation-rules
func (h *SessionHandler) SetValidationRule(c *gin.Context) {
	var req SetKeyRequest
	if !bindJSON(c, &req) {
		return
	}
	h.render(c, h.sessionService.SetValidationRule(c.Param("id"), c.Param("key"), req.Key, req.Value))
}

// PUT /sessions/:id/fields/:key/properties
func (h *SessionHandler) SetFieldProperty(c *gin.Context) {
	var req SetKeyRequest
	if !bindJSON(c, &req) {
		return
	}
	h.render(c, h.sessionService.SetFieldProperty(c.Param("id"), c.Param("key"), req.Key, req.Value))
}

// PUT /sessions/:id/fields/:key/condition
func (h *SessionHandler) SetConditionalRule(c *gin.Context) {
	var req SetKeyRequest
	if !bindJSON(c, &req) {
		return
	}
	h.render(c, h.sessionService.SetConditionalRule(c.Param("id"), c.Param("key"), req.Key, req.Value))
}

// GET /sessions/:id/fields/:key/candidates
func (h *SessionHandler) DependencyCandidates(c *gin.Context) {
	candidates, err := h.sessionService.DependencyCandidates(c.Param("id"), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"candidates": candidates,
	})
}

// POST /sessions/:id/fields/:key/options
func (h *SessionHandler) AddOption(c *gin.Context) {
	h.render(c, h.sessionService.AddOption(c.Param("id"), c.Param("key")))
}

// PATCH /sessions/:id/fields/:key/options/:index
func (h *SessionHandler) UpdateOption(c *gin.Context) {
	index, ok := optionIndex(c)
	if !ok {
		return
	}
	var patch editor.OptionPatch
	if !bindJSON(c, &patch) {
		return
	}
	h.render(c, h.sessionService.UpdateOption(c.Param("id"), c.Param("key"), index, patch))
}

// DELETE /sessions/:id/fields/:key/options/:index
func (h *SessionHandler) RemoveOption(c *gin.Context) {
	index, ok := optionIndex(c)
	if !ok {
		return
	}
	h.render(c, h.sessionService.RemoveOption(c.Param("id"), c.Param("key"), index))
}

// POST /sessions/:id/save
func (h *SessionHandler) Save(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id := c.Param("id")

	if err := h.sessionService.Save(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	view, err := h.sessionService.View(id, lang)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductTypeSaved),
		"session": view,
	})
}

// GET /sessions/:id/preview
func (h *SessionHandler) GetPreview(c *gin.Context) {
	view, err := h.sessionService.View(c.Param("id"), utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, view.Preview)
}

// PUT /sessions/:id/preview/values
func (h *SessionHandler) SetPreviewValues(c *gin.Context) {
	var req PreviewValuesRequest
	if !bindJSON(c, &req) {
		return
	}
	h.render(c, h.sessionService.SetPreviewValues(c.Param("id"), req.Values))
}

// POST /sessions/:id/preview/validate
func (h *SessionHandler) ValidatePreview(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	result, err := h.sessionService.ValidatePreview(c.Param("id"), lang)
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

// POST /sessions/:id/preview/reset
func (h *SessionHandler) ResetPreview(c *gin.Context) {
	h.render(c, h.sessionService.ResetPreview(c.Param("id")))
}

// POST /sessions/:id/preview/window/gesture
func (h *SessionHandler) WindowGesture(c *gin.Context) {
	var req services.WindowGestureRequest
	if !bindJSON(c, &req) {
		return
	}
	h.render(c, h.sessionService.MoveWindow(c.Param("id"), &req))
}

// PUT /sessions/:id/preview/window
func (h *SessionHandler) SetWindowState(c *gin.Context) {
	var req WindowStateRequest
	if !bindJSON(c, &req) {
		return
	}
	h.render(c, h.sessionService.SetWindowOpen(c.Param("id"), req.Open))
}

// render answers with the session view unless the preceding call failed.
func (h *SessionHandler) render(c *gin.Context, err error) {
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.sessionService.View(c.Param("id"), utils.GetLangFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"session": view,
	})
}

// bindJSON decodes and validates the request body, answering the request
// itself when either step fails.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// bindPatch decodes a field patch. Its keys are checked when it is applied.
func bindPatch(c *gin.Context, patch *models.FieldPatch) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(patch); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}

func optionIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid option index", nil)
		return 0, false
	}
	return index, true
}
