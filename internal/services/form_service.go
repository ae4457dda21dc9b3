// internal/services/form_service.go
package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/taxonomy-admin/internal/metrics"
	"github.com/javajoker/taxonomy-admin/internal/models"
	"github.com/javajoker/taxonomy-admin/internal/schema"
	"github.com/javajoker/taxonomy-admin/internal/utils"
)

// FormService runs the validation engine over field sets supplied by the
// caller. It keeps no state between calls.
type FormService struct {
	metrics *metrics.Metrics
}

type ValidateFormRequest struct {
	Fields []models.FieldDefinition `json:"fields" validate:"required"`
	Values models.FormValues        `json:"values"`
}

type EvaluateConditionRequest struct {
	Rule   *models.ConditionalRule `json:"rule"`
	Values models.FormValues       `json:"values"`
}

type DescribeSchemaRequest struct {
	Fields []models.FieldDefinition `json:"fields" validate:"required"`
	Values models.FormValues        `json:"values"`
}

// SchemaDescription is the structural validator the engine derived for the
// fields visible under the given values.
type SchemaDescription struct {
	Schema       *schema.FormSchema  `json:"schema"`
	ConfigErrors map[string][]string `json:"configErrors"`
}

func NewFormService(m *metrics.Metrics) *FormService {
	return &FormService{metrics: m}
}

// Validate checks req.Values against req.Fields and localizes the messages.
// A failed validation is a result, not an error.
func (s *FormService) Validate(lang string, req *ValidateFormRequest) (schema.Result, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return schema.Result{}, fmt.Errorf("validation failed: %w", err)
	}

	result := schema.ValidateForm(req.Fields, req.Values)
	s.metrics.ObserveValidation("api", result.Success)

	logrus.WithFields(logrus.Fields{
		"fields":  len(req.Fields),
		"success": result.Success,
		"errors":  len(result.Errors),
	}).Debug("Form validated")

	return LocalizeResult(lang, result), nil
}

func (s *FormService) Evaluate(req *EvaluateConditionRequest) bool {
	return schema.EvaluateCondition(req.Rule, req.Values)
}

func (s *FormService) DescribeSchema(req *DescribeSchemaRequest) (*SchemaDescription, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	fs := schema.BuildFormSchema(req.Fields, req.Values)
	configErrors := fs.ConfigErrors()
	if len(configErrors) > 0 {
		logrus.WithField("fields", len(configErrors)).Warn("Field definitions carry unusable validation rules")
	}
	return &SchemaDescription{Schema: fs, ConfigErrors: configErrors}, nil
}
