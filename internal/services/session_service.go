// internal/services/session_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/taxonomy-admin/internal/editor"
	"github.com/javajoker/taxonomy-admin/internal/metrics"
	"github.com/javajoker/taxonomy-admin/internal/models"
	"github.com/javajoker/taxonomy-admin/internal/preview"
	"github.com/javajoker/taxonomy-admin/internal/schema"
	"github.com/javajoker/taxonomy-admin/internal/utils"
)

var (
	ErrSessionNotFound     = errors.New("edit session not found")
	ErrProductTypeNotFound = errors.New("product type not found")
	ErrInvalidProductType  = errors.New("product type details are invalid")
	ErrSaveFailed          = errors.New("saving the product type failed")
	ErrLoadFailed          = errors.New("loading the product type failed")
)

// ProblemsError blocks a save while the field set has configuration defects.
type ProblemsError struct {
	Problems []editor.Problem
}

func (e *ProblemsError) Error() string {
	return fmt.Sprintf("field configuration has %d problem(s)", len(e.Problems))
}

// Catalogue is the persistence collaborator behind a session.
type Catalogue interface {
	ListProductTypes(ctx context.Context, categoryID string) ([]models.ProductType, error)
	CreateProductType(ctx context.Context, categoryID string, payload models.ProductTypePayload) (string, error)
	UpdateProductType(ctx context.Context, categoryID, typeID string, payload models.ProductTypePayload) error
	GetFieldDefinitions(ctx context.Context, typeID string) ([]models.FieldDefinition, error)
}

var defaultWindow = preview.Rect{X: 24, Y: 24, Width: 420, Height: 560}

type CreateSessionRequest struct {
	CategoryID  string              `json:"categoryId" validate:"required,max=100"`
	TypeID      string              `json:"typeId" validate:"max=100"`
	ProductType *models.ProductType `json:"productType" validate:"-"`
	Window      *preview.Rect       `json:"window"`
	Viewport    *preview.Rect       `json:"viewport"`
}

type WindowGestureRequest struct {
	Kind preview.GestureKind `json:"kind" validate:"required,oneof=drag resize"`
	From preview.Point       `json:"from"`
	Path []preview.Point     `json:"path"`
	To   preview.Point       `json:"to"`
}

// EditSession is one product type being edited: the field builder, the
// preview form and the floating preview window.
type EditSession struct {
	id         string
	categoryID string
	createdAt  time.Time

	mu          sync.Mutex
	lastUsed    time.Time
	productType models.ProductType
	builder     *editor.Builder
	preview     *preview.Session
	hub         *preview.PointerHub
	window      *preview.Window
}

type SessionView struct {
	ID          string                  `json:"id"`
	CategoryID  string                  `json:"categoryId"`
	IsEdit      bool                    `json:"isEdit"`
	ProductType models.ProductType      `json:"productType"`
	Fields      []editor.Entry          `json:"fields"`
	Expanded    string                  `json:"expanded,omitempty"`
	Draft       *models.FieldDefinition `json:"draft,omitempty"`
	Problems    []editor.Problem        `json:"problems"`
	Preview     PreviewView             `json:"preview"`
	CreatedAt   time.Time               `json:"createdAt"`
}

type PreviewView struct {
	State  preview.State     `json:"state"`
	Values models.FormValues `json:"values"`
	Errors map[string]string `json:"errors"`
	Layout preview.Layout    `json:"layout"`
	Window WindowView        `json:"window"`
}

type WindowView struct {
	Open    bool                `json:"open"`
	Rect    preview.Rect        `json:"rect"`
	Gesture preview.GestureKind `json:"gesture,omitempty"`
}

// SessionService keeps edit sessions in memory and evicts the ones left idle
// longer than the TTL.
type SessionService struct {
	catalogue Catalogue
	metrics   *metrics.Metrics
	ttl       time.Duration
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*EditSession

	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionService(catalogue Catalogue, m *metrics.Metrics, ttl time.Duration) *SessionService {
	s := &SessionService{
		catalogue: catalogue,
		metrics:   m,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*EditSession),
		stop:      make(chan struct{}),
	}

	// Sweep idle sessions every minute
	go s.cleanupSessions(time.Minute)

	return s
}

// Close stops the idle sweep.
func (s *SessionService) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionService) cleanupSessions(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				logrus.WithField("evicted", n).Info("Idle edit sessions evicted")
			}
		}
	}
}

func (s *SessionService) sweep() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		// A locked session is in use, so it is not idle.
		if !sess.mu.TryLock() {
			continue
		}
		idle := now.Sub(sess.lastUsed) > s.ttl
		sess.mu.Unlock()
		if idle {
			sess.window.Close()
			delete(s.sessions, id)
			evicted++
		}
	}
	s.metrics.SetActiveSessions(len(s.sessions))
	return evicted
}

func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Create opens a blank session, or an edit session loaded from the
// catalogue when req.TypeID is set.
func (s *SessionService) Create(ctx context.Context, req *CreateSessionRequest) (string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	pt := models.ProductType{DisplayOrder: 1}
	if req.ProductType != nil {
		pt = *req.ProductType
	}
	var fields []models.FieldDefinition

	if req.TypeID != "" {
		types, err := s.catalogue.ListProductTypes(ctx, req.CategoryID)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
		found := false
		for _, t := range types {
			if t.ID == req.TypeID {
				pt, found = t, true
				break
			}
		}
		if !found {
			return "", ErrProductTypeNotFound
		}
		if fields, err = s.catalogue.GetFieldDefinitions(ctx, req.TypeID); err != nil {
			return "", fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
	}
	pt.ID = req.TypeID
	pt.CategoryID = req.CategoryID

	rect, viewport := defaultWindow, preview.Rect{}
	if req.Window != nil {
		rect = *req.Window
	}
	if req.Viewport != nil {
		viewport = *req.Viewport
	}

	hub := preview.NewPointerHub()
	now := s.now()
	sess := &EditSession{
		id:          uuid.NewString(),
		categoryID:  req.CategoryID,
		createdAt:   now,
		lastUsed:    now,
		productType: pt,
		builder:     editor.NewBuilder(fields),
		preview:     preview.NewSession(),
		hub:         hub,
		window:      preview.NewWindow(hub, rect, viewport),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.metrics.SetActiveSessions(len(s.sessions))
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"session":  sess.id,
		"category": req.CategoryID,
		"type":     req.TypeID,
		"fields":   len(fields),
	}).Info("Edit session opened")

	return sess.id, nil
}

func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.metrics.SetActiveSessions(len(s.sessions))
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.window.Close()
	return nil
}

// View renders the session with messages in lang.
func (s *SessionService) View(id, lang string) (*SessionView, error) {
	var view *SessionView
	err := s.with(id, func(sess *EditSession) error {
		view = sess.view(lang)
		return nil
	})
	return view, err
}

// List returns the product types of a category from the catalogue.
func (s *SessionService) List(ctx context.Context, categoryID string) ([]models.ProductType, error) {
	types, err := s.catalogue.ListProductTypes(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	sort.SliceStable(types, func(i, j int) bool { return types[i].DisplayOrder < types[j].DisplayOrder })
	return types, nil
}

func (s *SessionService) SetProductType(id string, pt models.ProductType) error {
	return s.with(id, func(sess *EditSession) error {
		pt.ID = sess.productType.ID
		pt.CategoryID = sess.categoryID
		sess.productType = pt
		return nil
	})
}

func (s *SessionService) OpenDraft(id string) error {
	return s.mutate(id, func(b *editor.Builder) error {
		b.OpenAdd()
		return nil
	})
}

func (s *SessionService) UpdateDraft(id string, patch models.FieldPatch) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.UpdateDraft(patch)
		return err
	})
}

func (s *SessionService) CommitDraft(id string) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.CommitAdd()
		return err
	})
}

func (s *SessionService) CancelDraft(id string) error {
	return s.mutate(id, func(b *editor.Builder) error {
		b.CancelAdd()
		return nil
	})
}

func (s *SessionService) UpdateField(id, key string, patch models.FieldPatch) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.Update(key, patch)
		return err
	})
}

func (s *SessionService) RemoveField(id, key string, confirmed bool) error {
	return s.mutate(id, func(b *editor.Builder) error {
		return b.Remove(key, confirmed)
	})
}

func (s *SessionService) ToggleField(id, key string) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.Toggle(key)
		return err
	})
}

func (s *SessionService) SetValidationRule(id, key, rule string, value any) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.SetValidationRule(key, rule, value)
		return err
	})
}

func (s *SessionService) SetFieldProperty(id, key, prop string, value any) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.SetFieldProperty(key, prop, value)
		return err
	})
}

func (s *SessionService) SetConditionalRule(id, key, rule string, value any) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.SetConditionalRule(key, rule, value)
		return err
	})
}

func (s *SessionService) AddOption(id, key string) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.AddOption(key)
		return err
	})
}

func (s *SessionService) UpdateOption(id, key string, index int, patch editor.OptionPatch) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.UpdateOption(key, index, patch)
		return err
	})
}

func (s *SessionService) RemoveOption(id, key string, index int) error {
	return s.mutate(id, func(b *editor.Builder) error {
		_, err := b.RemoveOption(key, index)
		return err
	})
}

func (s *SessionService) DependencyCandidates(id, key string) ([]editor.Candidate, error) {
	var out []editor.Candidate
	err := s.with(id, func(sess *EditSession) error {
		var err error
		out, err = sess.builder.DependencyCandidates(key)
		return err
	})
	return out, err
}

// Save serializes the field set and creates or updates the product type.
// After a create the returned id turns the session into an edit session.
func (s *SessionService) Save(ctx context.Context, id string) error {
	return s.with(id, func(sess *EditSession) error {
		if problems := sess.builder.Problems(); len(problems) > 0 {
			return &ProblemsError{Problems: problems}
		}
		if err := utils.ValidateStruct(&sess.productType); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProductType, err)
		}

		payload := models.NewProductTypePayload(sess.productType, sess.builder.Fields())
		log := logrus.WithFields(logrus.Fields{
			"session":  sess.id,
			"category": sess.categoryID,
			"fields":   len(payload.FieldDefinitions),
		})

		if sess.productType.ID == "" {
			typeID, err := s.catalogue.CreateProductType(ctx, sess.categoryID, payload)
			s.metrics.ObserveSave("create", err == nil)
			if err != nil {
				log.WithError(err).Error("Failed to create product type")
				return fmt.Errorf("%w: %w", ErrSaveFailed, err)
			}
			sess.productType.ID = typeID
			sess.productType.DisplayOrder = payload.DisplayOrder
			log.WithField("type", typeID).Info("Product type created")
			return nil
		}

		err := s.catalogue.UpdateProductType(ctx, sess.categoryID, sess.productType.ID, payload)
		s.metrics.ObserveSave("update", err == nil)
		if err != nil {
			log.WithError(err).Error("Failed to update product type")
			return fmt.Errorf("%w: %w", ErrSaveFailed, err)
		}
		log.WithField("type", sess.productType.ID).Info("Product type updated")
		return nil
	})
}

func (s *SessionService) SetPreviewValues(id string, values models.FormValues) error {
	return s.with(id, func(sess *EditSession) error {
		sess.preview.SetValues(sess.builder.Fields(), values)
		return nil
	})
}

// ValidatePreview runs the validator over the preview form and turns on
// live validation.
func (s *SessionService) ValidatePreview(id, lang string) (schema.Result, error) {
	var result schema.Result
	err := s.with(id, func(sess *EditSession) error {
		result = sess.preview.Validate(sess.builder.Fields())
		s.metrics.ObserveValidation("preview", result.Success)
		return nil
	})
	return LocalizeResult(lang, result), err
}

func (s *SessionService) ResetPreview(id string) error {
	return s.with(id, func(sess *EditSession) error {
		sess.preview.Reset()
		return nil
	})
}

// MoveWindow replays one drag or resize gesture against the preview window.
func (s *SessionService) MoveWindow(id string, req *WindowGestureRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return s.with(id, func(sess *EditSession) error {
		return sess.window.WithGesture(req.Kind, req.From, func(g *preview.Gesture) error {
			for _, p := range req.Path {
				sess.hub.Dispatch(preview.PointerEvent{Type: preview.PointerMove, Point: p})
			}
			sess.hub.Dispatch(preview.PointerEvent{Type: preview.PointerUp, Point: req.To})
			return nil
		})
	})
}

func (s *SessionService) SetWindowOpen(id string, open bool) error {
	return s.with(id, func(sess *EditSession) error {
		if open {
			sess.window.Reopen()
		} else {
			sess.window.Close()
		}
		return nil
	})
}

// with runs fn while holding the session lock.
func (s *SessionService) with(id string, fn func(*EditSession) error) error {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastUsed = s.now()
	return fn(sess)
}

// mutate applies an editor change and lets the preview catch up with the
// new field set.
func (s *SessionService) mutate(id string, fn func(*editor.Builder) error) error {
	return s.with(id, func(sess *EditSession) error {
		if err := fn(sess.builder); err != nil {
			return err
		}
		sess.preview.Sync(sess.builder.Fields())
		return nil
	})
}

func (sess *EditSession) view(lang string) *SessionView {
	fields := sess.builder.Fields()
	result := LocalizeResult(lang, sess.preview.Result())

	errs := map[string]string{}
	if sess.preview.Touched() {
		for k, v := range result.Errors {
			errs[k] = v
		}
	}

	view := &SessionView{
		ID:          sess.id,
		CategoryID:  sess.categoryID,
		IsEdit:      sess.productType.ID != "",
		ProductType: sess.productType,
		Fields:      sess.builder.Sorted(),
		Expanded:    sess.builder.Expanded(),
		Problems:    LocalizeProblems(lang, sess.builder.Problems()),
		CreatedAt:   sess.createdAt,
		Preview: PreviewView{
			State:  sess.preview.State(),
			Values: sess.preview.Values(),
			Errors: errs,
			Layout: preview.BuildLayout(fields, sess.preview.Values(), errs),
			Window: WindowView{
				Open: sess.window.IsOpen(),
				Rect: sess.window.Rect(),
			},
		},
	}
	if draft, ok := sess.builder.Draft(); ok {
		view.Draft = &draft
	}
	if kind, ok := sess.window.Active(); ok {
		view.Preview.Window.Gesture = kind
	}
	return view
}
