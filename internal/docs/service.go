// Package docs is the service layer around the sanitizer: it validates
// input, derives storage names, sanitizes and stores documents, and reports
// how much each sanitize pass removed.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tengjizhang/scrub/internal/model"
	"github.com/tengjizhang/scrub/internal/sanitize"
	"github.com/tengjizhang/scrub/internal/store"
)

const defaultMaxInputBytes = 1 << 20

type Options struct {
	// Policy nil means sanitize.DefaultPolicy.
	Policy        *sanitize.Policy
	MaxInputBytes int64
	Logger        *slog.Logger
}

type Service struct {
	store    *store.Store
	policy   *sanitize.Policy
	renderer *Renderer
	maxInput int64
	logger   *slog.Logger
}

func NewService(s *store.Store, opts Options) *Service {
	if opts.Policy == nil {
		opts.Policy = sanitize.DefaultPolicy()
	}
	if opts.MaxInputBytes <= 0 {
		opts.MaxInputBytes = defaultMaxInputBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		store:    s,
		policy:   opts.Policy,
		renderer: NewRenderer(),
		maxInput: opts.MaxInputBytes,
		logger:   opts.Logger,
	}
}

func (s *Service) Policy() *sanitize.Policy { return s.policy }

func (s *Service) MaxInputBytes() int64 { return s.maxInput }

// Put sanitizes raw and stores it under SafeName(name), replacing any
// existing document with that name.
func (s *Service) Put(ctx context.Context, name, raw, source string) (model.PutResult, error) {
	key, err := SafeName(name)
	if err != nil {
		return model.PutResult{}, err
	}
	if strings.TrimSpace(raw) == "" {
		return model.PutResult{}, fmt.Errorf("%w: body", store.ErrMissingField)
	}
	if err := s.checkSize(raw); err != nil {
		return model.PutResult{}, err
	}

	clean := sanitize.Sanitize(raw, s.policy)
	_, inserted, err := s.store.PutDocument(ctx, model.PutDocumentInput{
		Name:           key,
		HTML:           clean,
		Source:         strings.TrimSpace(source),
		InputBytes:     len(raw),
		SanitizedBytes: len(clean),
	})
	if err != nil {
		return model.PutResult{}, err
	}

	res := model.PutResult{
		Name:        key,
		Inserted:    inserted,
		InputBytes:  len(raw),
		OutputBytes: len(clean),
		Delta:       len(raw) - len(clean),
	}
	s.logger.Debug("document stored",
		"name", key,
		"inserted", inserted,
		"input_bytes", res.InputBytes,
		"output_bytes", res.OutputBytes,
	)
	return res, nil
}

func (s *Service) Get(ctx context.Context, name string) (model.Document, error) {
	key, err := SafeName(name)
	if err != nil {
		return model.Document{}, err
	}
	return s.store.GetDocument(ctx, key)
}

func (s *Service) List(ctx context.Context, opts model.ListOptions) ([]model.Document, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0", store.ErrInvalidInput)
	}
	return s.store.ListDocuments(ctx, opts)
}

func (s *Service) Delete(ctx context.Context, name string) error {
	key, err := SafeName(name)
	if err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, key); err != nil {
		return err
	}
	s.logger.Debug("document removed", "name", key)
	return nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	return s.store.GetStats(ctx)
}

// Markdown renders the stored document as markdown.
func (s *Service) Markdown(ctx context.Context, name string) (string, error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return s.renderer.HTMLToMarkdown(doc.HTML), nil
}

// Sanitize runs the sanitizer without storing anything.
func (s *Service) Sanitize(raw string) (string, error) {
	if err := s.checkSize(raw); err != nil {
		return "", err
	}
	return sanitize.Sanitize(raw, s.policy), nil
}

func (s *Service) Encode(raw string) (string, error) {
	if err := s.checkSize(raw); err != nil {
		return "", err
	}
	return sanitize.Encode(raw), nil
}

func (s *Service) checkSize(raw string) error {
	if int64(len(raw)) > s.maxInput {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", store.ErrTooLarge, len(raw), s.maxInput)
	}
	return nil
}
