package services

import (
	"context"
	"fmt"
	"strings"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// CategoryService manages categories and tags.
type CategoryService struct {
	store Store
}

func NewCategoryService(store Store) *CategoryService {
	return &CategoryService{store: store}
}

// ListCategories returns categories by name; an empty kind lists all.
func (s *CategoryService) ListCategories(ctx context.Context, kind core.CategoryKind) ([]core.Category, error) {
	if kind != "" && !kind.IsValid() {
		return nil, core.ErrInvalidCategoryKind
	}
	return s.store.Queries().ListCategories(ctx, kind)
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string, kind core.CategoryKind, parentID *int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, core.ErrEmptyName
	}
	if !kind.IsValid() {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidCategoryKind, kind)
	}
	return s.store.Queries().CreateCategory(ctx, core.Category{Name: name, Kind: kind, ParentID: parentID})
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.Queries().DeleteCategory(ctx, id)
}

// CreateTag returns the id of the tag with the normalized name, creating it
// if needed.
func (s *CategoryService) CreateTag(ctx context.Context, name string) (int64, error) {
	tag := core.NormalizeTag(name)
	if tag == "" {
		return 0, core.ErrEmptyName
	}
	var id int64
	err := s.store.InTx(ctx, func(q *storage.Queries) error {
		var err error
		id, err = q.UpsertTag(ctx, tag)
		return err
	})
	return id, err
}

func (s *CategoryService) ListTags(ctx context.Context) ([]core.Tag, error) {
	return s.store.Queries().ListTags(ctx)
}
