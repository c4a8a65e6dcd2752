package service

import (
	"context"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
)

const defaultCategoryIcon = "tag"

// CategoryInput is the body of category create calls
type CategoryInput struct {
	Name string                 `json:"name"`
	Type models.TransactionType `json:"type"`
	Icon string                 `json:"icon"`
}

func (in *CategoryInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = models.TransactionType(strings.ToUpper(string(in.Type)))
	in.Icon = strings.TrimSpace(in.Icon)
	if in.Name == "" {
		return validationf("name is required")
	}
	if !in.Type.Valid() {
		return validationf("type must be INCOME or EXPENSE")
	}
	if in.Icon == "" {
		in.Icon = defaultCategoryIcon
	}
	return nil
}

// CreateCategory adds a category for the caller
func (s *Service) CreateCategory(ctx context.Context, ownerID int64, in CategoryInput) (*models.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.FindCategoryByName(ctx, ownerID, in.Name, in.Type); err == nil {
		return nil, conflictf("category %q already exists", in.Name)
	} else if !isNotFound(err) {
		return nil, s.fail(ctx, "create", "category", ownerID, err)
	}

	category := &models.Category{UserID: ownerID, Name: in.Name, Type: in.Type, Icon: in.Icon}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, s.fail(ctx, "create", "category", ownerID, err)
	}
	return category, nil
}

// ListCategories returns the caller's active categories
func (s *Service) ListCategories(ctx context.Context, ownerID int64) ([]models.Category, error) {
	categories, err := s.store.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "list", "category", ownerID, err)
	}
	return categories, nil
}

// ArchiveCategory soft-deletes a category. Transactions keep pointing at it;
// a category still used by a budget cannot be archived.
func (s *Service) ArchiveCategory(ctx context.Context, ownerID, id int64) error {
	err := s.store.WithTx(ctx, func(st store.Store) error {
		if _, err := st.GetCategory(ctx, ownerID, id); err != nil {
			return err
		}
		n, err := st.CountCategoryBudgets(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return referencedf("category is used by %d budgets", n)
		}
		return st.ArchiveCategory(ctx, ownerID, id)
	})
	if err != nil {
		return s.fail(ctx, "archive", "category", ownerID, err)
	}

	s.log.WithField("owner", ownerID).Infof("Category %d archived", id)
	return nil
}
