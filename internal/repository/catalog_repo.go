package repository

import (
	"context"

	"dellasoft/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogFilter is shared by product and ingredient listings.
type CatalogFilter struct {
	Search string
	Page   int
	Limit  int
	// ActiveOnly hides inactive products (ignored for ingredients)
	ActiveOnly bool
}

// CatalogRepository defines the data access contract for products,
// ingredients and recipes.
type CatalogRepository interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	ListProducts(ctx context.Context, filter CatalogFilter) ([]model.Product, int64, error)
	// AllProducts returns the whole catalog in catalog order (name, then id).
	AllProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) error

	CreateIngredient(ctx context.Context, i *model.Ingredient) error
	FindIngredientByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	ListIngredients(ctx context.Context, filter CatalogFilter) ([]model.Ingredient, int64, error)

	// ReplaceRecipe swaps all recipe rows of a product in one transaction.
	ReplaceRecipe(ctx context.Context, productID uuid.UUID, items []model.RecipeItem) error
	ListRecipe(ctx context.Context, productID uuid.UUID) ([]model.RecipeItem, error)
}

type catalogRepo struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &catalogRepo{db: db} }

func (r *catalogRepo) CreateProduct(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *catalogRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *catalogRepo) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *catalogRepo) ListProducts(ctx context.Context, filter CatalogFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.ActiveOnly {
		q = q.Where("active = true")
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := Page(filter.Page, filter.Limit, 50, 200)
	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *catalogRepo) AllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&products).Error
	return products, err
}

func (r *catalogRepo) UpdateProduct(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *catalogRepo) CreateIngredient(ctx context.Context, i *model.Ingredient) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *catalogRepo) FindIngredientByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	return &i, err
}

func (r *catalogRepo) ListIngredients(ctx context.Context, filter CatalogFilter) ([]model.Ingredient, int64, error) {
	var ingredients []model.Ingredient
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Ingredient{})
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := Page(filter.Page, filter.Limit, 50, 200)
	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&ingredients).Error
	return ingredients, total, err
}

func (r *catalogRepo) ReplaceRecipe(ctx context.Context, productID uuid.UUID, items []model.RecipeItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.RecipeItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *catalogRepo) ListRecipe(ctx context.Context, productID uuid.UUID) ([]model.RecipeItem, error) {
	var items []model.RecipeItem
	err := r.db.WithContext(ctx).Preload("Ingredient").Where("product_id = ?", productID).Find(&items).Error
	return items, err
}
