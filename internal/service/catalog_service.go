package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dellasoft/internal/dto"
	"dellasoft/internal/model"
	"dellasoft/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	productCachePrefix = "catalog:products:"
	productCacheTTL    = 5 * time.Minute
)

// CatalogService manages products, ingredients and recipes. Product listings
// are cached in Redis when a client is configured; every product write drops
// the cached pages.
type CatalogService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ListFilter, activeOnly bool) (*dto.ProductListResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)

	CreateIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error)
	ListIngredients(ctx context.Context, filter dto.ListFilter) ([]dto.IngredientResponse, int64, error)

	SetRecipe(ctx context.Context, productID uuid.UUID, req dto.SetRecipeRequest) ([]dto.RecipeItemResponse, error)
	GetRecipe(ctx context.Context, productID uuid.UUID) ([]dto.RecipeItemResponse, error)
}

type catalogService struct {
	repo repository.CatalogRepository
	rdb  *redis.Client
}

func NewCatalogService(repo repository.CatalogRepository, rdb *redis.Client) CatalogService {
	return &catalogService{repo: repo, rdb: rdb}
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.Price < 0 {
		return nil, ErrInvalidAmount
	}
	p := &model.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Unit:        req.Unit,
		Active:      true,
	}
	if p.Unit == "" {
		p.Unit = "unidad"
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, storageErr("crear producto", err)
	}
	s.invalidateProducts(ctx)
	resp := productToResponse(p)
	return &resp, nil
}

func (s *catalogService) findProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("producto")
		}
		return nil, storageErr("buscar producto", err)
	}
	return p, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter dto.ListFilter, activeOnly bool) (*dto.ProductListResponse, error) {
	page, limit, _ := repository.Page(filter.Page, filter.Limit, 50, 200)
	key := fmt.Sprintf("%s%t:%d:%d:%s", productCachePrefix, activeOnly, page, limit, strings.ToLower(filter.Search))

	if cached := s.cachedProducts(ctx, key); cached != nil {
		return cached, nil
	}

	products, total, err := s.repo.ListProducts(ctx, repository.CatalogFilter{
		Search:     filter.Search,
		Page:       page,
		Limit:      limit,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		return nil, storageErr("listar productos", err)
	}

	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, len(products)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range products {
		resp.Data[i] = productToResponse(&products[i])
	}
	s.cacheProducts(ctx, key, resp)
	return resp, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, ErrInvalidAmount
		}
		p.Price = *req.Price
	}
	if req.Unit != nil && *req.Unit != "" {
		p.Unit = *req.Unit
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, storageErr("actualizar producto", err)
	}
	s.invalidateProducts(ctx)
	resp := productToResponse(p)
	return &resp, nil
}

// ── Product cache ─────────────────────────────────────────────────────────────

func (s *catalogService) cachedProducts(ctx context.Context, key string) *dto.ProductListResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("cache de productos no disponible")
		}
		return nil
	}
	var resp dto.ProductListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *catalogService) cacheProducts(ctx context.Context, key string, resp *dto.ProductListResponse) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, productCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo cachear el listado de productos")
	}
}

func (s *catalogService) invalidateProducts(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, productCachePrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar el cache de productos")
		return
	}
	if len(keys) > 0 {
		s.rdb.Del(ctx, keys...)
	}
}

// ── Ingredients ───────────────────────────────────────────────────────────────

func (s *catalogService) CreateIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	i := &model.Ingredient{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Unit:        req.Unit,
	}
	if i.Unit == "" {
		i.Unit = "gr"
	}
	if err := s.repo.CreateIngredient(ctx, i); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: ya existe un ingrediente llamado %q", ErrValidation, i.Name)
		}
		return nil, storageErr("crear ingrediente", err)
	}
	resp := ingredientToResponse(i)
	return &resp, nil
}

func (s *catalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error) {
	i, err := s.repo.FindIngredientByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("ingrediente")
		}
		return nil, storageErr("buscar ingrediente", err)
	}
	resp := ingredientToResponse(i)
	return &resp, nil
}

func (s *catalogService) ListIngredients(ctx context.Context, filter dto.ListFilter) ([]dto.IngredientResponse, int64, error) {
	ingredients, total, err := s.repo.ListIngredients(ctx, repository.CatalogFilter{
		Search: filter.Search,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, 0, storageErr("listar ingredientes", err)
	}
	resp := make([]dto.IngredientResponse, len(ingredients))
	for i := range ingredients {
		resp[i] = ingredientToResponse(&ingredients[i])
	}
	return resp, total, nil
}

// ── Recipes ───────────────────────────────────────────────────────────────────

func (s *catalogService) SetRecipe(ctx context.Context, productID uuid.UUID, req dto.SetRecipeRequest) ([]dto.RecipeItemResponse, error) {
	if _, err := s.findProduct(ctx, productID); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(req.Items))
	items := make([]model.RecipeItem, 0, len(req.Items))
	for _, it := range req.Items {
		ingredientID, err := uuid.Parse(it.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("%w: ingredient_id inválido", ErrValidation)
		}
		if seen[ingredientID] {
			return nil, fmt.Errorf("%w: ingrediente repetido en la receta", ErrValidation)
		}
		seen[ingredientID] = true
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, err := s.repo.FindIngredientByID(ctx, ingredientID); err != nil {
			if repository.IsNotFound(err) {
				return nil, notFound("ingrediente " + it.IngredientID)
			}
			return nil, storageErr("buscar ingrediente", err)
		}
		items = append(items, model.RecipeItem{
			ProductID:    productID,
			IngredientID: ingredientID,
			Quantity:     it.Quantity,
		})
	}

	if err := s.repo.ReplaceRecipe(ctx, productID, items); err != nil {
		return nil, storageErr("guardar receta", err)
	}
	return s.GetRecipe(ctx, productID)
}

func (s *catalogService) GetRecipe(ctx context.Context, productID uuid.UUID) ([]dto.RecipeItemResponse, error) {
	items, err := s.repo.ListRecipe(ctx, productID)
	if err != nil {
		return nil, storageErr("leer receta", err)
	}
	resp := make([]dto.RecipeItemResponse, len(items))
	for i, it := range items {
		resp[i] = dto.RecipeItemResponse{
			IngredientID: it.IngredientID.String(),
			Quantity:     it.Quantity,
		}
		if it.Ingredient != nil {
			resp[i].Ingredient = it.Ingredient.Name
			resp[i].Unit = it.Ingredient.Unit
		}
	}
	return resp, nil
}
