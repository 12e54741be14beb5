package service

import (
	"context"
	"testing"

	"dellasoft/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_CreateAndUpdateProduct(t *testing.T) {
	repo := newMemCatalog()
	svc := NewCatalogService(repo, nil)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, dto.CreateProductRequest{Name: "  Medialuna  ", Price: 450})
	require.NoError(t, err)
	assert.Equal(t, "Medialuna", p.Name)
	assert.Equal(t, "unidad", p.Unit)
	assert.True(t, p.Active)

	price := int64(500)
	inactive := false
	updated, err := svc.UpdateProduct(ctx, uuid.MustParse(p.ID), dto.UpdateProductRequest{Price: &price, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, int64(500), updated.Price)
	assert.False(t, updated.Active)

	_, err = svc.GetProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalog_ListWithoutCacheHitsRepository(t *testing.T) {
	repo := newMemCatalog()
	repo.addProduct("Pan francés", 1200)
	repo.addProduct("Pan de campo", 2500)
	repo.addProduct("Torta", 15000)
	svc := NewCatalogService(repo, nil)
	ctx := context.Background()

	list, err := svc.ListProducts(ctx, dto.ListFilter{Search: "PAN"}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 50, list.Limit)

	_, err = svc.ListProducts(ctx, dto.ListFilter{Search: "PAN"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestCatalog_DuplicateIngredient(t *testing.T) {
	svc := NewCatalogService(newMemCatalog(), nil)
	ctx := context.Background()

	_, err := svc.CreateIngredient(ctx, dto.CreateIngredientRequest{Name: "Harina 000"})
	require.NoError(t, err)
	_, err = svc.CreateIngredient(ctx, dto.CreateIngredientRequest{Name: "Harina 000"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalog_SetRecipe(t *testing.T) {
	repo := newMemCatalog()
	bread := repo.addProduct("Pan francés", 1200)
	flour := repo.addIngredient("Harina 000")
	yeast := repo.addIngredient("Levadura")
	svc := NewCatalogService(repo, nil)
	ctx := context.Background()

	recipe, err := svc.SetRecipe(ctx, bread.ID, dto.SetRecipeRequest{Items: []dto.RecipeItemRequest{
		{IngredientID: flour.ID.String(), Quantity: 500},
		{IngredientID: yeast.ID.String(), Quantity: 10},
	}})
	require.NoError(t, err)
	require.Len(t, recipe, 2)
	assert.Equal(t, "Harina 000", recipe[0].Ingredient)
	assert.Equal(t, int64(500), recipe[0].Quantity)

	// replacing keeps only the new rows
	recipe, err = svc.SetRecipe(ctx, bread.ID, dto.SetRecipeRequest{Items: []dto.RecipeItemRequest{
		{IngredientID: flour.ID.String(), Quantity: 450},
	}})
	require.NoError(t, err)
	require.Len(t, recipe, 1)
	assert.Equal(t, int64(450), recipe[0].Quantity)
}

func TestCatalog_SetRecipeRejections(t *testing.T) {
	repo := newMemCatalog()
	bread := repo.addProduct("Pan francés", 1200)
	flour := repo.addIngredient("Harina 000")
	svc := NewCatalogService(repo, nil)
	ctx := context.Background()

	_, err := svc.SetRecipe(ctx, bread.ID, dto.SetRecipeRequest{Items: []dto.RecipeItemRequest{
		{IngredientID: flour.ID.String(), Quantity: 1},
		{IngredientID: flour.ID.String(), Quantity: 2},
	}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetRecipe(ctx, bread.ID, dto.SetRecipeRequest{Items: []dto.RecipeItemRequest{
		{IngredientID: uuid.NewString(), Quantity: 1},
	}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetRecipe(ctx, uuid.New(), dto.SetRecipeRequest{Items: []dto.RecipeItemRequest{
		{IngredientID: flour.ID.String(), Quantity: 1},
	}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, repo.recipes)
}
