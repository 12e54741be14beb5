package service

import (
	"context"
	"testing"

	"dellasoft/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomers_CreateSearchUpdate(t *testing.T) {
	svc := NewCustomerService(newMemCustomers())
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateCustomerRequest{Name: " Marta ", LastName: "Gómez", Contact: "11-5555-0101"})
	require.NoError(t, err)
	assert.Equal(t, "Marta", created.Name)
	_, err = svc.Create(ctx, dto.CreateCustomerRequest{Name: "Julio", LastName: "Paz"})
	require.NoError(t, err)

	list, err := svc.List(ctx, dto.ListFilter{Search: "gómez"})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.ID, list.Data[0].ID)

	list, err = svc.List(ctx, dto.ListFilter{Search: "5555"})
	require.NoError(t, err)
	assert.Len(t, list.Data, 1)

	contact := "11-4444-0000"
	updated, err := svc.Update(ctx, uuid.MustParse(created.ID), dto.UpdateCustomerRequest{Contact: &contact})
	require.NoError(t, err)
	assert.Equal(t, contact, updated.Contact)
	assert.Equal(t, "Gómez", updated.LastName)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
