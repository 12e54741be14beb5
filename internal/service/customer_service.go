package service

import (
	"context"
	"strings"

	"dellasoft/internal/dto"
	"dellasoft/internal/model"
	"dellasoft/internal/repository"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.ListFilter) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		Name:     strings.TrimSpace(req.Name),
		LastName: strings.TrimSpace(req.LastName),
		Contact:  req.Contact,
		Email:    req.Email,
		Address:  req.Address,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, storageErr("crear cliente", err)
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) find(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("cliente")
		}
		return nil, storageErr("buscar cliente", err)
	}
	return c, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := customerToResponse(c)
	return &resp, nil
}

func (s *customerService) List(ctx context.Context, filter dto.ListFilter) (*dto.CustomerListResponse, error) {
	customers, total, err := s.repo.List(ctx, strings.TrimSpace(filter.Search), filter.Page, filter.Limit)
	if err != nil {
		return nil, storageErr("listar clientes", err)
	}
	page, limit, _ := repository.Page(filter.Page, filter.Limit, 20, 200)
	resp := &dto.CustomerListResponse{
		Data:  make([]dto.CustomerResponse, len(customers)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range customers {
		resp.Data[i] = customerToResponse(&customers[i])
	}
	return resp, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.LastName != nil {
		c.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Contact != nil {
		c.Contact = *req.Contact
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, storageErr("actualizar cliente", err)
	}
	resp := customerToResponse(c)
	return &resp, nil
}
