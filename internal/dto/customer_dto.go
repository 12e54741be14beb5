package dto

type CreateCustomerRequest struct {
	Name     string  `json:"name"      validate:"required,min=2,max=100"`
	LastName string  `json:"last_name" validate:"max=100"`
	Contact  string  `json:"contact"   validate:"max=50"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Address  *string `json:"address"   validate:"omitempty,max=255"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name"      validate:"omitempty,min=2,max=100"`
	LastName *string `json:"last_name" validate:"omitempty,max=100"`
	Contact  *string `json:"contact"   validate:"omitempty,max=50"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	Address  *string `json:"address"   validate:"omitempty,max=255"`
}

type CustomerResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	LastName string  `json:"last_name"`
	Contact  string  `json:"contact"`
	Email    *string `json:"email"`
	Address  *string `json:"address"`
}

type CustomerListResponse struct {
	Data  []CustomerResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
