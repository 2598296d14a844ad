package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=200"`
	TaxID           string `json:"tax_id" validate:"required,min=1,max=30"`
	DefaultCurrency string `json:"default_currency" validate:"required,iso4217"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Email           string `json:"email" validate:"omitempty,email"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=200"`
	DefaultCurrency *string `json:"default_currency" validate:"omitempty,iso4217"`
	Address         *string `json:"address"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Status          *string `json:"status" validate:"omitempty,oneof=active suspended inactive"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	TaxID           string    `json:"tax_id"`
	DefaultCurrency string    `json:"default_currency"`
	Address         string    `json:"address"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
