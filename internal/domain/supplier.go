package domain

// Supplier representa um fornecedor cadastrado.
// CNPJ trafega apenas com dígitos; Phone no formato "(dd) ddddd-dddd".
type Supplier struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name" validate:"notblank,max=100"`
	Email       string `json:"email" validate:"required,email,max=100"`
	CNPJ        string `json:"cnpj" validate:"cnpj"`
	Phone       string `json:"phone" validate:"phone"`
	ProductType string `json:"productType" validate:"notblank"`
}

// SupplierFilter é o filtro da tela de fornecedores (busca por nome + tipo de produto).
type SupplierFilter struct {
	Name        string
	ProductType string
}

// IsZero indica ausência de filtro (a listagem usa o endpoint simples).
func (f SupplierFilter) IsZero() bool {
	return f == SupplierFilter{}
}
