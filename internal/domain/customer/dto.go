// internal/domain/customer/dto.go
package customer

type CreateCustomerRequest struct {
	Name        string `json:"name" binding:"max=255"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
	Email       string `json:"email" binding:"omitempty,email,max=255"`
}

type UpdateCustomerRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
}

type CustomerListFilters struct {
	Search string `form:"search"` // matches name or email
	Skip   int    `form:"skip" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=500"`
}
