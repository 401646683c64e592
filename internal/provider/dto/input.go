package dto

type CreateProviderInput struct {
	Name    string
	Email   string
	Phone   string
	Website string
}

type UpdateProviderInput struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Website string
}
