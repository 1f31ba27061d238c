package api

import (
	"context"

	"github.com/carlosfiori/viacep-go/viacep"
)

// AddressLookup is the subset of *viacep.Client the handlers depend on.
type AddressLookup interface {
	Address(ctx context.Context, cep string) (*viacep.Address, error)
	Search(ctx context.Context, uf, localidade, logradouro string) ([]viacep.Address, error)
}

type ErrorResponse struct {
	Message string `json:"message"`
}
