package in

import (
	"context"

	"lectern/internal/modules/auth/dto"
)

type Usecase interface {
	Status(ctx context.Context) (dto.StatusOutput, error)
	Login(ctx context.Context, input dto.LoginInput) (dto.LoginOutput, error)
	SaveToken(ctx context.Context, input dto.SaveTokenInput) (dto.StatusOutput, error)
	Logout(ctx context.Context) error
}
