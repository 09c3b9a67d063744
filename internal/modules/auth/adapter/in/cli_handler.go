package in

import (
	"context"

	"lectern/internal/modules/auth/dto"
	authin "lectern/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) (dto.StatusOutput, error) {
	return h.usecase.Status(ctx)
}

func (h CLIHandler) Login(ctx context.Context, openBrowser bool) (dto.LoginOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{OpenBrowser: openBrowser})
}

func (h CLIHandler) SaveToken(ctx context.Context, token string) (dto.StatusOutput, error) {
	return h.usecase.SaveToken(ctx, dto.SaveTokenInput{Token: token})
}

func (h CLIHandler) Logout(ctx context.Context) error {
	return h.usecase.Logout(ctx)
}
