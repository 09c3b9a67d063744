package usecase

import (
	"context"

	"lectern/internal/modules/auth/domain"
	"lectern/internal/modules/auth/dto"
	authin "lectern/internal/modules/auth/port/in"
	"lectern/internal/modules/auth/service"
)

type Interactor struct {
	svc *service.AuthService
}

func NewInteractor(svc *service.AuthService) authin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Status(ctx context.Context) (dto.StatusOutput, error) {
	status, err := i.svc.Status(ctx)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return toStatusOutput(status), nil
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.LoginOutput, error) {
	url, opened, err := i.svc.Login(ctx, input.OpenBrowser)
	if err != nil {
		return dto.LoginOutput{URL: url}, err
	}
	return dto.LoginOutput{URL: url, Opened: opened}, nil
}

func (i *Interactor) SaveToken(ctx context.Context, input dto.SaveTokenInput) (dto.StatusOutput, error) {
	status, err := i.svc.SaveToken(ctx, input.Token)
	if err != nil {
		return dto.StatusOutput{}, err
	}
	return toStatusOutput(status), nil
}

func (i *Interactor) Logout(ctx context.Context) error {
	return i.svc.Logout(ctx)
}

func toStatusOutput(status domain.Status) dto.StatusOutput {
	return dto.StatusOutput{
		Authenticated:  status.Authenticated,
		UserID:         status.User.ID,
		UserName:       status.User.Name,
		UserEmail:      status.User.Email,
		HasToken:       status.HasToken,
		TokenExpiresAt: status.TokenExpiresAt,
	}
}
