package out

import (
	"context"
	"net/http"

	"lectern/internal/modules/auth/domain"
	authout "lectern/internal/modules/auth/port/out"
	"lectern/internal/platform/apiclient"
)

const (
	statusPath = "/api/auth/status"
	googlePath = "/api/auth/google"
	logoutPath = "/api/auth/logout"
)

type HTTPAuthAPI struct {
	client *apiclient.Client
}

func NewHTTPAuthAPI(client *apiclient.Client) authout.AuthAPI {
	return &HTTPAuthAPI{client: client}
}

type statusPayload struct {
	Authenticated bool `json:"authenticated"`
	User          *struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
	} `json:"user"`
}

func (a *HTTPAuthAPI) Status(ctx context.Context) (authout.RemoteStatus, error) {
	var payload statusPayload
	if err := a.client.Do(ctx, http.MethodGet, statusPath, nil, &payload); err != nil {
		return authout.RemoteStatus{}, err
	}
	out := authout.RemoteStatus{Authenticated: payload.Authenticated}
	if payload.User != nil {
		name := payload.User.Name
		if name == "" {
			name = payload.User.DisplayName
		}
		out.User = domain.User{ID: payload.User.ID, Name: name, Email: payload.User.Email}
	}
	return out, nil
}

func (a *HTTPAuthAPI) Logout(ctx context.Context) error {
	return a.client.Do(ctx, http.MethodPost, logoutPath, nil, nil)
}

func (a *HTTPAuthAPI) LoginURL() string {
	return a.client.URL(googlePath)
}
