package dto

import "time"

type StatusOutput struct {
	Authenticated  bool
	UserID         string
	UserName       string
	UserEmail      string
	HasToken       bool
	TokenExpiresAt time.Time
}

type LoginInput struct {
	OpenBrowser bool
}

type LoginOutput struct {
	URL    string
	Opened bool
}

type SaveTokenInput struct {
	Token string
}
