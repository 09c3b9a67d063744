package dto

type ThemeOutput struct {
	FontFamily  string
	FontSize    int
	TextColor   string
	LineHeight  float64
	RevealSpeed int
	RevealMode  string
}

// UpdateInput leaves nil fields unchanged.
type UpdateInput struct {
	FontFamily  *string
	FontSize    *int
	TextColor   *string
	LineHeight  *float64
	RevealSpeed *int
	RevealMode  *string
}
