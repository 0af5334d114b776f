package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

// Render renders a templ component to a string.
func Render(ctx context.Context, tpl templ.Component) (string, error) {
	var sb strings.Builder
	if err := tpl.Render(ctx, &sb); err != nil {
		return "", fmt.Errorf("templates: render: %w", err)
	}
	return sb.String(), nil
}
