package templates_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrelay/pkg/email/templates"
)

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("renders component", func(t *testing.T) {
		t.Parallel()

		c := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "<p>hi</p>")
			return err
		})
		out, err := templates.Render(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", out)
	})

	t.Run("renders composed components", func(t *testing.T) {
		t.Parallel()

		out, err := templates.Render(context.Background(), templ.Join(templ.Raw("<p>"), templ.Raw("a &amp; b"), templ.Raw("</p>")))
		require.NoError(t, err)
		assert.Equal(t, "<p>a &amp; b</p>", out)
	})

	t.Run("wraps error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		c := templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })
		_, err := templates.Render(context.Background(), c)
		assert.ErrorIs(t, err, boom)
	})
}
