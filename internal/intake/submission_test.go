package intake_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formrelay/internal/intake"
)

func TestFields(t *testing.T) {
	t.Parallel()

	t.Run("keeps insertion order", func(t *testing.T) {
		t.Parallel()

		f := &intake.Fields{}
		f.Set("b", "1")
		f.Set("a", "2")
		f.Set("c", "3")

		assert.Equal(t, []intake.Field{{Name: "b", Value: "1"}, {Name: "a", Value: "2"}, {Name: "c", Value: "3"}}, f.All())
		assert.Equal(t, 3, f.Len())
	})

	t.Run("repeated key keeps position and takes last value", func(t *testing.T) {
		t.Parallel()

		f := intake.NewFields(
			intake.Field{Name: "x", Value: "1"},
			intake.Field{Name: "y", Value: "2"},
			intake.Field{Name: "x", Value: "3"},
		)
		assert.Equal(t, []intake.Field{{Name: "x", Value: "3"}, {Name: "y", Value: "2"}}, f.All())
	})

	t.Run("payload excludes reserved keys", func(t *testing.T) {
		t.Parallel()

		f := intake.NewFields(
			intake.Field{Name: "source", Value: "site"},
			intake.Field{Name: "name", Value: "Ada"},
			intake.Field{Name: "_honeypot", Value: ""},
		)
		assert.Equal(t, []intake.Field{{Name: "name", Value: "Ada"}}, f.Payload())
		assert.Equal(t, 3, f.Len())
	})

	t.Run("nil is empty", func(t *testing.T) {
		t.Parallel()

		var f *intake.Fields
		_, ok := f.Get("x")
		assert.False(t, ok)
		assert.Zero(t, f.Len())
		assert.Empty(t, f.Payload())
		assert.Empty(t, f.All())
	})

	t.Run("All returns a copy", func(t *testing.T) {
		t.Parallel()

		f := intake.NewFields(intake.Field{Name: "a", Value: "1"})
		all := f.All()
		all[0].Value = "changed"
		v, _ := f.Get("a")
		assert.Equal(t, "1", v)
	})
}

func TestResolveSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fields  *intake.Fields
		referer string
		want    string
	}{
		{name: "source field", fields: intake.NewFields(intake.Field{Name: "source", Value: "pricing"}), referer: "https://a.example/", want: "pricing"},
		{name: "empty source falls back to referer", fields: intake.NewFields(intake.Field{Name: "source", Value: ""}), referer: "https://a.example/", want: "https://a.example/"},
		{name: "referer", fields: intake.NewFields(), referer: "https://a.example/contact", want: "https://a.example/contact"},
		{name: "unknown", fields: nil, want: intake.UnknownSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, intake.ResolveSource(tt.fields, tt.referer))
		})
	}
}

func TestAttachmentSize(t *testing.T) {
	t.Parallel()

	var a *intake.Attachment
	assert.Zero(t, a.Size())
	assert.Equal(t, int64(3), (&intake.Attachment{Content: []byte("abc")}).Size())
}
