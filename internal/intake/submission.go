package intake

import "time"

// Reserved field names. They are kept in the stored record but never
// rendered as form fields.
const (
	FieldSource   = "source"
	FieldHoneypot = "_honeypot"
)

// UnknownSource labels submissions without a source field or Referer.
const UnknownSource = "Unknown"

// Field is one name/value pair of a submission.
type Field struct {
	Name  string
	Value string
}

// Fields is an insertion-ordered field map. A repeated name keeps its first
// position and takes the last value. The zero value is empty and ready to use.
type Fields struct {
	list  []Field
	index map[string]int
}

// NewFields builds a field map from pairs in order.
func NewFields(pairs ...Field) *Fields {
	f := &Fields{}
	for _, p := range pairs {
		f.Set(p.Name, p.Value)
	}
	return f
}

// Set adds or replaces a field.
func (f *Fields) Set(name, value string) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[name]; ok {
		f.list[i].Value = value
		return
	}
	f.index[name] = len(f.list)
	f.list = append(f.list, Field{Name: name, Value: value})
}

// Get returns the value of name.
func (f *Fields) Get(name string) (string, bool) {
	if f == nil {
		return "", false
	}
	i, ok := f.index[name]
	if !ok {
		return "", false
	}
	return f.list[i].Value, true
}

// Len counts every field, reserved ones included.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.list)
}

// All returns a copy of every field in order.
func (f *Fields) All() []Field {
	if f == nil {
		return nil
	}
	out := make([]Field, len(f.list))
	copy(out, f.list)
	return out
}

// Payload returns the non-reserved fields in order.
func (f *Fields) Payload() []Field {
	if f == nil {
		return nil
	}
	out := make([]Field, 0, len(f.list))
	for _, fl := range f.list {
		if IsReserved(fl.Name) {
			continue
		}
		out = append(out, fl)
	}
	return out
}

// IsReserved reports whether name is a control field.
func IsReserved(name string) bool {
	return name == FieldSource || name == FieldHoneypot
}

// Attachment is the optional uploaded document.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Size returns the content length in bytes.
func (a *Attachment) Size() int64 {
	if a == nil {
		return 0
	}
	return int64(len(a.Content))
}

// Submission is an accepted form post on its way through the pipeline.
type Submission struct {
	RequestID  string
	Fields     *Fields
	Source     string
	ClientIP   string
	UserAgent  string
	ReceivedAt time.Time
	Attachment *Attachment
	// ArchiveKey and ArchiveURL are set once the attachment is archived.
	ArchiveKey string
	ArchiveURL string
}

// ResolveSource picks the source field, then the referer, then UnknownSource.
func ResolveSource(fields *Fields, referer string) string {
	if s, ok := fields.Get(FieldSource); ok && s != "" {
		return s
	}
	if referer != "" {
		return referer
	}
	return UnknownSource
}
