package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrymomot/formrelay/internal/intake"
	"github.com/dmitrymomot/formrelay/pkg/file"
	"github.com/dmitrymomot/formrelay/pkg/sanitizer"
)

// FileField is the multipart field that carries the attachment.
const FileField = "document"

// formOverhead is added to the file size limit to cover text fields and
// multipart framing.
const formOverhead = 1 << 20

// maxFieldSize caps a single multipart text field.
const maxFieldSize = 1 << 20

// decodeRequest reads the body into an ordered field map. Only multipart
// bodies on file routes can yield an attachment. Unknown content types
// decode to an empty map.
func decodeRequest(r *http.Request, policy file.Policy, allowFiles bool) (*intake.Fields, *intake.Attachment, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "application/json":
		fields, err := decodeJSON(r.Body)
		return fields, nil, err
	case "application/x-www-form-urlencoded":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, nil, malformed(err)
		}
		fields, err := decodeURLEncoded(string(body))
		return fields, nil, err
	case "multipart/form-data":
		return decodeMultipart(r, policy, allowFiles)
	default:
		if err := drain(r.Body); err != nil {
			return nil, nil, err
		}
		return &intake.Fields{}, nil, nil
	}
}

// decodeJSON reads a JSON object keeping key order. String values are used
// as is; other values keep their compact JSON text. An empty body is an
// empty object.
func decodeJSON(r io.Reader) (*intake.Fields, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	fields := &intake.Fields{}
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return fields, nil
	}
	if err != nil {
		return nil, malformed(err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedBody)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected an object key", ErrMalformedBody)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, malformed(err)
		}
		value, err := jsonText(raw)
		if err != nil {
			return nil, malformed(err)
		}
		if key == intake.FieldHoneypot && jsonFalsy(raw) {
			value = ""
		}
		fields.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, malformed(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedBody)
	}
	return fields, nil
}

func jsonText(raw json.RawMessage) (string, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// jsonFalsy reports whether raw is null, false or a zero number. An untouched
// hidden input is often serialized as one of these.
func jsonFalsy(raw json.RawMessage) bool {
	text := string(bytes.TrimSpace(raw))
	switch text {
	case "null", "false":
		return true
	}
	if text == "" || (text[0] != '-' && (text[0] < '0' || text[0] > '9')) {
		return false
	}
	f, err := strconv.ParseFloat(text, 64)
	return err == nil && f == 0
}

// decodeURLEncoded parses a urlencoded body in order. url.ParseQuery is not
// used because it loses the order of keys.
func decodeURLEncoded(body string) (*intake.Fields, error) {
	fields := &intake.Fields{}
	for pair := range strings.SplitSeq(body, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, malformed(err)
		}
		if key == "" {
			continue
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, malformed(err)
		}
		fields.Set(key, value)
	}
	return fields, nil
}

// decodeMultipart streams parts in order. Text parts become fields; the
// first FileField part becomes the attachment when allowFiles is set. Other
// file parts are drained and ignored.
func decodeMultipart(r *http.Request, policy file.Policy, allowFiles bool) (*intake.Fields, *intake.Attachment, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, nil, malformed(err)
	}

	fields := &intake.Fields{}
	var att *intake.Attachment
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			// Only a clean final boundary yields a bare io.EOF.
			break
		}
		if err != nil {
			return nil, nil, malformed(err)
		}

		name := part.FormName()
		isFile := part.FileName() != "" || (name == FileField && part.Header.Get("Content-Type") != "")
		switch {
		case name == "":
			err = drain(part)
		case !isFile:
			var value []byte
			value, err = readLimited(part, maxFieldSize)
			if err == nil {
				fields.Set(name, string(value))
			}
		case !allowFiles || name != FileField || part.FileName() == "":
			err = drain(part)
		case att != nil:
			err = ErrTooManyFiles
		default:
			att, err = readAttachment(part.FileName(), part, policy)
		}
		part.Close()
		if err != nil {
			return nil, nil, err
		}
	}
	return fields, att, nil
}

func readAttachment(rawName string, r io.Reader, policy file.Policy) (*intake.Attachment, error) {
	name := sanitizer.SanitizeFilename(rawName)
	if err := policy.CheckName(name); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, policy.MaxSize+1))
	if err != nil {
		return nil, malformed(err)
	}
	if err := policy.CheckSize(int64(len(data))); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &intake.Attachment{
		Filename:    name,
		ContentType: file.DetectContentType(name, data),
		Content:     data,
	}, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, malformed(err)
	}
	if int64(len(data)) > limit {
		return nil, file.ErrFileTooLarge
	}
	return data, nil
}

func drain(r io.Reader) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return malformed(err)
	}
	return nil
}

// malformed marks err as a bad body, leaving body-limit errors as they are.
func malformed(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMalformedBody, err)
}
