package file

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Object describes an archived attachment.
type Object struct {
	Key         string `json:"key" bson:"key"`
	Size        int64  `json:"size" bson:"size"`
	ContentType string `json:"contentType" bson:"contentType"`
	URL         string `json:"url,omitempty" bson:"url,omitempty"`
}

// Storage archives attachment bytes under a key.
type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (*Object, error)
}

// ArchiveKey builds "YYYY/MM/DD/<id>-<name>" for an attachment received at ts.
func ArchiveKey(ts time.Time, id, name string) string {
	ts = ts.UTC()
	name = strings.ReplaceAll(name, "/", "_")
	if id != "" {
		name = id + "-" + name
	}
	return path.Join(fmt.Sprintf("%04d/%02d/%02d", ts.Year(), ts.Month(), ts.Day()), name)
}
