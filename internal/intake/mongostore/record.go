package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/formrelay/internal/intake"
)

// Record is the stored shape of a submission.
type Record struct {
	ID         bson.ObjectID     `bson:"_id"`
	RequestID  string            `bson:"requestId,omitempty"`
	Data       bson.D            `bson:"data"`
	Source     string            `bson:"source"`
	IP         string            `bson:"ip"`
	UserAgent  string            `bson:"userAgent"`
	Processed  bool              `bson:"processed"`
	Attachment *AttachmentRecord `bson:"attachment,omitempty"`
	CreatedAt  time.Time         `bson:"createdAt"`
	UpdatedAt  time.Time         `bson:"updatedAt"`
}

// AttachmentRecord describes the uploaded file. Content bytes are not stored.
type AttachmentRecord struct {
	Filename    string `bson:"filename"`
	Size        int64  `bson:"size"`
	ContentType string `bson:"contentType"`
	Key         string `bson:"key,omitempty"`
	URL         string `bson:"url,omitempty"`
}

// NewRecord converts sub into a Record. Every field is kept in request order,
// reserved ones included.
func NewRecord(sub *intake.Submission, now time.Time) Record {
	fields := sub.Fields.All()
	data := make(bson.D, 0, len(fields))
	for _, f := range fields {
		data = append(data, bson.E{Key: f.Name, Value: f.Value})
	}

	rec := Record{
		ID:        bson.NewObjectID(),
		RequestID: sub.RequestID,
		Data:      data,
		Source:    sub.Source,
		IP:        sub.ClientIP,
		UserAgent: sub.UserAgent,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if a := sub.Attachment; a != nil {
		rec.Attachment = &AttachmentRecord{
			Filename:    a.Filename,
			Size:        a.Size(),
			ContentType: a.ContentType,
			Key:         sub.ArchiveKey,
			URL:         sub.ArchiveURL,
		}
	}
	return rec
}
