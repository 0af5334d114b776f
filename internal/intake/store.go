package intake

import "context"

// StoreOutcome reports what the persistence step did.
type StoreOutcome int

const (
	StoreSkipped StoreOutcome = iota
	StoreStored
	StoreFailed
)

func (o StoreOutcome) String() string {
	switch o {
	case StoreStored:
		return "stored"
	case StoreFailed:
		return "failed"
	default:
		return "skipped"
	}
}

// Store keeps a copy of accepted submissions.
type Store interface {
	Store(ctx context.Context, sub *Submission) (StoreOutcome, error)
}

// NopStore is used when no document store is configured.
type NopStore struct{}

func (NopStore) Store(context.Context, *Submission) (StoreOutcome, error) {
	return StoreSkipped, nil
}
