package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"runtime/debug"
	"time"

	"github.com/dmitrymomot/formrelay/pkg/email"
	"github.com/dmitrymomot/formrelay/pkg/file"
	"github.com/dmitrymomot/formrelay/pkg/logger"
	"github.com/dmitrymomot/formrelay/pkg/sanitizer"
)

// Sender hands a notification to the mail provider. *Dispatcher implements it.
type Sender interface {
	Dispatch(ctx context.Context, msg email.Message) error
}

// Input is everything the pipeline needs from the transport layer.
type Input struct {
	RequestID  string
	Fields     *Fields
	Referer    string
	ClientIP   string
	UserAgent  string
	Attachment *Attachment
	ReceivedAt time.Time
}

// Pipeline validates, renders, dispatches and stores one submission per call.
type Pipeline struct {
	mail     email.Config
	renderer *Renderer
	sender   Sender
	store    Store
	archive  file.Storage
	metrics  *Metrics
	log      *slog.Logger
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSender sets the dispatcher. Without one every accepted submission is
// answered as a configuration shortfall.
func WithSender(s Sender) Option {
	return func(p *Pipeline) { p.sender = s }
}

// WithStore sets the persistence adapter. Defaults to NopStore.
func WithStore(s Store) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.store = s
		}
	}
}

// WithArchive enables attachment archiving.
func WithArchive(s file.Storage) Option {
	return func(p *Pipeline) { p.archive = s }
}

// WithMetrics records outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline builds a pipeline for the given mail settings.
func NewPipeline(mailCfg email.Config, renderer *Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		mail:     mailCfg,
		renderer: renderer,
		store:    NopStore{},
		log:      logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one submission to a terminal Result. It never panics.
func (p *Pipeline) Process(ctx context.Context, in Input) (res Result) {
	log := p.log.With(logger.Component("intake"), logger.RequestID(in.RequestID))

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "submission pipeline panic",
				logger.Event("panic"),
				logger.Error(fmt.Errorf("%w: %v", ErrInternal, r)),
				slog.String("stack", string(debug.Stack())),
			)
			res = InternalError()
		}
		p.metrics.ObserveOutcome(res.Outcome)
	}()

	if err := Validate(in.Fields); err != nil {
		return p.reject(ctx, log, err)
	}

	ts := in.ReceivedAt
	if ts.IsZero() {
		ts = p.now()
	}
	sub := &Submission{
		RequestID:  in.RequestID,
		Fields:     in.Fields,
		Source:     ResolveSource(in.Fields, in.Referer),
		ClientIP:   in.ClientIP,
		UserAgent:  in.UserAgent,
		ReceivedAt: ts,
		Attachment: in.Attachment,
	}
	log = log.With(logger.Source(sub.Source), logger.ClientIP(sub.ClientIP))

	p.archiveAttachment(ctx, log, sub)

	if err := p.checkMailConfig(); err != nil {
		log.WarnContext(ctx, "email not sent", logger.Event("mail_config"), logger.Error(err))
		return p.accepted(ctx, log, sub, degradedOutcome(err))
	}

	note, err := p.renderer.Render(ctx, sub.Fields, sub.Source, ts)
	if err != nil {
		log.ErrorContext(ctx, "render notification", logger.Error(err))
		return InternalError()
	}

	msg := email.Message{
		From:    p.mail.User,
		To:      p.mail.Recipient,
		ReplyTo: replyTo(sub.Fields),
		Subject: note.Subject,
		Text:    note.Text,
		HTML:    note.HTML,
		Tag:     p.renderer.Tag(),
	}
	if a := sub.Attachment; a != nil {
		msg.Attachment = &email.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     a.Content,
		}
	}

	start := time.Now()
	outcome := OutcomeDelivered
	if err := p.sender.Dispatch(ctx, msg); err != nil {
		outcome = OutcomeDeliveryFailed
		attrs := []any{logger.Event("dispatch"), logger.Duration(time.Since(start)), logger.Error(err)}
		var de *DeliveryError
		if errors.As(err, &de) {
			attrs = append(attrs, logger.Provider(de.Provider), slog.Bool("timeout", de.Timeout))
		}
		log.ErrorContext(ctx, "email delivery failed", attrs...)
	} else {
		log.InfoContext(ctx, "email delivered",
			logger.Event("dispatch"),
			logger.Duration(time.Since(start)),
			logger.Fields(len(sub.Fields.Payload())),
		)
	}

	return p.accepted(ctx, log, sub, outcome)
}

func (p *Pipeline) reject(ctx context.Context, log *slog.Logger, err error) Result {
	switch {
	case errors.Is(err, ErrSpamDetected):
		log.InfoContext(ctx, "submission rejected", logger.Outcome(string(OutcomeSpam)))
		return Reject(http.StatusBadRequest, OutcomeSpam, MsgSpamDetected)
	case errors.Is(err, ErrEmptyPayload):
		log.InfoContext(ctx, "submission rejected", logger.Outcome(string(OutcomeEmpty)))
		return Reject(http.StatusBadRequest, OutcomeEmpty, MsgNoData)
	default:
		log.ErrorContext(ctx, "validate submission", logger.Error(err))
		return InternalError()
	}
}

// accepted persists sub and builds the success response for outcome.
func (p *Pipeline) accepted(ctx context.Context, log *slog.Logger, sub *Submission, outcome Outcome) Result {
	stored, err := p.persist(ctx, sub)
	if err != nil {
		log.WarnContext(ctx, "store submission", logger.Event("store"), logger.Error(err))
		stored = StoreFailed
	}

	log.InfoContext(ctx, "submission accepted",
		logger.Outcome(string(outcome)),
		slog.String("store", stored.String()),
	)

	return Result{
		Status: http.StatusOK,
		Body: Response{
			Success:   true,
			Message:   acceptedMessage(outcome),
			Timestamp: p.now().UTC().Format(time.RFC3339),
		},
		Outcome: outcome,
		Stored:  stored,
	}
}

// persist runs the store with its own recover so a faulty store cannot turn
// an accepted submission into a server error.
func (p *Pipeline) persist(ctx context.Context, sub *Submission) (outcome StoreOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome, err = StoreFailed, fmt.Errorf("%w: panic: %v", ErrStoreFailed, r)
		}
	}()
	return p.store.Store(ctx, sub)
}

func (p *Pipeline) checkMailConfig() error {
	switch {
	case !p.mail.HasSender():
		return ErrMissingSenderConfig
	case !p.mail.HasCredential():
		return ErrMissingCredential
	case p.sender == nil:
		return ErrMissingSenderConfig
	}
	return nil
}

func (p *Pipeline) archiveAttachment(ctx context.Context, log *slog.Logger, sub *Submission) {
	a := sub.Attachment
	if p.archive == nil || a == nil {
		return
	}
	key := file.ArchiveKey(sub.ReceivedAt, sub.RequestID, a.Filename)
	obj, err := p.archive.Save(ctx, key, a.Content, a.ContentType)
	if err != nil {
		log.WarnContext(ctx, "archive attachment", logger.Event("archive"), logger.Error(err))
		return
	}
	sub.ArchiveKey = obj.Key
	sub.ArchiveURL = obj.URL
}

func degradedOutcome(err error) Outcome {
	if errors.Is(err, ErrMissingCredential) {
		return OutcomeCredentialMissing
	}
	return OutcomeConfigMissing
}

func acceptedMessage(o Outcome) string {
	switch o {
	case OutcomeDelivered:
		return MsgSubmitted
	case OutcomeCredentialMissing:
		return MsgPasswordMissing
	case OutcomeDeliveryFailed:
		return MsgDeliveryFailed
	default:
		return MsgConfigMissing
	}
}

// replyTo returns the submitter's address when the form carried a valid one.
func replyTo(fields *Fields) string {
	v, ok := fields.Get("email")
	if !ok {
		return ""
	}
	v = sanitizer.Apply(v, sanitizer.PreventHeaderInjection, sanitizer.Trim)
	addr, err := mail.ParseAddress(v)
	if err != nil {
		return ""
	}
	return addr.Address
}
