package email

import (
	"context"
	"fmt"
	"strings"
)

// New builds the Sender selected by cfg.Provider.
func New(ctx context.Context, cfg Config) (Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderSMTP:
		s, err := NewSMTPSender(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderPostmark:
		s, err := NewPostmarkSender(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderSES:
		s, err := NewSESSender(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ProviderDev:
		return NewDevSender(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
