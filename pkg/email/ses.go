package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SendEmailAPI is the SES v2 operation used by SESSender.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers raw MIME messages through AWS SES v2.
type SESSender struct {
	client   SendEmailAPI
	fromName string
}

// NewSESSender loads AWS configuration for cfg.SESRegion. When
// SES_ACCESS_KEY_ID is set, cfg.Password is used as the secret key;
// otherwise the default credential chain applies.
func NewSESSender(ctx context.Context, cfg Config) (*SESSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.SESRegion),
	}
	if cfg.SESAccessKeyID != "" {
		if !cfg.HasCredential() {
			return nil, fmt.Errorf("%w: ses secret access key is required", ErrInvalidConfig)
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SESAccessKeyID, cfg.Password, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("load aws config: %w", err))
	}
	return NewSESSenderWithClient(sesv2.NewFromConfig(awsCfg), cfg.FromName), nil
}

// NewSESSenderWithClient wraps an existing client.
func NewSESSenderWithClient(client SendEmailAPI, fromName string) *SESSender {
	return &SESSender{client: client, fromName: fromName}
}

// Send implements Sender.
func (s *SESSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	raw, err := RawMIME(msg, s.fromName)
	if err != nil {
		return err
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	}
	if msg.Tag != "" {
		input.EmailTags = []types.MessageTag{{
			Name:  aws.String("category"),
			Value: aws.String(msg.Tag),
		}}
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

// Name implements Sender.
func (s *SESSender) Name() string { return ProviderSES }
