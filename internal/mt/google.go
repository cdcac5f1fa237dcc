package mt

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// googleProvider calls Cloud Translation Basic. Glossary hints have no
// equivalent in that API and are ignored.
type googleProvider struct {
	client *translate.Client
	model  string
}

func newGoogle(ctx context.Context, cfg Config) (*googleProvider, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: google client: %w", ErrInvalidConfig, err)
	}
	return &googleProvider{client: client, model: cfg.Model}, nil
}

func (p *googleProvider) Name() string { return ProviderGoogle }

func (p *googleProvider) Translate(ctx context.Context, req Request) ([]string, error) {
	target, err := language.Parse(req.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("%w: target language %q: %w", ErrInvalidConfig, req.TargetLang, err)
	}

	opts := &translate.Options{Format: translate.Text, Model: p.model}
	if req.SourceLang != "" {
		source, err := language.Parse(req.SourceLang)
		if err != nil {
			return nil, fmt.Errorf("%w: source language %q: %w", ErrInvalidConfig, req.SourceLang, err)
		}
		opts.Source = source
	}

	texts := make([]string, len(req.Lines))
	for i, l := range req.Lines {
		texts[i] = l.Text
	}

	translations, err := p.client.Translate(ctx, texts, target, opts)
	if err != nil {
		return nil, classifyGoogle(err)
	}

	out := make([]string, len(translations))
	for i, t := range translations {
		out[i] = t.Text
	}
	return out, nil
}

func (p *googleProvider) Close() error {
	return p.client.Close()
}

func classifyGoogle(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && permanentStatus(apiErr.Code) {
		return fmt.Errorf("%w: google: %w", ErrPermanent, err)
	}
	return fmt.Errorf("google: %w", err)
}

// permanentStatus reports whether an HTTP status will not change on retry.
func permanentStatus(code int) bool {
	if code == http.StatusTooManyRequests || code == http.StatusRequestTimeout {
		return false
	}
	return code >= 400 && code < 500
}
