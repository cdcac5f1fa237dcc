package tasks_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/mt"
	"github.com/JaimeStill/scribe/internal/tasks"
)

func TestParsePayload(t *testing.T) {
	id := uuid.MustParse("6f1c2d4e-8a9b-4c3d-9e2f-1a2b3c4d5e6f")

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"type":"xliff","document_id":"` + id.String() + `","settings":{"similarity_threshold":0.75}}`, false},
		{"threshold bounds", `{"type":"txt","document_id":"` + id.String() + `","settings":{"similarity_threshold":1}}`, false},
		{"missing document id", `{"type":"xliff","settings":{"similarity_threshold":1}}`, true},
		{"unknown type", `{"type":"tmx","document_id":"` + id.String() + `","settings":{"similarity_threshold":1}}`, true},
		{"missing type", `{"document_id":"` + id.String() + `","settings":{"similarity_threshold":1}}`, true},
		{"missing settings", `{"type":"xliff","document_id":"` + id.String() + `"}`, true},
		{"threshold too high", `{"type":"xliff","document_id":"` + id.String() + `","settings":{"similarity_threshold":1.5}}`, true},
		{"bad document id", `{"type":"xliff","document_id":"nope","settings":{"similarity_threshold":1}}`, true},
		{"not json", `type=xliff`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tasks.ParsePayload(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, tasks.ErrInvalidPayload) {
					t.Errorf("ParsePayload() error = %v, want ErrInvalidPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePayload() error = %v", err)
			}
			if p.DocumentID != id {
				t.Errorf("DocumentID = %s, want %s", p.DocumentID, id)
			}
		})
	}
}

func TestPayloadEncodeRoundTrip(t *testing.T) {
	in := tasks.Payload{
		Type:       formats.Txt,
		DocumentID: uuid.New(),
		Settings: &tasks.Settings{
			SimilarityThreshold: 0.8,
			Translation:         &mt.Config{Provider: mt.ProviderGoogle, BatchSize: 10},
		},
	}

	raw, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	out, err := tasks.ParsePayload(raw)
	if err != nil {
		t.Fatalf("ParsePayload() error = %v", err)
	}
	if out.Type != in.Type || out.DocumentID != in.DocumentID {
		t.Errorf("ParsePayload() = %+v, want %+v", out, in)
	}
	if out.Settings.Translation == nil || out.Settings.Translation.BatchSize != 10 {
		t.Errorf("translation settings lost: %+v", out.Settings.Translation)
	}
}
