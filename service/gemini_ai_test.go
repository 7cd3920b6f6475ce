package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{name: "nil", resp: nil, wantErr: true},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: true},
		{
			name:    "no content",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			wantErr: true,
		},
		{
			name: "text parts joined",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("Drink warm "), genai.Text("water.")}},
			}}},
			want: "Drink warm water.",
		},
		{
			name: "non text parts only",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
			}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responseText(tt.resp)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewGeminiService_NoKeys(t *testing.T) {
	_, err := NewGeminiService(context.Background(), nil, "gemini-2.5-flash")
	assert.Error(t, err)
}

func TestUpstream_DoesNotDoubleWrap(t *testing.T) {
	base := errors.New("boom")
	once := upstream(base)
	twice := upstream(once)
	assert.Same(t, once, twice)
	assert.Nil(t, upstream(nil))
	assert.ErrorIs(t, twice, base)
}
