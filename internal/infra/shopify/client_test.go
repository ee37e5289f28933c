package shopify

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/blog-agent/internal/core/shopsync"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   shopsync.ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, `{"errors":"Invalid API key or access token"}`, shopsync.ErrKindAuth},
		{"forbidden", http.StatusForbidden, ``, shopsync.ErrKindAuth},
		{"validation", http.StatusUnprocessableEntity, `{"errors":{"handle":["has already been taken"]}}`, shopsync.ErrKindValidation},
		{"bad request", http.StatusBadRequest, ``, shopsync.ErrKindValidation},
		{"rate limit", http.StatusTooManyRequests, `{"errors":"Exceeded 2 calls per second"}`, shopsync.ErrKindRateLimit},
		{"server error", http.StatusInternalServerError, ``, shopsync.ErrKindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus(tt.status, []byte(tt.body))

			var re *shopsync.RemoteError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.kind, re.Kind)
		})
	}
}

func TestClassifyStatus_RateLimitIsRetryable(t *testing.T) {
	err := classifyStatus(http.StatusTooManyRequests, nil)
	assert.True(t, shopsync.IsRateLimit(err))

	err = classifyStatus(http.StatusUnprocessableEntity, nil)
	assert.False(t, shopsync.IsRateLimit(err))
}

func TestExtractErrorMessage(t *testing.T) {
	assert.Equal(t, "Not found", extractErrorMessage([]byte(`{"errors":"Not found"}`)))
	assert.Equal(t, "handle has already been taken",
		extractErrorMessage([]byte(`{"errors":{"handle":["has already been taken"]}}`)))
	assert.Equal(t, "", extractErrorMessage([]byte(`not json`)))
	assert.Equal(t, "", extractErrorMessage(nil))
}

func TestToArticlePayload(t *testing.T) {
	payload := toArticlePayload(shopsync.ArticleInput{
		BlogID:    "42",
		Title:     "My Post",
		Handle:    "my-post",
		Author:    "Store Team",
		BodyHTML:  "<p>Hello</p>",
		Summary:   "Intro",
		Tags:      []string{"golf", "drills"},
		Published: true,
		ImageSrc:  "https://cdn.example.com/hero.png",
		ImageAlt:  "Hero",
	})

	assert.Equal(t, "golf, drills", payload.Tags)
	assert.True(t, payload.Published)
	require.NotNil(t, payload.Image)
	assert.Equal(t, "Hero", payload.Image.Alt)

	noImage := toArticlePayload(shopsync.ArticleInput{Title: "x"})
	assert.Nil(t, noImage.Image)
}
