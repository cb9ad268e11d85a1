package suggest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/stockpile/internal/adapters/suggest"
	"github.com/ammerola/stockpile/test/helpers"
)

func TestKeywordSuggester(t *testing.T) {
	s := suggest.NewKeywordSuggester()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "produce", input: "Gala Apples", expected: "Produce"},
		{name: "dairy", input: "Whole Milk 1L", expected: "Dairy"},
		{name: "phrase_beats_word", input: "Crunchy Peanut Butter", expected: "Pantry"},
		{name: "frozen_before_dairy", input: "Vanilla Ice Cream", expected: "Frozen"},
		{name: "beverage_before_produce", input: "Apple Juice", expected: "Beverages"},
		{name: "punctuation", input: "bread/rolls", expected: "Bakery"},
		{name: "meat", input: "Smoked Salmon", expected: "Meat & Seafood"},
		{name: "household", input: "Paper Towels (6 pack)", expected: "Household"},
		{name: "whole_words_only", input: "Pineapple", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SuggestCategory(context.Background(), tt.input)
			if tt.expected == "" {
				assert.ErrorIs(t, err, suggest.ErrNoMatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestKeywordSuggester_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suggest.NewKeywordSuggester().SuggestCategory(ctx, "Milk")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPSuggester(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Gala Apples", body["name"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"categorySuggestion":"Produce"}`))
		}))
		defer server.Close()

		s := suggest.NewHTTPSuggester(suggest.HTTPConfig{URL: server.URL, APIKey: "key-123", Timeout: time.Second}, nil, helpers.TestLogger())
		got, err := s.SuggestCategory(context.Background(), "Gala Apples")
		require.NoError(t, err)
		assert.Equal(t, "Produce", got)
	})

	t.Run("server_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		s := suggest.NewHTTPSuggester(suggest.HTTPConfig{URL: server.URL}, server.Client(), helpers.TestLogger())
		_, err := s.SuggestCategory(context.Background(), "Milk")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
		assert.Contains(t, err.Error(), "model overloaded")
	})

	t.Run("malformed_response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		s := suggest.NewHTTPSuggester(suggest.HTTPConfig{URL: server.URL}, server.Client(), helpers.TestLogger())
		_, err := s.SuggestCategory(context.Background(), "Milk")
		assert.ErrorContains(t, err, "failed to decode suggest response")
	})

	t.Run("rate_limited_wait_respects_context", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"categorySuggestion":"Dairy"}`))
		}))
		defer server.Close()

		s := suggest.NewHTTPSuggester(suggest.HTTPConfig{URL: server.URL, RateLimit: 0.01, Burst: 1}, server.Client(), helpers.TestLogger())

		_, err := s.SuggestCategory(context.Background(), "Milk")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err = s.SuggestCategory(ctx, "Milk")
		assert.ErrorContains(t, err, "rate limit wait")
		assert.Equal(t, int32(1), calls.Load())
	})
}
