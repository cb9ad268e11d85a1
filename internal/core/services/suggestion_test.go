package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/stockpile/internal/core/domain"
	"github.com/ammerola/stockpile/internal/core/services"
	"github.com/ammerola/stockpile/test/helpers"
	"github.com/ammerola/stockpile/test/mocks"
)

func TestCategoryService_Suggest(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		setupMocks func(*mocks.MockCategorySuggester)
		want       string
		wantErr    error
	}{
		{
			name:  "returns_trimmed_suggestion",
			input: "  Whole Milk ",
			setupMocks: func(m *mocks.MockCategorySuggester) {
				m.EXPECT().SuggestCategory(gomock.Any(), "Whole Milk").Return(" Dairy\n", nil)
			},
			want: "Dairy",
		},
		{
			name:       "blank_name_is_rejected",
			input:      "   ",
			setupMocks: func(m *mocks.MockCategorySuggester) {},
			wantErr:    domain.ErrNameRequired,
		},
		{
			name:  "suggester_error",
			input: "Milk",
			setupMocks: func(m *mocks.MockCategorySuggester) {
				m.EXPECT().SuggestCategory(gomock.Any(), "Milk").Return("", errors.New("upstream 500"))
			},
			wantErr: services.ErrSuggestionUnavailable,
		},
		{
			name:  "empty_suggestion",
			input: "Milk",
			setupMocks: func(m *mocks.MockCategorySuggester) {
				m.EXPECT().SuggestCategory(gomock.Any(), "Milk").Return("   ", nil)
			},
			wantErr: services.ErrSuggestionUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			suggester := mocks.NewMockCategorySuggester(ctrl)
			tt.setupMocks(suggester)

			svc := services.NewCategoryService(suggester, time.Second, helpers.TestLogger())
			got, err := svc.Suggest(context.Background(), tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryService_NoSuggester(t *testing.T) {
	svc := services.NewCategoryService(nil, 0, helpers.TestLogger())

	_, err := svc.Suggest(context.Background(), "Milk")
	assert.ErrorIs(t, err, services.ErrSuggestionUnavailable)
}

func TestCategoryService_AppliesTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	suggester := mocks.NewMockCategorySuggester(ctrl)
	suggester.EXPECT().
		SuggestCategory(gomock.Any(), "Milk").
		DoAndReturn(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	svc := services.NewCategoryService(suggester, 20*time.Millisecond, helpers.TestLogger())
	_, err := svc.Suggest(context.Background(), "Milk")

	assert.ErrorIs(t, err, services.ErrSuggestionUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
