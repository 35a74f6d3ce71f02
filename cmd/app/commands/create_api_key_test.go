package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	authMocks "github.com/allisson/docrest/internal/auth/http/mocks"
	authUseCase "github.com/allisson/docrest/internal/auth/usecase"
)

func TestRunCreateAPIKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("text output", func(t *testing.T) {
		mockUseCase := &authMocks.MockAPIKeyUseCase{}
		input := authUseCase.CreateAPIKeyInput{
			Doctype:    "User",
			RecordName: "alice@example.com",
		}
		output := &authUseCase.CreateAPIKeyOutput{Key: "ak_test", Secret: "sk_test"}

		mockUseCase.On("Create", ctx, input).Return(output, nil).Once()

		var out bytes.Buffer
		err := RunCreateAPIKey(ctx, mockUseCase, logger, &out, "User", "alice@example.com", "", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "ak_test")
		require.Contains(t, out.String(), "sk_test")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json output", func(t *testing.T) {
		mockUseCase := &authMocks.MockAPIKeyUseCase{}
		input := authUseCase.CreateAPIKeyInput{
			Doctype:    "Integration",
			RecordName: "shop-sync",
			LinkedUser: "bot@example.com",
		}
		output := &authUseCase.CreateAPIKeyOutput{Key: "ak_json", Secret: "sk_json"}

		mockUseCase.On("Create", ctx, input).Return(output, nil).Once()

		var out bytes.Buffer
		err := RunCreateAPIKey(
			ctx, mockUseCase, logger, &out,
			"Integration", "shop-sync", "bot@example.com", "json",
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), `"api_key": "ak_json"`)
		require.Contains(t, out.String(), `"api_secret": "sk_json"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("use case error", func(t *testing.T) {
		mockUseCase := &authMocks.MockAPIKeyUseCase{}
		input := authUseCase.CreateAPIKeyInput{Doctype: "User", RecordName: "alice@example.com"}

		mockUseCase.On("Create", ctx, input).Return(nil, errors.New("boom")).Once()

		var out bytes.Buffer
		err := RunCreateAPIKey(ctx, mockUseCase, logger, &out, "User", "alice@example.com", "", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create api key")
		mockUseCase.AssertExpectations(t)
	})
}
