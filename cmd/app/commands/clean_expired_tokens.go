package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/docrest/internal/auth/usecase"
)

// RunCleanExpiredTokens deletes OAuth bearer tokens whose expiry has passed.
// Outputs the deletion count in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(
	ctx context.Context,
	bearerTokenUseCase authUseCase.BearerTokenUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("cleaning expired bearer tokens")

	count, err := bearerTokenUseCase.CleanExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean expired tokens: %w", err)
	}

	if format == "json" {
		if err := outputCleanExpiredJSON(writer, count); err != nil {
			return err
		}
	} else {
		outputCleanExpiredText(writer, count)
	}

	logger.Info("cleanup completed", slog.Int64("count", count))
	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(writer io.Writer, count int64) {
	fmt.Fprintf(writer, "Successfully deleted %d expired token(s)\n", count)
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(writer io.Writer, count int64) error {
	result := map[string]any{
		"count": count,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
