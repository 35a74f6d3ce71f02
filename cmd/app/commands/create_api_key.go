package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/docrest/internal/auth/usecase"
)

// RunCreateAPIKey provisions a new API key/secret pair for a record. The
// plaintext secret is printed exactly once; only its encrypted form is
// persisted. Outputs in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAPIKey(
	ctx context.Context,
	apiKeyUseCase authUseCase.APIKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	doctype string,
	recordName string,
	linkedUser string,
	format string,
) error {
	logger.Info("creating api key",
		slog.String("doctype", doctype),
		slog.String("record_name", recordName),
	)

	input := authUseCase.CreateAPIKeyInput{
		Doctype:    doctype,
		RecordName: recordName,
		LinkedUser: linkedUser,
	}

	output, err := apiKeyUseCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}

	if format == "json" {
		return outputCreateAPIKeyJSON(writer, output)
	}
	outputCreateAPIKeyText(writer, output)

	logger.Info("api key created", slog.String("api_key", output.Key))
	return nil
}

// outputCreateAPIKeyText outputs the credential pair in human-readable text format.
func outputCreateAPIKeyText(writer io.Writer, output *authUseCase.CreateAPIKeyOutput) {
	fmt.Fprintln(writer, "API key created successfully")
	fmt.Fprintf(writer, "Key:    %s\n", output.Key)
	fmt.Fprintf(writer, "Secret: %s\n", output.Secret)
	fmt.Fprintln(writer, "Store the secret now: it is not retrievable later")
}

// outputCreateAPIKeyJSON outputs the credential pair in JSON format for machine consumption.
func outputCreateAPIKeyJSON(writer io.Writer, output *authUseCase.CreateAPIKeyOutput) error {
	result := map[string]any{
		"api_key":    output.Key,
		"api_secret": output.Secret,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
