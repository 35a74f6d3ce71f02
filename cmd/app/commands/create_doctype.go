package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	docDomain "github.com/allisson/docrest/internal/document/domain"
	docUseCase "github.com/allisson/docrest/internal/document/usecase"
)

// RunCreateDoctype seeds doctype metadata: module ownership, role
// permissions and the whitelisted document methods callable over the API.
// Outputs the created doctype in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateDoctype(
	ctx context.Context,
	doctypeRepo docUseCase.DoctypeRepository,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	module string,
	isChild bool,
	permissionsJSON string,
	whitelistedMethods string,
	format string,
) error {
	logger.Info("creating doctype", slog.String("name", name))

	var permissions []docDomain.Permission
	if permissionsJSON != "" {
		if err := json.Unmarshal([]byte(permissionsJSON), &permissions); err != nil {
			return fmt.Errorf("failed to parse permissions JSON: %w", err)
		}
	}

	var methods []string
	for method := range strings.SplitSeq(whitelistedMethods, ",") {
		if method = strings.TrimSpace(method); method != "" {
			methods = append(methods, method)
		}
	}

	doctype := &docDomain.Doctype{
		Name:               name,
		Module:             module,
		IsChild:            isChild,
		Permissions:        permissions,
		WhitelistedMethods: methods,
	}

	if err := doctypeRepo.Create(ctx, doctype); err != nil {
		return fmt.Errorf("failed to create doctype: %w", err)
	}

	if format == "json" {
		return outputCreateDoctypeJSON(writer, doctype)
	}
	outputCreateDoctypeText(writer, doctype)

	logger.Info("doctype created", slog.String("name", name))
	return nil
}

// outputCreateDoctypeText outputs the doctype in human-readable text format.
func outputCreateDoctypeText(writer io.Writer, doctype *docDomain.Doctype) {
	fmt.Fprintln(writer, "Doctype created successfully")
	fmt.Fprintf(writer, "Name:   %s\n", doctype.Name)
	fmt.Fprintf(writer, "Module: %s\n", doctype.Module)
	if doctype.IsChild {
		fmt.Fprintln(writer, "Child table: yes")
	}
	if len(doctype.WhitelistedMethods) > 0 {
		fmt.Fprintf(writer, "Whitelisted methods: %s\n", strings.Join(doctype.WhitelistedMethods, ", "))
	}
}

// outputCreateDoctypeJSON outputs the doctype in JSON format for machine consumption.
func outputCreateDoctypeJSON(writer io.Writer, doctype *docDomain.Doctype) error {
	result := map[string]any{
		"name":                doctype.Name,
		"module":              doctype.Module,
		"is_child":            doctype.IsChild,
		"permissions":         doctype.Permissions,
		"whitelisted_methods": doctype.WhitelistedMethods,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
