package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/validation"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var apiErr *api.APIError
	var authErr *api.AuthError
	var valErr *api.ValidationError
	var inputErr *validation.Error

	switch {
	case errors.As(err, &authErr):
		fmt.Fprintf(&msg, "Authentication failed: %s\n\n", authErr.Reason)
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: sm8 auth login\n")
		msg.WriteString("  - Verify your API key is valid\n")
		msg.WriteString("  - Check the key has not been revoked in ServiceM8 settings\n")

	case errors.As(err, &valErr):
		fmt.Fprintf(&msg, "Invalid input: %s\n", valErr.Error())

	case errors.As(err, &inputErr):
		fmt.Fprintf(&msg, "Invalid input: %s\n", inputErr.Error())

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "API error (HTTP %d): %s\n\n", apiErr.StatusCode, apiErr.Body)
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode, apiErr.Body))
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString("Connection refused.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the base URL: sm8 auth status\n")
		msg.WriteString("  - Check your network connection\n")

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString("DNS resolution failed.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the base URL spelling\n")
		msg.WriteString("  - Verify your DNS settings\n")

	case strings.Contains(err.Error(), "certificate"):
		msg.WriteString("TLS certificate error.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Verify the server's SSL certificate\n")
		msg.WriteString("  - Ensure you're using https:// correctly\n")

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int, body string) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch code {
	case 400:
		suggestions.WriteString("  - Check your request parameters\n")
		suggestions.WriteString("  - Use --debug to see the full request\n")
		if strings.Contains(body, "required") {
			suggestions.WriteString("  - A required field may be missing\n")
		}

	case 403:
		suggestions.WriteString("  - Your API key lacks permission for this action\n")
		suggestions.WriteString("  - Check the key's scopes in ServiceM8 settings\n")

	case 404:
		suggestions.WriteString("  - The record doesn't exist\n")
		suggestions.WriteString("  - Check the UUID is correct\n")
		suggestions.WriteString("  - The record may have been deleted\n")

	case 429:
		suggestions.WriteString("  - Too many requests\n")
		suggestions.WriteString("  - Wait and retry in a few seconds\n")

	case 500, 502, 503, 504:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry\n")
		suggestions.WriteString("  - Check ServiceM8 status\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
		suggestions.WriteString("  - Check the ServiceM8 API documentation\n")
	}

	return suggestions.String()
}

// ExitWithError prints error with suggestions and exits
func ExitWithError(err error) {
	if err == nil {
		return
	}
	_, _ = fmt.Fprint(os.Stderr, HandleError(err))
	os.Exit(ExitCode(err))
}
