package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/validation"
)

func TestExitCodeNil(t *testing.T) {
	assert.Equal(t, exitOK, ExitCode(nil))
}

func TestExitCodeHelp(t *testing.T) {
	assert.Equal(t, exitOK, ExitCode(pflag.ErrHelp))
}

func TestExitCodeAPIErrors(t *testing.T) {
	tests := []struct {
		status int
		want   int
	}{
		{400, exitUsage},
		{401, exitAuth},
		{403, exitForbidden},
		{404, exitNotFound},
		{422, exitUsage},
		{429, exitRateLimited},
		{500, exitServer},
		{503, exitServer},
		{418, exitGeneric},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := &api.APIError{StatusCode: tt.status, Body: "nope"}
			assert.Equal(t, tt.want, ExitCode(err))
		})
	}
}

func TestExitCodeAuthError(t *testing.T) {
	assert.Equal(t, exitAuth, ExitCode(&api.AuthError{Reason: "bad key"}))
}

func TestExitCodeValidationError(t *testing.T) {
	assert.Equal(t, exitUsage, ExitCode(&api.ValidationError{Field: "uuid", Reason: "required"}))
}

func TestExitCodeInputValidationError(t *testing.T) {
	err := validation.ValidateUUID("not-a-uuid", "job")
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestExitCodeNoFieldsToUpdate(t *testing.T) {
	assert.Equal(t, exitUsage, ExitCode(api.ErrNoFieldsToUpdate))
}

func TestExitCodeWrappedAPIError(t *testing.T) {
	err := fmt.Errorf("listing failed: %w", &api.APIError{StatusCode: 404})
	assert.Equal(t, exitNotFound, ExitCode(err))
}

func TestExitCodeHandledError(t *testing.T) {
	inner := &api.APIError{StatusCode: 429}
	handled := &handledError{err: inner, exitCode: ExitCode(inner)}
	assert.Equal(t, exitRateLimited, ExitCode(handled))
}

func TestExitCodeNetworkErrors(t *testing.T) {
	assert.Equal(t, exitNetwork, ExitCode(context.DeadlineExceeded))
	assert.Equal(t, exitNetwork, ExitCode(&net.OpError{Op: "dial", Err: errors.New("connection refused")}))
	assert.Equal(t, exitNetwork, ExitCode(errors.New("dial tcp: no such host")))
}

func TestExitCodeUsageHeuristics(t *testing.T) {
	assert.Equal(t, exitUsage, ExitCode(errors.New(`unknown command "jbos" for "sm8"`)))
	assert.Equal(t, exitUsage, ExitCode(errors.New("unknown flag: --nope")))
	assert.Equal(t, exitUsage, ExitCode(errors.New(`required flag(s) "queue" not set`)))
}

func TestExitCodeGenericFallback(t *testing.T) {
	assert.Equal(t, exitGeneric, ExitCode(errors.New("something odd happened")))
}
