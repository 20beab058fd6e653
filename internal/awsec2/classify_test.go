package awsec2

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/fleetops/cpi-aws/pkg/cpierrors"
)

func apiError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

func statusError(status int) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{
				Response: &http.Response{StatusCode: status},
			},
			Err: fmt.Errorf("http status %d", status),
		},
	}
}

func TestClassifyByCode(t *testing.T) {
	tests := []struct {
		code string
		want cpierrors.Kind
	}{
		{"InvalidInstanceID.NotFound", cpierrors.KindNotFound},
		{"InvalidVolume.NotFound", cpierrors.KindNotFound},
		{"InvalidSnapshot.NotFound", cpierrors.KindNotFound},
		{"InvalidAMIID.NotFound", cpierrors.KindNotFound},
		{"AuthFailure", cpierrors.KindAuthentication},
		{"UnauthorizedOperation", cpierrors.KindAuthentication},
		{"InvalidClientTokenId", cpierrors.KindAuthentication},
		{"RequestLimitExceeded", cpierrors.KindRateLimited},
		{"Throttling", cpierrors.KindRateLimited},
		{"VolumeInUse", cpierrors.KindConflict},
		{"IncorrectInstanceState", cpierrors.KindConflict},
		{"DependencyViolation", cpierrors.KindConflict},
		{"InvalidParameterValue", cpierrors.KindInvalidParameters},
		{"MissingParameter", cpierrors.KindInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := Classify(apiError(tt.code, "boom"))
			if got.Kind != tt.want {
				t.Errorf("Classify(%s) = %q, want %q", tt.code, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyByCodeShape(t *testing.T) {
	tests := []struct {
		code string
		want cpierrors.Kind
	}{
		{"InvalidSubnetID.NotFound", cpierrors.KindNotFound},
		{"InvalidInstanceID.Malformed", cpierrors.KindInvalidParameters},
		{"InstanceCreditSpecification.NotSupported.Throttle", cpierrors.KindRateLimited},
		{"InvalidKeyPair.Duplicate", cpierrors.KindConflict},
		{"InvalidPlacementGroup.InUse", cpierrors.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got := Classify(apiError(tt.code, "boom"))
			if got.Kind != tt.want {
				t.Errorf("Classify(%s) = %q, want %q", tt.code, got.Kind, tt.want)
			}
		})
	}
}

func TestClassifyByStatus(t *testing.T) {
	tests := []struct {
		status int
		want   cpierrors.Kind
	}{
		{401, cpierrors.KindAuthentication},
		{403, cpierrors.KindAuthentication},
		{404, cpierrors.KindNotFound},
		{409, cpierrors.KindConflict},
		{429, cpierrors.KindRateLimited},
		{503, cpierrors.KindRateLimited},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			got := Classify(statusError(tt.status))
			if got.Kind != tt.want {
				t.Errorf("Classify(status %d) = %q, want %q", tt.status, got.Kind, tt.want)
			}
		})
	}

	// 500 carries no classification signal and stays unknown.
	if got := Classify(statusError(500)); got.Kind != cpierrors.KindUnknownBackend {
		t.Errorf("Classify(status 500) = %q, want %q", got.Kind, cpierrors.KindUnknownBackend)
	}
}

func TestClassifyFallback(t *testing.T) {
	raw := errors.New("connection reset by peer")
	got := Classify(raw)
	if got.Kind != cpierrors.KindUnknownBackend {
		t.Errorf("Classify(raw) = %q, want %q", got.Kind, cpierrors.KindUnknownBackend)
	}
	if !errors.Is(got, raw) {
		t.Error("raw cause should be preserved")
	}
}

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestClassifyPassThrough(t *testing.T) {
	already := cpierrors.New(cpierrors.KindConflict, "worker is terminated")
	got := Classify(fmt.Errorf("launch: %w", already))
	if got != already {
		t.Errorf("classified errors should pass through unchanged, got %v", got)
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(apiError("InvalidInstanceID.NotFound", "no such instance")) {
		t.Error("expected NotFound for InvalidInstanceID.NotFound")
	}
	if !IsNotFound(statusError(404)) {
		t.Error("expected NotFound for 404")
	}
	if IsNotFound(apiError("VolumeInUse", "busy")) {
		t.Error("conflict should not report as NotFound")
	}
	if IsNotFound(nil) {
		t.Error("nil should not report as NotFound")
	}
}
