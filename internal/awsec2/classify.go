package awsec2

import (
	"errors"
	"strings"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"

	"github.com/fleetops/cpi-aws/pkg/cpierrors"
)

// kindByCode maps the EC2 error codes observed so far onto the closed
// taxonomy. Codes not listed fall through to the suffix rules and then to
// the HTTP status of the response; anything still unmatched is an
// UnknownBackendError. Extend this table as new codes are observed.
var kindByCode = map[string]cpierrors.Kind{
	// not found
	"InvalidInstanceID.NotFound": cpierrors.KindNotFound,
	"InvalidVolume.NotFound":     cpierrors.KindNotFound,
	"InvalidSnapshot.NotFound":   cpierrors.KindNotFound,
	"InvalidAMIID.NotFound":      cpierrors.KindNotFound,

	// authentication / authorization
	"AuthFailure":                 cpierrors.KindAuthentication,
	"UnauthorizedOperation":       cpierrors.KindAuthentication,
	"InvalidClientTokenId":        cpierrors.KindAuthentication,
	"SignatureDoesNotMatch":       cpierrors.KindAuthentication,
	"ExpiredToken":                cpierrors.KindAuthentication,
	"RequestExpired":              cpierrors.KindAuthentication,
	"OptInRequired":               cpierrors.KindAuthentication,
	"PendingVerification":         cpierrors.KindAuthentication,
	"AccessDeniedException":       cpierrors.KindAuthentication,
	"UnrecognizedClientException": cpierrors.KindAuthentication,

	// throttling
	"RequestLimitExceeded":                  cpierrors.KindRateLimited,
	"Throttling":                            cpierrors.KindRateLimited,
	"ThrottlingException":                   cpierrors.KindRateLimited,
	"TooManyRequestsException":              cpierrors.KindRateLimited,
	"EC2ThrottledException":                 cpierrors.KindRateLimited,
	"SnapshotCreationPerVolumeRateExceeded": cpierrors.KindRateLimited,

	// state conflicts
	"VolumeInUse":                cpierrors.KindConflict,
	"IncorrectState":             cpierrors.KindConflict,
	"IncorrectInstanceState":     cpierrors.KindConflict,
	"InvalidState":               cpierrors.KindConflict,
	"DependencyViolation":        cpierrors.KindConflict,
	"ResourceAlreadyAssociated":  cpierrors.KindConflict,
	"InvalidVolume.ZoneMismatch": cpierrors.KindConflict,

	// parameter problems that slipped past local validation
	"InvalidParameterValue":       cpierrors.KindInvalidParameters,
	"InvalidParameterCombination": cpierrors.KindInvalidParameters,
	"MissingParameter":            cpierrors.KindInvalidParameters,
	"ValidationError":             cpierrors.KindInvalidParameters,
	"UnknownParameter":            cpierrors.KindInvalidParameters,
}

func kindByStatus(status int) (cpierrors.Kind, bool) {
	switch status {
	case 401, 403:
		return cpierrors.KindAuthentication, true
	case 404:
		return cpierrors.KindNotFound, true
	case 409:
		return cpierrors.KindConflict, true
	case 429, 503:
		return cpierrors.KindRateLimited, true
	default:
		return "", false
	}
}

// Classify converts a native backend failure into a classified error. Pure
// and total: nil maps to nil, anything unrecognized maps to
// UnknownBackendError with the raw message preserved as the cause.
func Classify(err error) *cpierrors.Error {
	if err == nil {
		return nil
	}

	// Already classified, e.g. by a facade-level validation.
	var classified *cpierrors.Error
	if errors.As(err, &classified) {
		return classified
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if kind, ok := kindByCode[code]; ok {
			return cpierrors.Wrap(kind, err, apiErr.ErrorMessage())
		}
		if kind, ok := kindByCodeShape(code); ok {
			return cpierrors.Wrap(kind, err, apiErr.ErrorMessage())
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		if kind, ok := kindByStatus(respErr.HTTPStatusCode()); ok {
			return cpierrors.Wrap(kind, err, respErr.Error())
		}
	}

	return cpierrors.Wrap(cpierrors.KindUnknownBackend, err, err.Error())
}

// kindByCodeShape applies the structural conventions of EC2 error codes so
// unlisted resource-scoped variants still classify correctly.
func kindByCodeShape(code string) (cpierrors.Kind, bool) {
	switch {
	case strings.HasSuffix(code, ".NotFound"):
		return cpierrors.KindNotFound, true
	case strings.HasSuffix(code, ".Malformed"):
		return cpierrors.KindInvalidParameters, true
	case strings.Contains(code, "Throttl"):
		return cpierrors.KindRateLimited, true
	case strings.HasSuffix(code, ".Duplicate"), strings.HasSuffix(code, ".InUse"):
		return cpierrors.KindConflict, true
	default:
		return "", false
	}
}

// IsNotFound reports whether a native error classifies as NotFound, the
// condition existence checks swallow into a successful false.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return Classify(err).Kind == cpierrors.KindNotFound
}
