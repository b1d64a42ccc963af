package domain

// Sign-in platform status codes.
// See https://developers.google.com/android/reference/com/google/android/gms/auth/api/signin/GoogleSignInStatusCodes
const (
	StatusServiceVersionUpdateRequired  = 2
	StatusSignInRequired                = 4
	StatusInvalidAccount                = 5
	StatusNetworkError                  = 7
	StatusInternalError                 = 8
	StatusDeveloperError                = 10
	StatusGenericError                  = 13
	StatusInterrupted                   = 14
	StatusTimeout                       = 15
	StatusCanceled                      = 16
	StatusAPINotConnected               = 17
	StatusConnectionSuspendedDuringCall = 20
	StatusSignInFailed                  = 12500
	StatusSignInCancelled               = 12501
	StatusSignInCurrentlyInProgress     = 12502
)

var statusText = map[int]string{
	StatusServiceVersionUpdateRequired:  "SERVICE_VERSION_UPDATE_REQUIRED",
	StatusSignInRequired:                "SIGN_IN_REQUIRED",
	StatusInvalidAccount:                "INVALID_ACCOUNT",
	StatusNetworkError:                  "NETWORK_ERROR",
	StatusInternalError:                 "INTERNAL_ERROR",
	StatusDeveloperError:                "DEVELOPER_ERROR",
	StatusGenericError:                  "ERROR",
	StatusInterrupted:                   "INTERRUPTED",
	StatusTimeout:                       "TIMEOUT",
	StatusCanceled:                      "CANCELED",
	StatusAPINotConnected:               "API_NOT_CONNECTED",
	StatusConnectionSuspendedDuringCall: "CONNECTION_SUSPENDED_DURING_CALL",
	StatusSignInFailed:                  "SIGN_IN_FAILED",
	StatusSignInCancelled:               "SIGN_IN_CANCELLED",
	StatusSignInCurrentlyInProgress:     "SIGN_IN_CURRENTLY_IN_PROGRESS",
}

// StatusText returns the symbolic name of a status code, or "UNKNOWN".
func StatusText(code int) string {
	if s, ok := statusText[code]; ok {
		return s
	}
	return "UNKNOWN"
}
