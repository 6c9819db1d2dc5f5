package core

// # Error Codes Reference
//
// Fatal run errors are mapped to user-facing messages with a code that can be
// quoted when reporting a problem. Codes are grouped by category:
//
//	FILE001 - Input file not found          (MissingInputError)
//	FILE002 - Input file could not be decoded (DecodingError)
//	ROW001  - Row has too few fields        (RowShapeError)
//	VAL001  - Invalid number in a row       (FieldCoercionError)
//	VAL002  - Row is not a usable POI       (SemanticValidationError)
//	IO001   - Output could not be written   (IOWriteError)
//	IO002   - Permission denied             pattern "permission denied"
//	IO003   - Disk full                     pattern "no space left"
//	OUT001  - Output failed verification    (VerificationError)
//	CFG001  - Configuration problem         pattern "config"
//	ERR000  - Anything else
//
// Typed errors are matched first with errors.As, walking the wrap chain from the
// outermost error. Patterns are matched case-insensitively against the full error
// text afterwards; the first matching pattern wins, so more specific patterns are
// listed first.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgMissingInput = UserMessage{
		Message: "Input CSV file not found",
		Action:  "Check POICONV_INPUT or place the file at the default location",
		Code:    "FILE001",
	}
	msgDecoding = UserMessage{
		Message: "Input file could not be decoded with any candidate encoding",
		Action:  "Save the file as UTF-8 or add its encoding to POICONV_ENCODINGS",
		Code:    "FILE002",
	}
	msgRowShape = UserMessage{
		Message: "Row has too few fields",
		Action:  fmt.Sprintf("Each data row needs at least %d comma-separated fields", MinFields),
		Code:    "ROW001",
	}
	msgCoercion = UserMessage{
		Message: "Invalid number format detected",
		Action:  "Coordinates must be decimal numbers and ranks whole numbers",
		Code:    "VAL001",
	}
	msgSemantic = UserMessage{
		Message: "Row is not a usable point of interest",
		Action:  "Rows need a name and non-zero coordinates",
		Code:    "VAL002",
	}
	msgWrite = UserMessage{
		Message: "Output file could not be written",
		Action:  "Check that the output directory is writable",
		Code:    "IO001",
	}
	msgVerify = UserMessage{
		Message: "Written output did not read back correctly",
		Action:  "Re-run the conversion; if it persists, inspect the output file",
		Code:    "OUT001",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// environmentPatterns match operating system failures and take precedence over
// the typed error that wraps them.
var environmentPatterns = []errorPattern{
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "Permission denied",
			Action:  "Check file and directory permissions",
			Code:    "IO002",
		},
	},
	{
		pattern: "no space left",
		msg: UserMessage{
			Message: "Disk is full",
			Action:  "Free some space and try again",
			Code:    "IO003",
		},
	},
}

// errorPatterns maps error text (case-insensitive) to user messages for errors
// that do not carry one of the package's typed errors.
var errorPatterns = []errorPattern{
	{
		pattern: "config",
		msg: UserMessage{
			Message: "Configuration is invalid",
			Action:  "Review the POICONV_* and LOG_* settings",
			Code:    "CFG001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log output for details",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range environmentPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	var (
		missing  *MissingInputError
		decoding *DecodingError
		shape    *RowShapeError
		coercion *FieldCoercionError
		semantic *SemanticValidationError
		write    *IOWriteError
		verify   *VerificationError
	)
	switch {
	case errors.As(err, &missing):
		return msgMissingInput
	case errors.As(err, &decoding):
		return msgDecoding
	case errors.As(err, &shape):
		return msgRowShape
	case errors.As(err, &coercion):
		return msgCoercion
	case errors.As(err, &semantic):
		return msgSemantic
	case errors.As(err, &write):
		return msgWrite
	case errors.As(err, &verify):
		return msgVerify
	}

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether an error maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// ErrorChain returns the messages of err and every error it wraps, outermost
// first. Joined errors are expanded depth-first.
func ErrorChain(err error) []string {
	var chain []string
	var walk func(error)
	walk = func(e error) {
		for e != nil {
			chain = append(chain, e.Error())
			if joined, ok := e.(interface{ Unwrap() []error }); ok {
				for _, inner := range joined.Unwrap() {
					walk(inner)
				}
				return
			}
			e = errors.Unwrap(e)
		}
	}
	walk(err)
	return chain
}
