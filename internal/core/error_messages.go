package core

// error_messages.go maps technical errors to messages an operator or end
// user can act on. Every message carries a code that can be quoted to
// support.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: an inspection for this classroom, inspector and date exists
//	        Patterns: "duplicate key"
//	DB002 - Unique constraint: value must be unique
//	        Patterns: "unique constraint", "violates unique"
//	DB003 - Foreign key: referenced classroom or inspector does not exist
//	        Patterns: "foreign key constraint", "violates foreign key"
//	DB004 - Connection refused
//	        Patterns: "connection refused"
//	DB005 - Connection reset
//	        Patterns: "connection reset"
//	DB006 - Timeout
//	        Patterns: "timeout"
//	DB007 - Deadlock or locked database
//	        Patterns: "deadlock", "database is locked"
//	DB008 - Not found
//	        Patterns: "record not found"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Missing identity: classroom, inspector or date absent
//	         Patterns: "missing classroomname"
//	VAL002 - Unrecognized status
//	         Patterns: "could not be normalized"
//	VAL003 - Invalid date
//	         Patterns: "invalid date"
//	VAL004 - Invalid id in request path or query
//	         Patterns: "invalid id"
//	VAL005 - Invalid request body
//	         Patterns: "invalid request body"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large      Patterns: "file too large", "request body too large"
//	FILE002 - Invalid CSV         Patterns: "invalid csv"
//	FILE003 - Encoding error      Patterns: "encoding error"
//	FILE004 - No file             Patterns: "no file provided"
//	FILE005 - Empty file          Patterns: "empty file"
//	FILE006 - File not found      Patterns: "no such file"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Import cancelled     Patterns: "import cancelled"
//	IMP002 - System busy          Patterns: "too many imports"
//	IMP003 - Request cancelled    Patterns: "context canceled"
//	IMP004 - Request timed out    Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Returned when nothing matches. Check the application log for the
// original error.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Import lifecycle. "import cancelled" wraps context.Canceled, so it
	// must precede the generic context patterns below.
	{
		pattern: "import cancelled",
		msg: UserMessage{
			Message: "Import was cancelled before it finished",
			Action:  "Rows imported so far are kept; run the import again to finish",
			Code:    "IMP001",
		},
	},
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "Another import is already running",
			Action:  "Please wait a moment and try again",
			Code:    "IMP002",
		},
	},

	// Database constraints
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "An inspection for this classroom, inspector and date already exists",
			Action:  "Edit the existing inspection instead",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Check for duplicate entries",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced classroom or inspector does not exist",
			Action:  "Pick an existing classroom and inspector",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced classroom or inspector does not exist",
			Action:  "Pick an existing classroom and inspector",
			Code:    "DB003",
		},
	},

	// Database connectivity
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check DATABASE_URL and that the database is running",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "database is locked",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "The requested record does not exist",
			Action:  "Check the id and try again",
			Code:    "DB008",
		},
	},

	// Validation
	{
		pattern: "missing classroomname",
		msg: UserMessage{
			Message: "Classroom, inspector or inspection date is missing",
			Action:  "Fill in classroom name, inspector name and a valid date",
			Code:    "VAL001",
		},
	},
	{
		pattern: "could not be normalized",
		msg: UserMessage{
			Message: "One or more equipment statuses were not recognized",
			Action:  "Use OK or IKKE OK for every piece of equipment",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use YYYY-MM-DD or DD.MM.YYYY",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid id",
		msg: UserMessage{
			Message: "The id is not a valid number",
			Action:  "Use the numeric id shown in the listing",
			Code:    "VAL004",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request body could not be read",
			Action:  "Send a JSON object with the documented fields",
			Code:    "VAL005",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Export the sheet as semicolon-separated CSV",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File encoding is not supported",
			Action:  "Use latin1, windows-1252 or utf-8",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Please provide a CSV file with a header row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "File not found",
			Action:  "Check the path and try again",
			Code:    "FILE006",
		},
	},

	// Request context
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "IMP004",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unknown
// errors map to ERR000; nil maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error (for logs) with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
