package log

import (
	"fmt"
	"net/http"
	"strings"
)

// controlChars escapes characters that could forge extra log lines (CWE-117).
var controlChars = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func sanitizeLogString(s string) string {
	return controlChars.Replace(s)
}

// ErrorType records only the Go type of err. Used where the message may echo
// backend data, such as transport failures carrying the request URL.
func ErrorType(err error) Field {
	if err == nil {
		return String("error_type", "<nil>")
	}

	return String("error_type", fmt.Sprintf("%T", err))
}

// BackendStatus describes a rejected backend call by status alone. The body
// can carry account data and is never logged.
func BackendStatus(code int) Field {
	text := http.StatusText(code)
	if text == "" {
		text = "unknown status"
	}

	return String("reason", fmt.Sprintf("backend returned %d %s", code, text))
}
