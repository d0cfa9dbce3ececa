package services

import (
	"regexp"

	"volunteer-connect-server/models"
)

// RedactionPlaceholder replaces each disclosure-restricted substring.
const RedactionPlaceholder = "[hidden]"

// Patterns for the three restricted content classes. Phone matching is loose
// on purpose: any run of 7+ digits with common separators counts.
var (
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{5,}\d`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern   = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"]+`)
)

// Redact strips phone numbers, email addresses and URLs from a message body
// when the conversation's project is paid and the booking is not fully paid.
// Free projects and fully-paid bookings pass through untouched. The second
// return value tells the caller to warn the sender; it is not an error and
// the message still goes out.
func Redact(body, projectType string, state PaymentState) (string, bool) {
	if projectType == models.ProjectTypeFree || state == PaymentStateFullyPaid {
		return body, false
	}

	redacted := body
	was := false
	// Emails first so their digit runs and dotted hosts are not half-eaten
	// by the phone and URL passes.
	for _, re := range []*regexp.Regexp{emailPattern, urlPattern, phonePattern} {
		if re.MatchString(redacted) {
			redacted = re.ReplaceAllString(redacted, RedactionPlaceholder)
			was = true
		}
	}
	return redacted, was
}
