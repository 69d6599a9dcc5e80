package megagen

import (
	"regexp"
	"strings"
)

// Confirmation links in MEGA signup emails look like:
// https://mega.nz/#confirm<KEY>
// https://mega.nz/confirm<KEY>
//
// The plain patterns stop the key at the first character outside the link
// alphabet; the href patterns capture everything up to the closing quote of
// the attribute. Order matters: the first pattern that matches wins.
var confirmKeyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https://mega\.nz/#confirm([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`https://mega\.nz/confirm([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`href="https://mega\.nz/#confirm([^"]+)`),
	regexp.MustCompile(`href="https://mega\.nz/confirm([^"]+)`),
}

// extractConfirmKey pulls the confirmation key out of an email body.
// Returns the empty string if no pattern matches.
func extractConfirmKey(body string) string {
	for _, re := range confirmKeyPatterns {
		if m := re.FindStringSubmatch(body); m != nil {
			return m[1]
		}
	}
	return ""
}

// isLikelyConfirmation reports whether a message looks like it came from
// MEGA, based on list metadata alone. Matching is case-sensitive: lowercase
// "mega" against the sender, uppercase "MEGA" against the subject.
func isLikelyConfirmation(sender, subject string) bool {
	return strings.Contains(sender, "mega") || strings.Contains(subject, "MEGA")
}
