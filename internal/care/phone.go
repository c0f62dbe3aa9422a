package care

import "strings"

// NormalizePhone maps a WhatsApp sender address onto the +country-code
// format the directory stores. Bare 10-digit numbers default to the +91
// country code, matching the deployment region of the CARE network.
func NormalizePhone(raw string) string {
	number := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if number == "" {
		return ""
	}
	if strings.HasPrefix(number, "+") {
		return number
	}
	if strings.HasPrefix(number, "91") && len(number) >= 12 {
		return "+" + number
	}
	if len(number) == 10 {
		return "+91" + number
	}
	return "+" + number
}
