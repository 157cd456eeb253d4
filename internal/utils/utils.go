package utils

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var Log = logrus.New()

func SetLogLevel(level string) {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(log.DebugLevel)
	case "info":
		Log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(log.WarnLevel)
	case "error":
		Log.SetLevel(log.ErrorLevel)
	case "fatal":
		Log.SetLevel(log.FatalLevel)
	default:
		log.Fatal("Bad error level string")
	}
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail lowercases and validates an email address. Returns "" when
// the input doesn't look like a deliverable address.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !emailRe.MatchString(email) {
		return ""
	}
	return email
}

// NormalizePhone strips everything but digits and common phone punctuation.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' || c == '+' || c == '-' || c == '(' || c == ')' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// IsBusinessWebsite filters out links that point back at directories,
// social networks, or aggregators rather than the business itself.
func IsBusinessWebsite(rawURL string) bool {
	u := strings.ToLower(rawURL)
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return false
	}
	blocked := []string{
		"hotfrog.", "facebook.", "instagram.", "twitter.", "x.com",
		"linkedin.", "yelp.", "yellowpages.", "google.", "tripadvisor.",
	}
	for _, b := range blocked {
		if strings.Contains(u, b) {
			return false
		}
	}
	return true
}
