//go:build !windows && !darwin

package internal

import "os"

// detectSystemLocale returns the locale used for currency detection on Unix-like systems.
// Priority: SUBSCRIPTION_TRACKER_LOCALE, then LC_MONETARY (most specific), LC_ALL, LANG.
// Returns empty string if no valid locale is found.
func detectSystemLocale() string {
	if locale := os.Getenv(localeOverrideEnv); locale != "" {
		return locale
	}

	for _, envVar := range []string{"LC_MONETARY", "LC_ALL", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}
