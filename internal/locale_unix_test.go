//go:build !windows && !darwin

package internal

import "testing"

func TestDetectSystemLocale_EnvPriority(t *testing.T) {
	tests := []struct {
		name       string
		override   string
		lcMonetary string
		lcAll      string
		lang       string
		want       string
	}{
		{"override wins", "en_GB.UTF-8", "sv_SE.UTF-8", "en_US.UTF-8", "de_DE.UTF-8", "en_GB.UTF-8"},
		{"LC_MONETARY takes priority", "", "sv_SE.UTF-8", "en_US.UTF-8", "de_DE.UTF-8", "sv_SE.UTF-8"},
		{"LC_ALL when LC_MONETARY empty", "", "", "en_US.UTF-8", "de_DE.UTF-8", "en_US.UTF-8"},
		{"LANG as fallback", "", "", "", "de_DE.UTF-8", "de_DE.UTF-8"},
		{"Skip C and POSIX", "", "C", "POSIX", "sv_SE.UTF-8", "sv_SE.UTF-8"},
		{"Nothing set", "", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(localeOverrideEnv, tt.override)
			t.Setenv("LC_MONETARY", tt.lcMonetary)
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LANG", tt.lang)

			if got := detectSystemLocale(); got != tt.want {
				t.Errorf("detectSystemLocale() = %q, want %q", got, tt.want)
			}
		})
	}
}
