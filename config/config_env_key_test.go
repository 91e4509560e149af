package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"firebase": map[string]any{
			"webApiKey": "",
			"projectId": "",
		},
		"session": map[string]any{
			"refreshLeeway": "5m",
		},
		"exports": map[string]any{
			"errorCorrectionLevel": "M",
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "FIREBASE_WEBAPIKEY", want: "firebase.webApiKey"},
		{envKey: "FIREBASE_PROJECTID", want: "firebase.projectId"},
		{envKey: "SESSION_REFRESHLEEWAY", want: "session.refreshLeeway"},
		{envKey: "EXPORTS_ERRORCORRECTIONLEVEL", want: "exports.errorCorrectionLevel"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}
