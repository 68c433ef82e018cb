package tts

import (
	"os"
	"strings"

	"google.golang.org/api/option"
)

// CredentialsEnv names a service account key for this tool only, as inline
// JSON or a file path. It wins over the process-wide Google variables.
const CredentialsEnv = "THAICONTENT_TTS_CREDENTIALS"

// credentialOptions returns the client options for the Text-to-Speech
// credentials found in the environment, or nil to use application default
// credentials. A GOOGLE_APPLICATION_CREDENTIALS key file path is already
// honoured by ADC, so only inline JSON there yields an option.
func credentialOptions(getenv func(string) string) []option.ClientOption {
	if v := strings.TrimSpace(getenv(CredentialsEnv)); v != "" {
		return []option.ClientOption{credential(v)}
	}
	if v := strings.TrimSpace(getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")); v != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(v))}
	}
	if v := strings.TrimSpace(getenv("GOOGLE_APPLICATION_CREDENTIALS")); isInlineJSON(v) {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(v))}
	}
	return nil
}

func credential(v string) option.ClientOption {
	if isInlineJSON(v) {
		return option.WithCredentialsJSON([]byte(v))
	}
	return option.WithCredentialsFile(v)
}

func isInlineJSON(v string) bool { return strings.HasPrefix(v, "{") }

func envCredentials() []option.ClientOption { return credentialOptions(os.Getenv) }
