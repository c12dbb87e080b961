// Package google adapta Drive, Sheets y Cloud Storage a los puertos de selección de personal.
package google

import (
	"strings"

	"google.golang.org/api/option"

	"github.com/jhoicas/crm-api/pkg/config"
)

// ClientOptions credenciales explícitas si GOOGLE_CREDENTIALS_JSON está definido; si no, ADC.
func ClientOptions(cfg config.GoogleConfig) []option.ClientOption {
	if creds := strings.TrimSpace(cfg.CredentialsJSON); creds != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return nil
}
