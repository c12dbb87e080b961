package google_test

import "github.com/jhoicas/crm-api/pkg/config"

func configWith(creds string) config.GoogleConfig {
	return config.GoogleConfig{CredentialsJSON: creds}
}
