package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMTPConfig_Configured(t *testing.T) {
	tests := []struct {
		name string
		cfg  SMTPConfig
		want bool
	}{
		{name: "host and from set", cfg: SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"}, want: true},
		{name: "empty", cfg: SMTPConfig{}, want: false},
		{name: "host only", cfg: SMTPConfig{Host: "smtp.example.com"}, want: false},
		{name: "from only", cfg: SMTPConfig{From: "noreply@example.com"}, want: false},
		{name: "credentials without host", cfg: SMTPConfig{Username: "user", Password: "pass"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Configured())
		})
	}
}
