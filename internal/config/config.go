package config

import (
	"encoding/base64"
	"fmt"
)

type Config struct {
	ServerAddr     string
	DataFile       string
	SigningKey     []byte
	StaticDir      string
	AllowedOrigins []string

	// SMTP settings are optional. When SMTPAddr is empty, password
	// reset codes are logged instead of emailed.
	SMTPAddr string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}
	return base64.StdEncoding.DecodeString(base64Secret)
}

func NewConfig(serverAddr, dataFile, base64Secret string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if dataFile == "" {
		return nil, fmt.Errorf("data file cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	// Decode the base64 encoded signing secret
	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	return &Config{
		ServerAddr:     serverAddr,
		DataFile:       dataFile,
		SigningKey:     signingKey,
		AllowedOrigins: allowedOrigins,
	}, nil
}
