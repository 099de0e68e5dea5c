// Package auth builds the Firebase Admin client used to verify ID tokens.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// NormalizeKeyData parses a service-account JSON blob taken from the
// environment and turns escaped "\n" sequences in private_key into real
// newlines.
func NormalizeKeyData(keyData string) ([]byte, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(keyData), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal key data: %w", err)
	}
	privateKey, ok := parsed["private_key"].(string)
	if !ok || privateKey == "" {
		return nil, errors.New("key data has no private_key")
	}
	parsed["private_key"] = strings.ReplaceAll(privateKey, "\\n", "\n")

	out, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("marshal key data: %w", err)
	}
	return out, nil
}

// NewClient initializes the Firebase app from keyData and returns its Auth
// client.
func NewClient(ctx context.Context, keyData string) (*fbauth.Client, error) {
	creds, err := NormalizeKeyData(keyData)
	if err != nil {
		return nil, err
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("get auth client: %w", err)
	}
	return client, nil
}
