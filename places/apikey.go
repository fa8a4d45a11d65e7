// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"errors"
	"fmt"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

// KeyDisplayName is the display name of the provisioned Maps key.
const KeyDisplayName = "Donar Places Key"

// ResolveAPIKey returns explicit when set, otherwise looks the key up with
// Application Default Credentials.
func ResolveAPIKey(ctx context.Context, explicit, projectID string, logger logrus.FieldLogger) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	key, err := APIKeyFromADC(ctx, projectID, logger)
	if err != nil {
		return "", fmt.Errorf("GOOGLE_MAPS_API_KEY is not set and ADC lookup failed: %w", err)
	}

	logger.Info("retrieved Google Maps API key via ADC")

	return key, nil
}

// APIKeyFromADC finds the key named KeyDisplayName in the project of the
// default credentials, or in projectID when they carry none.
func APIKeyFromADC(ctx context.Context, projectID string, logger logrus.FieldLogger) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	if creds.ProjectID != "" {
		projectID = creds.ProjectID
	}

	if projectID == "" {
		return "", errors.New("no project id in credentials and none configured")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	it := client.ListKeys(ctx, &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	})

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != KeyDisplayName {
			continue
		}

		// ListKeys redacts the secret
		logger.WithField("key", key.Name).Debug("found key resource, retrieving secret")

		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key '%s' found but its key string is empty", KeyDisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name '%s' not found in project %s", KeyDisplayName, projectID)
}
