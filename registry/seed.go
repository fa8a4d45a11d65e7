// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// SeedVersion is written to exported seed files.
const SeedVersion = "1.0"

// SeedData represents the JSON seed file format.
type SeedData struct {
	Version       string          `json:"version"`
	LastUpdated   time.Time       `json:"last_updated"`
	Organizations []*Organization `json:"organizations"`
}

// ReadSeed decodes and validates a seed file.
func ReadSeed(r io.Reader) (*SeedData, error) {
	var seed SeedData
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	seen := make(map[string]bool, len(seed.Organizations))
	for i, o := range seed.Organizations {
		if o == nil {
			return nil, fmt.Errorf("organization #%d: %w: empty record", i, ErrInvalidOrganization)
		}

		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("organization #%d: %w", i, err)
		}

		if seen[o.ID] {
			return nil, fmt.Errorf("organization #%d: %w: duplicated id %s", i, ErrInvalidOrganization, o.ID)
		}
		seen[o.ID] = true
	}

	return &seed, nil
}

// Import upserts orgs in batches of batchSize, calling progress with the
// size of each stored batch.
func Import(ctx context.Context, store Store, orgs []*Organization, batchSize int, progress func(int)) (int, error) {
	if batchSize <= 0 {
		batchSize = len(orgs)
	}

	imported := 0

	for start := 0; start < len(orgs); start += batchSize {
		batch := orgs[start:min(start+batchSize, len(orgs))]
		if err := store.Upsert(ctx, batch); err != nil {
			return imported, err
		}

		imported += len(batch)
		if progress != nil {
			progress(len(batch))
		}
	}

	return imported, nil
}

// ImportFromJSON imports organizations from a JSON file in batches of
// batchSize. When newProgress is set it is called once with the number of
// records and returns the callback that Import reports each batch to.
func ImportFromJSON(ctx context.Context, store Store, filepath string, batchSize int, newProgress func(total int) func(int)) (int, error) {
	f, err := os.Open(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return 0, fmt.Errorf("reading file: %w", err)
	}
	defer f.Close()

	seed, err := ReadSeed(f)
	if err != nil {
		return 0, err
	}

	var progress func(int)
	if newProgress != nil {
		progress = newProgress(len(seed.Organizations))
	}

	return Import(ctx, store, seed.Organizations, batchSize, progress)
}

// WriteSeed encodes orgs as an indented seed document.
func WriteSeed(w io.Writer, orgs []*Organization) error {
	if orgs == nil {
		orgs = []*Organization{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(&SeedData{
		Version:       SeedVersion,
		LastUpdated:   time.Now().UTC(),
		Organizations: orgs,
	})
}

// ExportToJSON exports all organizations to a JSON file.
func ExportToJSON(ctx context.Context, store Store, filepath string) (int, error) {
	orgs, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing organizations: %w", err)
	}

	f, err := os.OpenFile(filepath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return 0, fmt.Errorf("writing file: %w", err)
	}

	if err := WriteSeed(f, orgs); err != nil {
		_ = f.Close()

		return 0, fmt.Errorf("writing file: %w", err)
	}

	return len(orgs), f.Close()
}
