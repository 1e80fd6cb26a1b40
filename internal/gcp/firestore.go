package gcp

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
)

// NewFirestoreClient creates a Firestore client for the dispatch ledger.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, errors.New("a project ID is required for the dispatch ledger")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return client, nil
}

// RunDoc returns the ledger document of one generation run.
func RunDoc(client *firestore.Client, collection, runID string) *firestore.DocumentRef {
	return client.Collection(collection).Doc(runID)
}
