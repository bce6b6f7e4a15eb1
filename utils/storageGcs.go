package utils

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// getGoogleClient initializes a Google Cloud Storage client.
// Prefer ADC (service account / GOOGLE_APPLICATION_CREDENTIALS); explicit JSON
// can be supplied locally via GCS_CREDENTIALS_JSON.
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		client, err := storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func gcsBucket() (string, error) {
	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return "", errors.New("GCS_BUCKET is required")
	}
	return bucketName, nil
}

func saveReportBytesToGCS(ctx context.Context, objectName string, content []byte, overwrite bool) (string, error) {
	bucketName, err := gcsBucket()
	if err != nil {
		return "", err
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	obj := client.Bucket(bucketName).Object(objectName)
	if !overwrite {
		if _, err := obj.Attrs(ctx); err == nil {
			return "", ErrorFileAlreadyExists
		} else if err != storage.ErrObjectNotExist {
			return "", err
		}
		// DoesNotExist precondition keeps the conflict check race-free.
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}

	wc := obj.NewWriter(ctx)
	wc.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if _, err := wc.Write(content); err != nil {
		wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return objectName, nil
}

func readReportBytesFromGCS(ctx context.Context, objectName string) ([]byte, error) {
	bucketName, err := gcsBucket()
	if err != nil {
		return nil, err
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	rc, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, ErrorRecordNotFound
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
