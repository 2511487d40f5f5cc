package rpal

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// LoadSource reads an RPAL program from either a local path or an s3://
// URI (§4.9) — the CLI's only sourcing need, so this stays a single function
// rather than growing a full storage-backend abstraction.
func LoadSource(ctx context.Context, location string) (string, error) {
	if bucket, key, ok := parseS3URI(location); ok {
		return loadFromS3(ctx, bucket, key)
	}
	b, err := os.ReadFile(location)
	if err != nil {
		return "", &RpalError{Kind: InputError, Msg: err.Error()}
	}
	return string(b), nil
}

func parseS3URI(location string) (bucket, key string, ok bool) {
	const prefix = "s3://"
	if !strings.HasPrefix(location, prefix) {
		return "", "", false
	}
	rest := location[len(prefix):]
	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return rest, "", true
	}
	return rest[:idx], rest[idx+1:], true
}

func loadFromS3(ctx context.Context, bucket, key string) (string, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", &RpalError{Kind: InputError, Msg: "loading AWS config: " + err.Error()}
	}
	client := s3.NewFromConfig(cfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", &RpalError{Kind: InputError, Msg: "fetching s3://" + bucket + "/" + key + ": " + err.Error()}
	}
	defer out.Body.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, out.Body); err != nil {
		return "", &RpalError{Kind: InputError, Msg: err.Error()}
	}
	return buf.String(), nil
}
