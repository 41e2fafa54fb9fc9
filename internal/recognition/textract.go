package recognition

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// AWSTextract calls the Textract DetectDocumentText API.
type AWSTextract struct {
	// detect is swappable for tests; the default builds a client from the
	// resolved credentials and calls the real API.
	detect func(ctx context.Context, cfg aws.Config, data []byte) (*textract.DetectDocumentTextOutput, error)
}

// NewAWSTextract creates an AWSTextract backend.
func NewAWSTextract() *AWSTextract {
	return &AWSTextract{detect: detectDocumentText}
}

func detectDocumentText(ctx context.Context, cfg aws.Config, data []byte) (*textract.DetectDocumentTextOutput, error) {
	client := textract.NewFromConfig(cfg)
	return client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: data},
	})
}

func (a *AWSTextract) Engine() Engine {
	return EngineAWSTextract
}

// Recognize runs DetectDocumentText and joins the LINE blocks in reading
// order, which is how Textract represents a page of text.
func (a *AWSTextract) Recognize(ctx context.Context, req Request, creds Credentials) (string, error) {
	cfg, err := a.resolveConfig(ctx, creds)
	if err != nil {
		return "", err
	}

	pngData, err := prepareImage(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}

	out, err := a.detect(ctx, cfg, pngData)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}

	var lines []string
	for _, block := range out.Blocks {
		if block.BlockType == types.BlockTypeLine && block.Text != nil {
			lines = append(lines, *block.Text)
		}
	}
	if len(lines) == 0 {
		return "", ErrNoTextRecognized
	}
	return strings.Join(lines, "\n"), nil
}

// resolveConfig builds an aws.Config from the per-request credential blob
// when one is supplied, otherwise from the default environment chain.
func (a *AWSTextract) resolveConfig(ctx context.Context, creds Credentials) (aws.Config, error) {
	parsed, ok, err := ParseTextractCredentials(creds.TextractBlob)
	if err != nil {
		return aws.Config{}, err
	}
	if ok {
		return config.LoadDefaultConfig(ctx,
			config.WithRegion(parsed.Region),
			config.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
				parsed.AccessKeyID, parsed.SecretAccessKey, "")),
		)
	}

	if os.Getenv("AWS_ACCESS_KEY_ID") == "" || os.Getenv("AWS_SECRET_ACCESS_KEY") == "" {
		return aws.Config{}, fmt.Errorf("%w: no aws credentials", ErrBackendUnavailable)
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return config.LoadDefaultConfig(ctx, config.WithRegion(region))
}
