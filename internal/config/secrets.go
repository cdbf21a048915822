package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretFetcher returns the raw string value of a stored secret.
type SecretFetcher interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type dbCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewSecretsManagerClient builds a Secrets Manager client from the default AWS
// credential chain.
func NewSecretsManagerClient(ctx context.Context) (*secretsmanager.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return secretsmanager.NewFromConfig(awsCfg), nil
}

// ResolveCredentials fills in the database username and password. Values set
// in the environment win; otherwise they are read from the secret named by
// DB_SECRET_ID. The DSN is rebuilt afterwards.
func (d *DatabaseConfig) ResolveCredentials(ctx context.Context, fetcher SecretFetcher) error {
	if (d.Username == "" || d.Password == "") && d.SecretID != "" {
		if fetcher == nil {
			return fmt.Errorf("DB_SECRET_ID is set but no secrets client is available")
		}
		out, err := fetcher.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId:     aws.String(d.SecretID),
			VersionStage: aws.String("AWSCURRENT"),
		})
		if err != nil {
			return fmt.Errorf("failed to read secret %s: %w", d.SecretID, err)
		}
		if out.SecretString == nil {
			return fmt.Errorf("secret %s has no string value", d.SecretID)
		}

		var creds dbCredentials
		if err := json.Unmarshal([]byte(*out.SecretString), &creds); err != nil {
			return fmt.Errorf("failed to decode secret %s: %w", d.SecretID, err)
		}
		if d.Username == "" {
			d.Username = creds.Username
		}
		if d.Password == "" {
			d.Password = creds.Password
		}
	}

	if d.Username == "" {
		d.Username = "root"
	}
	d.DSN = d.BuildDSN()
	return nil
}
