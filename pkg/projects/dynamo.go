package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// EdgeConfig configures access to the DynamoDB table holding per-project
// edge migration metadata. An empty MetadataTable disables edge tracking,
// callers then skip constructing a migrator and statuses read NOT_APPLICABLE.
type EdgeConfig struct {
	MetadataTable   string    `env:"EDGE_METADATA_TABLE"`                     // MetadataTable is the DynamoDB table with migration metadata.
	Region          string    `env:"EDGE_AWS_REGION" envDefault:"us-east-1"`  // Region is the AWS region of the table.
	AccessKeyID     string    `env:"EDGE_AWS_ACCESS_KEY_ID"`                  // AccessKeyID is optional, the default chain is used when unset.
	SecretAccessKey string    `env:"EDGE_AWS_SECRET_ACCESS_KEY"`              // SecretAccessKey pairs with AccessKeyID.
	Endpoint        string    `env:"EDGE_DYNAMODB_ENDPOINT"`                  // Endpoint overrides the DynamoDB endpoint, e.g. for dynamodb-local.
	ReleaseAt       time.Time `env:"EDGE_RELEASE_AT"`                         // ReleaseAt marks when new projects became edge-by-default, RFC 3339.
}

// DynamoClient defines the DynamoDB operations used by DynamoMigrator.
type DynamoClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoOption configures DynamoMigrator construction.
type DynamoOption func(*dynamoOptions)

type dynamoOptions struct {
	client        DynamoClient
	configOptions []func(*config.LoadOptions) error
	clientOptions []func(*dynamodb.Options)
}

// WithDynamoClient sets a pre-configured client, useful for tests.
func WithDynamoClient(client DynamoClient) DynamoOption {
	return func(o *dynamoOptions) {
		o.client = client
	}
}

// WithAWSConfigOption adds a custom AWS config option.
func WithAWSConfigOption(option func(*config.LoadOptions) error) DynamoOption {
	return func(o *dynamoOptions) {
		o.configOptions = append(o.configOptions, option)
	}
}

// WithDynamoClientOption adds a custom DynamoDB client option.
func WithDynamoClientOption(option func(*dynamodb.Options)) DynamoOption {
	return func(o *dynamoOptions) {
		o.clientOptions = append(o.clientOptions, option)
	}
}

// DynamoMigrator reads edge migration state from the project metadata table.
// It is safe for concurrent use.
type DynamoMigrator struct {
	client DynamoClient
	table  string
}

// NewDynamoMigrator creates a migrator for the configured metadata table.
func NewDynamoMigrator(ctx context.Context, cfg EdgeConfig, opts ...DynamoOption) (*DynamoMigrator, error) {
	if cfg.MetadataTable == "" {
		return nil, fmt.Errorf("metadata table is required")
	}

	options := &dynamoOptions{}
	for _, opt := range opts {
		opt(options)
	}

	client := options.client
	if client == nil {
		awsOptions := []func(*config.LoadOptions) error{
			config.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
			awsOptions = append(awsOptions,
				config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretAccessKey,
					"",
				)),
			)
		}
		awsOptions = append(awsOptions, options.configOptions...)

		awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		client = dynamodb.NewFromConfig(awsConfig, func(o *dynamodb.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			for _, opt := range options.clientOptions {
				opt(o)
			}
		})
	}

	return &DynamoMigrator{client: client, table: cfg.MetadataTable}, nil
}

// projectMetadata mirrors the metadata table item. Timestamps are RFC 3339
// strings written by the migration workers.
type projectMetadata struct {
	ProjectID          string `dynamodbav:"project_id"`
	TriggeredAt        string `dynamodbav:"triggered_at,omitempty"`
	MigrationStartTime string `dynamodbav:"migration_start_time,omitempty"`
	MigrationEndTime   string `dynamodbav:"migration_end_time,omitempty"`
}

func (m projectMetadata) status() MigrationStatus {
	switch {
	case m.MigrationEndTime != "":
		return MigrationCompleted
	case m.MigrationStartTime != "":
		return MigrationInProgress
	case m.TriggeredAt != "":
		return MigrationScheduled
	default:
		return MigrationNotStarted
	}
}

// MigrationStatus fetches the project's metadata item and derives its
// status. A missing item means the migration has not started.
func (m *DynamoMigrator) MigrationStatus(ctx context.Context, projectID uuid.UUID) (MigrationStatus, error) {
	out, err := m.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(m.table),
		Key: map[string]types.AttributeValue{
			"project_id": &types.AttributeValueMemberS{Value: projectID.String()},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return MigrationNotStarted, errors.Join(ErrMigrationStatusUnavailable, err)
	}
	if len(out.Item) == 0 {
		return MigrationNotStarted, nil
	}

	var meta projectMetadata
	if err := attributevalue.UnmarshalMap(out.Item, &meta); err != nil {
		return MigrationNotStarted, errors.Join(ErrMigrationStatusUnavailable, err)
	}
	return meta.status(), nil
}

var _ IdentityMigrator = (*DynamoMigrator)(nil)
