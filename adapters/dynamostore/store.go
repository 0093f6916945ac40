// Package dynamostore implements the Store port over DynamoDB: hash key
// transmitter, range key start (zero-padded decimal seconds), with a
// stopIndex global secondary index mirroring the original Python
// implementation's GlobalAllIndex on stop.
package dynamostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"fishtrack/domain/interval"
	"fishtrack/internal/logging"
)

const (
	attrTransmitter = "transmitter"
	attrStart       = "start"
	attrStop        = "stop"
	attrStationName = "stationname"
	stopIndexName   = "stopIndex"
	batchWriteLimit = 25
)

// Config names the connection parameters needed to reach a DynamoDB
// endpoint, either a local development instance or real AWS.
type Config struct {
	Mode            string // "local" or "remote"
	Region          string
	LocalEndpoint   string
	TableName       string
	AccessKeyID     string
	SecretAccessKey string
}

// Store is a Store port implementation backed by DynamoDB.
type Store struct {
	client *dynamodb.Client
	table  string
	logger *logging.Logger
}

// New builds a Store from cfg. In "local" mode it targets cfg.LocalEndpoint
// with the supplied static credentials, matching the original
// implementation's development sentinel credentials. In "remote" mode it
// loads the default AWS credential chain for cfg.Region.
func New(ctx context.Context, cfg Config, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Default
	}

	region := cfg.Region
	if region == "" {
		region = "eu-west-1"
	}

	var awsCfg aws.Config
	var err error

	switch cfg.Mode {
	case "local":
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		)
	case "remote":
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	default:
		return nil, fmt.Errorf("dynamostore: unknown connection mode %q", cfg.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("dynamostore: load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Mode == "local" && cfg.LocalEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.LocalEndpoint)
		}
	})

	return &Store{client: client, table: cfg.TableName, logger: logger}, nil
}

// EnsureSchema creates the intervals table and its stopIndex GSI if they
// do not already exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrTransmitter), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrStart), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrStop), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrTransmitter), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrStart), KeyType: types.KeyTypeRange},
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(stopIndexName),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(attrTransmitter), KeyType: types.KeyTypeHash},
					{AttributeName: aws.String(attrStop), KeyType: types.KeyTypeRange},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
				ProvisionedThroughput: &types.ProvisionedThroughput{
					ReadCapacityUnits:  aws.Int64(5),
					WriteCapacityUnits: aws.Int64(5),
				},
			},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		},
		BillingMode: types.BillingModeProvisioned,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			s.logger.Info("[Store] table %s already exists", s.table)
			return nil
		}
		return fmt.Errorf("dynamostore: create table %s: %w", s.table, err)
	}
	return nil
}

// DropSchema deletes the intervals table.
func (s *Store) DropSchema(ctx context.Context) error {
	_, err := s.client.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(s.table)})
	if err != nil {
		return fmt.Errorf("dynamostore: delete table %s: %w", s.table, err)
	}
	return nil
}

// PutBatch writes rows through BatchWriteItem, chunked at DynamoDB's
// 25-item batch-write limit. A rejected chunk fails the whole call with
// PersistenceFailed at the coordinator layer; here it is surfaced plainly.
func (s *Store) PutBatch(ctx context.Context, rows []interval.PersistedInterval) error {
	for start := 0; start < len(rows); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]

		writeRequests := make([]types.WriteRequest, 0, len(chunk))
		for _, row := range chunk {
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{
					Item: map[string]types.AttributeValue{
						attrTransmitter: &types.AttributeValueMemberS{Value: row.TransmitterID},
						attrStart:       &types.AttributeValueMemberS{Value: row.StartKey},
						attrStop:        &types.AttributeValueMemberS{Value: row.StopKey},
						attrStationName: &types.AttributeValueMemberS{Value: row.StationName},
					},
				},
			})
		}

		if err := s.batchWrite(ctx, writeRequests); err != nil {
			return fmt.Errorf("dynamostore: put batch: %w", err)
		}
	}
	return nil
}

// DeleteBatch removes rows for transmitterID identified by startKeys.
func (s *Store) DeleteBatch(ctx context.Context, transmitterID string, startKeys []string) error {
	for start := 0; start < len(startKeys); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(startKeys) {
			end = len(startKeys)
		}
		chunk := startKeys[start:end]

		writeRequests := make([]types.WriteRequest, 0, len(chunk))
		for _, key := range chunk {
			writeRequests = append(writeRequests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						attrTransmitter: &types.AttributeValueMemberS{Value: transmitterID},
						attrStart:       &types.AttributeValueMemberS{Value: key},
					},
				},
			})
		}

		if err := s.batchWrite(ctx, writeRequests); err != nil {
			return fmt.Errorf("dynamostore: delete batch: %w", err)
		}
	}
	return nil
}

func (s *Store) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	if len(requests) == 0 {
		return nil
	}
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{s.table: requests},
	}
	for {
		out, err := s.client.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		unprocessed := out.UnprocessedItems[s.table]
		if len(unprocessed) == 0 {
			return nil
		}
		s.logger.Warn("[Store] retrying %d unprocessed items", len(unprocessed))
		input.RequestItems = map[string][]types.WriteRequest{s.table: unprocessed}
	}
}

// Query returns every persisted interval for transmitterID, ordered by
// start ascending (ScanIndexForward=true).
func (s *Store) Query(ctx context.Context, transmitterID string) ([]interval.PersistedInterval, error) {
	var rows []interval.PersistedInterval
	var exclusiveStartKey map[string]types.AttributeValue

	for {
		out, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String(fmt.Sprintf("%s = :tid", attrTransmitter)),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":tid": &types.AttributeValueMemberS{Value: transmitterID},
			},
			ScanIndexForward:  aws.Bool(true),
			ExclusiveStartKey: exclusiveStartKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamostore: query transmitter %s: %w", transmitterID, err)
		}

		for _, item := range out.Items {
			row, err := rowFromItem(item)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		exclusiveStartKey = out.LastEvaluatedKey
	}

	return rows, nil
}

// TransmitterIDs scans the transmitter attribute only and returns the
// unique set of transmitter ids present in the store.
func (s *Store) TransmitterIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var exclusiveStartKey map[string]types.AttributeValue

	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            aws.String(s.table),
			ProjectionExpression: aws.String(attrTransmitter),
			ExclusiveStartKey:    exclusiveStartKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamostore: scan transmitter ids: %w", err)
		}

		for _, item := range out.Items {
			if attr, ok := item[attrTransmitter].(*types.AttributeValueMemberS); ok {
				seen[attr.Value] = true
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		exclusiveStartKey = out.LastEvaluatedKey
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids, nil
}

func rowFromItem(item map[string]types.AttributeValue) (interval.PersistedInterval, error) {
	transmitter, ok := item[attrTransmitter].(*types.AttributeValueMemberS)
	if !ok {
		return interval.PersistedInterval{}, fmt.Errorf("dynamostore: item missing %s", attrTransmitter)
	}
	startKey, ok := item[attrStart].(*types.AttributeValueMemberS)
	if !ok {
		return interval.PersistedInterval{}, fmt.Errorf("dynamostore: item missing %s", attrStart)
	}
	stopKey, ok := item[attrStop].(*types.AttributeValueMemberS)
	if !ok {
		return interval.PersistedInterval{}, fmt.Errorf("dynamostore: item missing %s", attrStop)
	}
	station, ok := item[attrStationName].(*types.AttributeValueMemberS)
	if !ok {
		return interval.PersistedInterval{}, fmt.Errorf("dynamostore: item missing %s", attrStationName)
	}

	return interval.PersistedInterval{
		TransmitterID: transmitter.Value,
		StartKey:      startKey.Value,
		StopKey:       stopKey.Value,
		StationName:   station.Value,
	}, nil
}
