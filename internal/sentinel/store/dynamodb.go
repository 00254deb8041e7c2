package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/autopeer-io/sentinel/internal/sentinel/core"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/log"
	"github.com/autopeer-io/sentinel/pkg/options"
)

var _ core.LiveStateStore = (*DynamoDB)(nil)

// dynamoAPI is the subset of the DynamoDB client used by the store.
type dynamoAPI interface {
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// DynamoDB keeps one item per call sign and merges fields with an
// UpdateItem SET expression.
type DynamoDB struct {
	client  dynamoAPI
	table   string
	keyAttr string
}

// dynamoRecord mirrors the item layout for reads.
type dynamoRecord struct {
	Lat         float64 `dynamodbav:"lat"`
	Lng         float64 `dynamodbav:"lng"`
	Alt         float64 `dynamodbav:"alt"`
	Battery     int     `dynamodbav:"batt"`
	LastSeen    int64   `dynamodbav:"last_seen"`
	ThreatLevel string  `dynamodbav:"threat_level"`
	LastReport  string  `dynamodbav:"last_report"`
}

func NewDynamoDB(ctx context.Context, opts *options.DynamoDBOptions) (*DynamoDB, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	log.Info("Using dynamodb live state store", "table", opts.TableName, "region", opts.Region)
	return newDynamoDBWithClient(client, opts.TableName, opts.KeyAttribute), nil
}

func newDynamoDBWithClient(client dynamoAPI, table, keyAttr string) *DynamoDB {
	return &DynamoDB{client: client, table: table, keyAttr: keyAttr}
}

func (d *DynamoDB) itemKey(callSign string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		d.keyAttr: &types.AttributeValueMemberS{Value: callSign},
	}
}

func (d *DynamoDB) PartialUpdate(ctx context.Context, key string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	expr, names, values, err := buildSetExpression(fields)
	if err != nil {
		return err
	}

	_, err = d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(d.table),
		Key:                       d.itemKey(key),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("failed to update live state item: %w", err)
	}
	return nil
}

// buildSetExpression renders "SET #f0 = :v0, #f1 = :v1" with fields in
// sorted order. Names are aliased since several are reserved words.
func buildSetExpression(fields map[string]any) (string, map[string]string, map[string]types.AttributeValue, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	names := make(map[string]string, len(keys))
	values := make(map[string]types.AttributeValue, len(keys))
	clauses := make([]string, 0, len(keys))

	for i, k := range keys {
		n, v := "#f"+strconv.Itoa(i), ":v"+strconv.Itoa(i)
		av, err := attributevalue.Marshal(fields[k])
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal field %s: %w", k, err)
		}
		names[n] = k
		values[v] = av
		clauses = append(clauses, n+" = "+v)
	}

	return "SET " + strings.Join(clauses, ", "), names, values, nil
}

func (d *DynamoDB) Get(ctx context.Context, key string) (*model.DeviceSnapshot, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            d.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get live state item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}

	var rec dynamoRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal live state item: %w", err)
	}

	return &model.DeviceSnapshot{
		CallSign:            key,
		Lat:                 rec.Lat,
		Lng:                 rec.Lng,
		Alt:                 rec.Alt,
		Battery:             rec.Battery,
		LastSeenEpochMillis: rec.LastSeen,
		ThreatLevel:         model.Verdict(rec.ThreatLevel),
		LastReport:          rec.LastReport,
	}, nil
}

func (d *DynamoDB) Ping(ctx context.Context) error {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.table)})
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("table %s does not exist", d.table)
	}
	return err
}

func (d *DynamoDB) Close() error { return nil }
