package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

var _ IOptions = (*DynamoDBOptions)(nil)

// DynamoDBOptions configures the DynamoDB backend of the live state store.
// Credentials come from the default AWS credential chain.
type DynamoDBOptions struct {
	TableName string `json:"table-name" mapstructure:"table-name"`
	Region    string `json:"region" mapstructure:"region"`

	// Endpoint overrides the service endpoint (e.g. DynamoDB Local).
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	// KeyAttribute is the partition key attribute holding the call sign.
	KeyAttribute string `json:"key-attribute" mapstructure:"key-attribute"`
}

func NewDynamoDBOptions() *DynamoDBOptions {
	return &DynamoDBOptions{
		TableName:    "live_telemetry",
		Region:       "us-east-1",
		KeyAttribute: "call_sign",
	}
}

func (o *DynamoDBOptions) Validate() []error {
	errors := []error{}

	if o.TableName == "" {
		errors = append(errors, fmt.Errorf("dynamodb.table-name must not be empty"))
	}
	if o.KeyAttribute == "" {
		errors = append(errors, fmt.Errorf("dynamodb.key-attribute must not be empty"))
	}

	return errors
}

func (o *DynamoDBOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.TableName, "dynamodb.table-name", o.TableName, "DynamoDB table holding live telemetry.")
	fs.StringVar(&o.Region, "dynamodb.region", o.Region, "AWS region of the table.")
	fs.StringVar(&o.Endpoint, "dynamodb.endpoint", o.Endpoint, "Override the DynamoDB endpoint URL (e.g. http://localhost:8000).")
	fs.StringVar(&o.KeyAttribute, "dynamodb.key-attribute", o.KeyAttribute, "Partition key attribute holding the call sign.")
}
