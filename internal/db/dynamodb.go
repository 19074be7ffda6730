package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/spacesedan/scrapeflow/internal/models"
)

// RUN_HISTORY_TTL is how long run summaries stay queryable before the
// table's TTL sweep removes them.
const RUN_HISTORY_TTL = 7 * 24 * time.Hour

// RunStore persists per-request run summaries. It never stores enriched
// items, only counts and timing.
type RunStore struct {
	client *dynamodb.Client
	table  string
}

func NewRunStore(client *dynamodb.Client, table string) *RunStore {
	return &RunStore{client: client, table: table}
}

func (s *RunStore) RecordRun(ctx context.Context, event models.ScrapeRunEvent) error {
	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("[DynamoDB] failed to marshal run event: %w", err)
	}

	expiresAt := time.Now().Add(RUN_HISTORY_TTL).Unix()
	item["expires_at"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] failed to store run event: %w", err)
	}

	slog.Info("[DynamoDB] Stored run summary",
		slog.String("run_id", event.RunID))
	return nil
}
