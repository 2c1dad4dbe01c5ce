package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DynamoAPI is the subset of the DynamoDB client the order store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// DynamoOrderStore stores orders in DynamoDB.
//
// The orders table is keyed by id. A second table keyed by tracking_id maps
// public identifiers to order ids; it is written in the same transaction as the
// order, so a tracking ID is claimed exactly once and resolves with a consistent
// point read.
type DynamoOrderStore struct {
	client        DynamoAPI
	ordersTable   string
	trackingTable string
	timeout       time.Duration
	now           func() time.Time
}

// dynamoOrder represents the DynamoDB item structure of an order
type dynamoOrder struct {
	ID                string              `dynamodbav:"id"`
	TrackingID        string              `dynamodbav:"tracking_id"`
	CustomerName      string              `dynamodbav:"customer_name"`
	CustomerEmail     string              `dynamodbav:"customer_email"`
	Items             []dynamoItem        `dynamodbav:"items"`
	DeliveryInfo      dynamoDelivery      `dynamodbav:"delivery_info"`
	PaymentMethod     string              `dynamodbav:"payment_method"`
	TotalAmount       string              `dynamodbav:"total_amount"`
	Status            string              `dynamodbav:"status"`
	StatusHistory     []dynamoStatusEvent `dynamodbav:"status_history"`
	CreatedAt         string              `dynamodbav:"created_at"`
	UpdatedAt         string              `dynamodbav:"updated_at"`
	EstimatedDelivery string              `dynamodbav:"estimated_delivery"`
}

type dynamoItem struct {
	ProductID   string `dynamodbav:"product_id"`
	ProductName string `dynamodbav:"product_name"`
	Price       string `dynamodbav:"price"`
	Quantity    int    `dynamodbav:"quantity"`
	Image       string `dynamodbav:"image"`
}

type dynamoDelivery struct {
	Name           string `dynamodbav:"name"`
	Email          string `dynamodbav:"email"`
	Phone          string `dynamodbav:"phone"`
	AlternatePhone string `dynamodbav:"alternate_phone,omitempty"`
	Address        string `dynamodbav:"address"`
	District       string `dynamodbav:"district"`
	Pincode        string `dynamodbav:"pincode"`
}

type dynamoStatusEvent struct {
	Status        string `dynamodbav:"status"`
	Timestamp     string `dynamodbav:"timestamp"`
	EstimatedDays int    `dynamodbav:"estimated_days"`
}

// dynamoTrackingRef is the item of the tracking table
type dynamoTrackingRef struct {
	TrackingID string `dynamodbav:"tracking_id"`
	OrderID    string `dynamodbav:"order_id"`
	CreatedAt  string `dynamodbav:"created_at"`
}

func NewDynamoOrderStore(client DynamoAPI, ordersTable, trackingTable string, timeout time.Duration) *DynamoOrderStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DynamoOrderStore{
		client:        client,
		ordersTable:   ordersTable,
		trackingTable: trackingTable,
		timeout:       timeout,
		now:           time.Now,
	}
}

// Create writes the order and claims its tracking ID in one transaction.
func (s *DynamoOrderStore) Create(ctx context.Context, o *order.Order) (string, error) {
	if err := o.ValidateNew(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored := o.Clone()
	stored.ID = uuid.New().String()
	stored.StampCreated(s.now().UTC())

	item, err := attributevalue.MarshalMap(toDynamoOrder(stored))
	if err != nil {
		return "", fmt.Errorf("failed to marshal order: %w", err)
	}
	ref, err := attributevalue.MarshalMap(dynamoTrackingRef{
		TrackingID: stored.TrackingID,
		OrderID:    stored.ID,
		CreatedAt:  formatTime(stored.CreatedAt),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal tracking ref: %w", err)
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.trackingTable),
					Item:                ref,
					ConditionExpression: aws.String("attribute_not_exists(tracking_id)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.ordersTable),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	})
	if err != nil {
		if isTrackingConflict(err) {
			return "", fmt.Errorf("%w: %s", order.ErrDuplicateTrackingID, stored.TrackingID)
		}
		return "", persistenceError("put order", err)
	}

	*o = *stored
	return stored.TrackingID, nil
}

// isTrackingConflict reports whether the transaction was cancelled by the
// tracking table condition (the first item of the transaction).
func isTrackingConflict(err error) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) || len(tce.CancellationReasons) == 0 {
		return false
	}
	return aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed"
}

func (s *DynamoOrderStore) FindByTrackingID(ctx context.Context, trackingID string) (*order.Order, error) {
	if trackingID == "" {
		return nil, order.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.trackingTable),
		Key: map[string]types.AttributeValue{
			"tracking_id": &types.AttributeValueMemberS{Value: trackingID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, persistenceError("get tracking ref", err)
	}
	if result.Item == nil {
		return nil, order.ErrOrderNotFound
	}

	var ref dynamoTrackingRef
	if err := attributevalue.UnmarshalMap(result.Item, &ref); err != nil {
		return nil, persistenceError("unmarshal tracking ref", err)
	}

	return s.getOrder(ctx, ref.OrderID)
}

func (s *DynamoOrderStore) FindByID(ctx context.Context, id string) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.getOrder(ctx, id)
}

func (s *DynamoOrderStore) getOrder(ctx context.Context, id string) (*order.Order, error) {
	if id == "" {
		return nil, order.ErrOrderNotFound
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.ordersTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, persistenceError("get order", err)
	}
	if result.Item == nil {
		return nil, order.ErrOrderNotFound
	}

	return unmarshalDynamoOrder(result.Item)
}

func (s *DynamoOrderStore) AppendStatus(ctx context.Context, id string, ev order.StatusEvent) (*order.Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return appendStatus(ctx, id, ev, s.getOrder, s.swap)
}

// swap appends ev with a conditional update keyed on the status that was read.
func (s *DynamoOrderStore) swap(ctx context.Context, current *order.Order, ev order.StatusEvent) (*order.Order, error) {
	now := s.now().UTC()
	if now.Before(current.UpdatedAt) {
		// keep the history chronological when the writer's clock lags the last write
		now = current.UpdatedAt
	}
	ev.Timestamp = now

	eventAV, err := attributevalue.MarshalMap(toDynamoEvent(ev))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal status event: %w", err)
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.ordersTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: current.ID},
		},
		UpdateExpression:    aws.String("SET #status = :next, status_history = list_append(status_history, :event), updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(id) AND #status = :current"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":next":    &types.AttributeValueMemberS{Value: ev.Status.String()},
			":current": &types.AttributeValueMemberS{Value: current.Status.String()},
			":now":     &types.AttributeValueMemberS{Value: formatTime(now)},
			":event": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberM{Value: eventAV},
			}},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, errStaleStatus
		}
		return nil, persistenceError("update order status", err)
	}

	return unmarshalDynamoOrder(result.Attributes)
}

func toDynamoOrder(o *order.Order) dynamoOrder {
	items := make([]dynamoItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = dynamoItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price.String(),
			Quantity:    item.Quantity,
			Image:       item.Image,
		}
	}
	history := make([]dynamoStatusEvent, len(o.StatusHistory))
	for i, ev := range o.StatusHistory {
		history[i] = toDynamoEvent(ev)
	}
	d := o.DeliveryInfo

	return dynamoOrder{
		ID:            o.ID,
		TrackingID:    o.TrackingID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Items:         items,
		DeliveryInfo: dynamoDelivery{
			Name:           d.Name,
			Email:          d.Email,
			Phone:          d.Phone,
			AlternatePhone: d.AlternatePhone,
			Address:        d.Address,
			District:       d.District,
			Pincode:        d.Pincode,
		},
		PaymentMethod:     string(o.PaymentMethod),
		TotalAmount:       o.TotalAmount.StringFixed(2),
		Status:            o.Status.String(),
		StatusHistory:     history,
		CreatedAt:         formatTime(o.CreatedAt),
		UpdatedAt:         formatTime(o.UpdatedAt),
		EstimatedDelivery: formatTime(o.EstimatedDelivery),
	}
}

func toDynamoEvent(ev order.StatusEvent) dynamoStatusEvent {
	return dynamoStatusEvent{
		Status:        ev.Status.String(),
		Timestamp:     formatTime(ev.Timestamp),
		EstimatedDays: ev.EstimatedDays,
	}
}

func unmarshalDynamoOrder(item map[string]types.AttributeValue) (*order.Order, error) {
	var do dynamoOrder
	if err := attributevalue.UnmarshalMap(item, &do); err != nil {
		return nil, persistenceError("unmarshal order", err)
	}
	o, err := fromDynamoOrder(do)
	if err != nil {
		return nil, persistenceError("decode order "+do.ID, err)
	}
	return o, nil
}

// fromDynamoOrder converts the stored item into the domain type, normalizing
// the string encodings of timestamps, amounts and statuses.
func fromDynamoOrder(do dynamoOrder) (*order.Order, error) {
	items := make([]order.OrderItem, len(do.Items))
	for i, item := range do.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, fmt.Errorf("item %d price: %w", i, err)
		}
		items[i] = order.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       price,
			Quantity:    item.Quantity,
			Image:       item.Image,
		}
	}

	history := make([]order.StatusEvent, len(do.StatusHistory))
	for i, ev := range do.StatusHistory {
		status, err := order.ParseStatus(ev.Status)
		if err != nil {
			return nil, err
		}
		ts, err := parseTime(ev.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("history %d timestamp: %w", i, err)
		}
		history[i] = order.StatusEvent{Status: status, Timestamp: ts, EstimatedDays: ev.EstimatedDays}
	}

	status, err := order.ParseStatus(do.Status)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(do.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("total amount: %w", err)
	}
	createdAt, err := parseTime(do.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	updatedAt, err := parseTime(do.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	estimated, err := parseTime(do.EstimatedDelivery)
	if err != nil {
		return nil, fmt.Errorf("estimated_delivery: %w", err)
	}

	d := do.DeliveryInfo
	return &order.Order{
		ID:            do.ID,
		TrackingID:    do.TrackingID,
		CustomerName:  do.CustomerName,
		CustomerEmail: do.CustomerEmail,
		Items:         items,
		DeliveryInfo: order.DeliveryInfo{
			Name:           d.Name,
			Email:          d.Email,
			Phone:          d.Phone,
			AlternatePhone: d.AlternatePhone,
			Address:        d.Address,
			District:       d.District,
			Pincode:        d.Pincode,
		},
		PaymentMethod:     order.PaymentMethod(do.PaymentMethod),
		TotalAmount:       total,
		Status:            status,
		StatusHistory:     history,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
		EstimatedDelivery: estimated,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
