package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/ecshop/internal/domain"
)

// DynamoStore persists each collection in its own DynamoDB table, keyed by
// the opaque "id" attribute. Tables are named <prefix><collection>.
type DynamoStore struct {
	client      *dynamodb.Client
	tablePrefix string
}

func NewDynamoStore(client *dynamodb.Client, tablePrefix string) *DynamoStore {
	return &DynamoStore{client: client, tablePrefix: tablePrefix}
}

func (s *DynamoStore) table(collection string) string {
	return s.tablePrefix + collection
}

// Ping verifies connectivity by listing tables.
func (s *DynamoStore) Ping(ctx context.Context) error {
	_, err := s.client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)})
	if err != nil {
		return fmt.Errorf("dynamodb ping: %w", err)
	}
	return nil
}

// put marshals doc and writes it, overwriting any existing item.
func (s *DynamoStore) put(ctx context.Context, collection string, doc any) error {
	av, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return fmt.Errorf("marshal %s item: %w", collection, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table(collection)),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put %s item: %w", collection, err)
	}
	return nil
}

// get loads the item with the given id into out. Returns false when absent.
func (s *DynamoStore) get(ctx context.Context, collection, id string, out any) (bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table(collection)),
		Key:       idKey(id),
	})
	if err != nil {
		return false, fmt.Errorf("get %s item: %w", collection, err)
	}
	if result.Item == nil {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return false, fmt.Errorf("unmarshal %s item: %w", collection, err)
	}
	return true, nil
}

// delete removes the item, reporting whether it existed.
func (s *DynamoStore) delete(ctx context.Context, collection, id string) (bool, error) {
	result, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table(collection)),
		Key:          idKey(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, fmt.Errorf("delete %s item: %w", collection, err)
	}
	return result.Attributes != nil, nil
}

// scan pages through the whole table, optionally with a filter expression,
// and unmarshals every item into out (a pointer to a slice).
func (s *DynamoStore) scan(ctx context.Context, collection string, filter *expressionFilter, out any) error {
	input := &dynamodb.ScanInput{TableName: aws.String(s.table(collection))}
	if filter != nil {
		input.FilterExpression = aws.String(filter.expression)
		input.ExpressionAttributeValues = filter.values
		if len(filter.names) > 0 {
			input.ExpressionAttributeNames = filter.names
		}
	}

	var items []map[string]types.AttributeValue
	for {
		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return fmt.Errorf("scan %s: %w", collection, err)
		}
		items = append(items, result.Items...)
		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("unmarshal %s items: %w", collection, err)
	}
	return nil
}

type expressionFilter struct {
	expression string
	values     map[string]types.AttributeValue
	names      map[string]string
}

func byUserID(userID string) *expressionFilter {
	return &expressionFilter{
		expression: "user_id = :uid",
		values: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	}
}

func idKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// Users

func (s *DynamoStore) PutUser(ctx context.Context, u *domain.User) error {
	return s.put(ctx, CollectionUsers, u)
}

func (s *DynamoStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	ok, err := s.get(ctx, CollectionUsers, id, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (s *DynamoStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, "email = :v", email)
}

func (s *DynamoStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findUser(ctx, "username = :v", username)
}

func (s *DynamoStore) findUser(ctx context.Context, expression, value string) (*domain.User, error) {
	var users []domain.User
	filter := &expressionFilter{
		expression: expression,
		values: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	}
	if err := s.scan(ctx, CollectionUsers, filter, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *DynamoStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.scan(ctx, CollectionUsers, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *DynamoStore) DeleteUser(ctx context.Context, id string) (bool, error) {
	return s.delete(ctx, CollectionUsers, id)
}

// Categories

func (s *DynamoStore) PutCategory(ctx context.Context, c *domain.Category) error {
	return s.put(ctx, CollectionCategories, c)
}

func (s *DynamoStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	ok, err := s.get(ctx, CollectionCategories, id, &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (s *DynamoStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := s.scan(ctx, CollectionCategories, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *DynamoStore) DeleteCategory(ctx context.Context, id string) (bool, error) {
	return s.delete(ctx, CollectionCategories, id)
}

// Products

func (s *DynamoStore) PutProduct(ctx context.Context, p *domain.Product) error {
	return s.put(ctx, CollectionProducts, p)
}

func (s *DynamoStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	ok, err := s.get(ctx, CollectionProducts, id, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// ListProducts scans the table and applies the filter in-process; result
// order is the store's default iteration order. Skip/Limit paginate the
// filtered sequence.
func (s *DynamoStore) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	var all []domain.Product
	if err := s.scan(ctx, CollectionProducts, nil, &all); err != nil {
		return nil, err
	}
	return paginateProducts(all, filter), nil
}

func paginateProducts(all []domain.Product, filter ProductFilter) []domain.Product {
	matched := make([]domain.Product, 0, len(all))
	for i := range all {
		if filter.Matches(&all[i]) {
			matched = append(matched, all[i])
		}
	}
	if filter.Skip >= len(matched) {
		return []domain.Product{}
	}
	matched = matched[filter.Skip:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched
}

func (s *DynamoStore) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return s.delete(ctx, CollectionProducts, id)
}

func (s *DynamoStore) CategoryHasProducts(ctx context.Context, categoryID string) (bool, error) {
	var products []domain.Product
	filter := &expressionFilter{
		expression: "category_id = :cid",
		values: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: categoryID},
		},
	}
	if err := s.scan(ctx, CollectionProducts, filter, &products); err != nil {
		return false, err
	}
	return len(products) > 0, nil
}

// AdjustStock performs the conditional stock update in a single write. The
// condition rejects the update when the product is gone or a decrement
// would exceed the available stock.
func (s *DynamoStore) AdjustStock(ctx context.Context, productID string, delta int) error {
	input := &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.table(CollectionProducts)),
		Key:              idKey(productID),
		UpdateExpression: aws.String("SET stock_quantity = stock_quantity + :d, updated_at = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d": &types.AttributeValueMemberN{Value: strconv.Itoa(delta)},
			":t": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	}
	if delta < 0 {
		input.ConditionExpression = aws.String("attribute_exists(id) AND stock_quantity >= :min")
		input.ExpressionAttributeValues[":min"] = &types.AttributeValueMemberN{Value: strconv.Itoa(-delta)}
	} else {
		input.ConditionExpression = aws.String("attribute_exists(id)")
	}

	_, err := s.client.UpdateItem(ctx, input)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrConditionFailed
		}
		return fmt.Errorf("adjust stock for %s: %w", productID, err)
	}
	return nil
}

// Cart items

func (s *DynamoStore) PutCartItem(ctx context.Context, item *domain.CartItem) error {
	return s.put(ctx, CollectionCartItems, item)
}

func (s *DynamoStore) GetCartItem(ctx context.Context, userID, id string) (*domain.CartItem, error) {
	var item domain.CartItem
	ok, err := s.get(ctx, CollectionCartItems, id, &item)
	if err != nil || !ok {
		return nil, err
	}
	if item.UserID != userID {
		return nil, nil
	}
	return &item, nil
}

func (s *DynamoStore) FindCartItem(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	items, err := s.ListCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (s *DynamoStore) ListCartItems(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := s.scan(ctx, CollectionCartItems, byUserID(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *DynamoStore) DeleteCartItem(ctx context.Context, userID, id string) (bool, error) {
	item, err := s.GetCartItem(ctx, userID, id)
	if err != nil || item == nil {
		return false, err
	}
	return s.delete(ctx, CollectionCartItems, id)
}

func (s *DynamoStore) ClearCart(ctx context.Context, userID string) (int, error) {
	items, err := s.ListCartItems(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if _, err := s.delete(ctx, CollectionCartItems, item.ID); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

// Orders

func (s *DynamoStore) PutOrder(ctx context.Context, o *domain.Order) error {
	return s.put(ctx, CollectionOrders, o)
}

func (s *DynamoStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	ok, err := s.get(ctx, CollectionOrders, id, &o)
	if err != nil || !ok {
		return nil, err
	}
	return &o, nil
}

func (s *DynamoStore) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := s.scan(ctx, CollectionOrders, byUserID(userID), &orders); err != nil {
		return nil, err
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (s *DynamoStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := s.scan(ctx, CollectionOrders, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func sortOrdersNewestFirst(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// Wishlist items

func (s *DynamoStore) PutWishlistItem(ctx context.Context, item *domain.WishlistItem) error {
	return s.put(ctx, CollectionWishlistItems, item)
}

func (s *DynamoStore) FindWishlistItem(ctx context.Context, userID, productID string) (*domain.WishlistItem, error) {
	items, err := s.ListWishlistItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (s *DynamoStore) ListWishlistItems(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	if err := s.scan(ctx, CollectionWishlistItems, byUserID(userID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *DynamoStore) DeleteWishlistItem(ctx context.Context, userID, id string) (bool, error) {
	var item domain.WishlistItem
	ok, err := s.get(ctx, CollectionWishlistItems, id, &item)
	if err != nil || !ok {
		return false, err
	}
	if item.UserID != userID {
		return false, nil
	}
	return s.delete(ctx, CollectionWishlistItems, id)
}

func (s *DynamoStore) ClearWishlist(ctx context.Context, userID string) (int, error) {
	items, err := s.ListWishlistItems(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if _, err := s.delete(ctx, CollectionWishlistItems, item.ID); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}
