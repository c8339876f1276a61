package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crmlabs/order/internal/dal/mongo"
	"github.com/crmlabs/order/internal/service/models/order"
	"github.com/crmlabs/order/internal/service/models/orderitem"
)

const collectionName = "orders"

// OrderItemDal represents an order item as stored in the orders collection.
type OrderItemDal struct {
	ProductID   string  `bson:"product_id"`
	ProductName string  `bson:"product_name"`
	Quantity    int     `bson:"quantity"`
	UnitPrice   float64 `bson:"unit_price"`
	Subtotal    float64 `bson:"subtotal"`
}

// AddressDal represents a shipping address subdocument.
type AddressDal struct {
	Street     string `bson:"street"`
	City       string `bson:"city"`
	State      string `bson:"state"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

// OrderDal represents the persisted order document.
type OrderDal struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	CustomerID      string             `bson:"customer_id"`
	Items           []OrderItemDal     `bson:"items"`
	TotalAmount     float64            `bson:"total_amount"`
	Status          string             `bson:"status"`
	ShippingAddress AddressDal         `bson:"shipping_address"`
	PaymentMethod   string             `bson:"payment_method"`
	Notes           string             `bson:"notes,omitempty"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (d *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(d.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s carries invalid status %q: %w", d.ID.Hex(), d.Status, err)
	}

	items := make([]orderitem.OrderItem, len(d.Items))
	for i, item := range d.Items {
		items[i] = orderitem.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
	}

	return &order.Order{
		ID:          d.ID.Hex(),
		CustomerID:  d.CustomerID,
		Items:       items,
		TotalAmount: d.TotalAmount,
		Status:      status,
		ShippingAddress: order.Address{
			Street:     d.ShippingAddress.Street,
			City:       d.ShippingAddress.City,
			State:      d.ShippingAddress.State,
			PostalCode: d.ShippingAddress.PostalCode,
			Country:    d.ShippingAddress.Country,
		},
		PaymentMethod: d.PaymentMethod,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

// OrderDalFromModel converts the service layer Order model to OrderDal.
// The id is left unset; the store assigns it on insert.
func OrderDalFromModel(o *order.Order) *OrderDal {
	items := make([]OrderItemDal, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemDal{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
	}

	return &OrderDal{
		CustomerID:  o.CustomerID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      o.Status.String(),
		ShippingAddress: AddressDal{
			Street:     o.ShippingAddress.Street,
			City:       o.ShippingAddress.City,
			State:      o.ShippingAddress.State,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// MongoOrderRepository implements the order repository over the orders
// collection.
type MongoOrderRepository struct {
	collection *mongodrv.Collection
}

// NewMongoOrderRepository creates a new order repository.
func NewMongoOrderRepository(client *mongo.Client) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: client.Database().Collection(collectionName),
	}
}

// Insert persists a new order document and returns the order with the
// assigned id.
func (r *MongoOrderRepository) Insert(ctx context.Context, o order.Order) (order.Order, error) {
	ctx, cancel := mongo.OperationContext(ctx)
	defer cancel()

	res, err := r.collection.InsertOne(ctx, OrderDalFromModel(&o))
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return order.Order{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	o.ID = id.Hex()

	return o, nil
}

// FindOne returns the order with the given id.
func (r *MongoOrderRepository) FindOne(ctx context.Context, id string) (order.Order, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return order.Order{}, order.ErrNotFound
	}

	ctx, cancel := mongo.OperationContext(ctx)
	defer cancel()

	var dal OrderDal
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&dal); err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return order.Order{}, order.ErrNotFound
		}

		return order.Order{}, fmt.Errorf("failed to find order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return order.Order{}, err
	}

	return *model, nil
}

// Query returns orders matching the filter, newest-created first.
func (r *MongoOrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	query := bson.M{}
	if filter.CustomerID != "" {
		query["customer_id"] = filter.CustomerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	ctx, cancel := mongo.OperationContext(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	result := []order.Order{}
	for cursor.Next(ctx) {
		var dal OrderDal
		if err := cursor.Decode(&dal); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, err
		}

		result = append(result, *model)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets the status and updated_at of the order with the given id,
// conditioned on the stored status still matching expectedStatus. The filter
// is the optimistic-concurrency token that keeps two concurrent transitions
// from both observing the same starting status and both succeeding.
func (r *MongoOrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	expectedStatus order.Status,
	newStatus order.Status,
	updatedAt time.Time,
) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, order.ErrNotFound
	}

	ctx, cancel := mongo.OperationContext(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID, "status": expectedStatus.String()},
		bson.M{"$set": bson.M{
			"status":     newStatus.String(),
			"updated_at": updatedAt,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}

	return res.ModifiedCount > 0, nil
}
