package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/justyn/travelmap-api/internal/cart"
	kafkax "github.com/justyn/travelmap-api/internal/kafka"
)

type CartReader interface {
	ListItems(ctx context.Context, userID int64) ([]cart.ItemView, error)
}

type Store interface {
	CreateOrder(ctx context.Context, o *Order, items []Item, cartItemIDs []int64) (int64, error)
}

type Reader interface {
	GetOrder(ctx context.Context, orderID int64) (*View, error)
	ListByUser(ctx context.Context, userID int64) ([]View, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Composer turns a cart into an order: read the cart, total it, persist
// header + lines + cart clear atomically, announce it, then hand back the
// persisted order through the reader.
type Composer struct {
	Cart     CartReader
	Store    Store
	Reader   Reader
	Producer Publisher // optional; checkout never fails on publish
	Service  string
	Log      *zap.Logger

	// OrderNo overrides the order-number source in tests. Nil means NewOrderNo.
	OrderNo func() string
}

const orderNoAttempts = 3

func (c *Composer) CreateOrder(ctx context.Context, in CheckoutInput) (*View, error) {
	if in.UserID <= 0 {
		return nil, ErrMissingUser
	}

	lines, err := c.Cart.ListItems(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	orderType := in.OrderType
	if orderType == "" {
		orderType = "PRODUCT"
	}

	// Prices freeze here, from the snapshot just read. The insert below never
	// re-reads the catalog, so a catalog update between read and write cannot
	// leak into the order.
	items := make([]Item, 0, len(lines))
	cartIDs := make([]int64, 0, len(lines))
	for _, l := range lines {
		items = append(items, Item{
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			Price:     l.Product.Price,
		})
		cartIDs = append(cartIDs, l.CartID)
	}

	o := &Order{
		UserID:       in.UserID,
		OrderType:    orderType,
		TotalPrice:   Total(lines),
		Status:       StatusCreated,
		ContactName:  in.ContactName,
		ContactPhone: in.ContactPhone,
		CheckinDate:  in.CheckinDate,
		CheckoutDate: in.CheckoutDate,
	}

	newNo := c.OrderNo
	if newNo == nil {
		newNo = NewOrderNo
	}

	var orderID int64
	for attempt := 0; attempt < orderNoAttempts; attempt++ {
		o.OrderNo = newNo()
		orderID, err = c.Store.CreateOrder(ctx, o, items, cartIDs)
		if !errors.Is(err, ErrOrderNoTaken) {
			break
		}
	}
	if errors.Is(err, ErrOrderNoTaken) {
		return nil, fmt.Errorf("order number collision after %d attempts: %w", orderNoAttempts, err)
	}
	if err != nil {
		return nil, err
	}

	c.publishCreated(orderID, o, items)
	if c.Log != nil {
		c.Log.Info("order created",
			zap.Int64("order_id", orderID),
			zap.String("order_no", o.OrderNo),
			zap.Int64("user_id", o.UserID),
			zap.String("total_price", o.TotalPrice.String()))
	}

	return c.Reader.GetOrder(ctx, orderID)
}

func (c *Composer) publishCreated(orderID int64, o *Order, items []Item) {
	if c.Producer == nil {
		return
	}

	lines := make([]LinePrice, 0, len(items))
	for _, it := range items {
		lines = append(lines, LinePrice{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      c.Service,
		CorrelationID: strconv.FormatInt(orderID, 10),
	}
	ev.Payload = kafkax.MustMarshal(OrderCreatedPayload{
		OrderID:    orderID,
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		OrderType:  o.OrderType,
		Items:      lines,
		TotalPrice: o.TotalPrice,
	})

	c.Producer.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
