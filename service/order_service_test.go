package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ashishchaudhary2105/ShopSphere/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Product{}, &model.Category{}, &model.Order{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()
	user := model.User{
		Username: role + "-user",
		Email:    fmt.Sprintf("%s-%d@example.com", role, time.Now().UnixNano()),
		Password: "hash",
		Role:     role,
		Cart: model.CartItemList{
			{ProductID: 1, Quantity: 1},
		},
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return &user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int, createdBy uint) *model.Product {
	t.Helper()
	product := model.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Stock:       stock,
		Images:      model.StringList{"https://img.example.com/" + name + ".jpg"},
		CreatedBy:   createdBy,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return &product
}

func testAddress() *model.Address {
	return &model.Address{
		Street:  "221B Baker Street",
		City:    "London",
		State:   "LDN",
		Zip:     "NW1",
		Country: "UK",
	}
}

func i64(v int64) *int64 { return &v }

func validRequest(productID uint, quantity int, price int64) PlaceOrderRequest {
	return PlaceOrderRequest{
		OrderItems: []PlaceOrderItem{
			{ProductID: productID, Quantity: quantity, Price: price},
		},
		ShippingAddress: testAddress(),
		PaymentMethod:   model.PaymentStripe,
		ItemsPrice:      i64(price * int64(quantity)),
	}
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&model.Order{}).Count(&n).Error; err != nil {
		t.Fatalf("failed to count orders: %v", err)
	}
	return n
}

func reloadStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p model.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("failed to reload product: %v", err)
	}
	return p.Stock
}

func TestPlaceOrderSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "keyboard", 1000, 5, 99)

	order, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 2, 1000))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if order.TotalPrice != 2000 {
		t.Errorf("Expected totalPrice 2000, got %d", order.TotalPrice)
	}
	if order.Status != model.StatusPending {
		t.Errorf("Expected status %s, got %s", model.StatusPending, order.Status)
	}
	if !order.IsPaid || order.PaidAt == nil {
		t.Error("Expected non-COD order to be marked paid at creation")
	}
	if order.IsDelivered {
		t.Error("Expected order not delivered")
	}
	if got := reloadStock(t, db, product.ID); got != 3 {
		t.Errorf("Expected stock 3, got %d", got)
	}
	if !strings.HasPrefix(order.Number(), "ORD-") {
		t.Errorf("Expected ORD- prefix, got %s", order.Number())
	}

	// snapshot fields frozen from the catalog
	if len(order.OrderItems) != 1 {
		t.Fatalf("Expected 1 line item, got %d", len(order.OrderItems))
	}
	item := order.OrderItems[0]
	if item.Name != "keyboard" || item.Price != 1000 || item.Quantity != 2 {
		t.Errorf("Unexpected line item snapshot: %+v", item)
	}
	if item.Image != product.Images[0] {
		t.Errorf("Expected first image %q, got %q", product.Images[0], item.Image)
	}

	// cart cleared after the commit
	var fresh model.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if len(fresh.Cart) != 0 {
		t.Errorf("Expected empty cart after order, got %d items", len(fresh.Cart))
	}
}

func TestPlaceOrderCashOnDeliveryNotPaid(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "mug", 500, 5, 99)

	req := validRequest(product.ID, 1, 500)
	req.PaymentMethod = model.PaymentCashOnDelivery

	order, err := svc.PlaceOrder(context.Background(), user.ID, req)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if order.IsPaid || order.PaidAt != nil {
		t.Error("Expected COD order to be unpaid at creation")
	}
}

func TestPlaceOrderTotalsIncludeTaxAndShipping(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "lamp", 1500, 5, 99)

	req := validRequest(product.ID, 1, 1500)
	req.TaxPrice = 150
	req.ShippingPrice = 50

	order, err := svc.PlaceOrder(context.Background(), user.ID, req)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if order.TotalPrice != 1700 {
		t.Errorf("Expected totalPrice 1700, got %d", order.TotalPrice)
	}
}

func TestPlaceOrderMissingFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)

	_, err := svc.PlaceOrder(context.Background(), user.ID, PlaceOrderRequest{})

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
	if validation.Missing == nil {
		t.Fatal("Expected missingFields report")
	}
	want := MissingFields{OrderItems: true, ShippingAddress: true, PaymentMethod: true, ItemsPrice: true}
	if *validation.Missing != want {
		t.Errorf("Unexpected report: %+v", *validation.Missing)
	}
	if n := countOrders(t, db); n != 0 {
		t.Errorf("Expected no orders, got %d", n)
	}
}

func TestPlaceOrderIncompleteAddress(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "chair", 900, 5, 99)

	req := validRequest(product.ID, 1, 900)
	req.ShippingAddress.Zip = ""

	_, err := svc.PlaceOrder(context.Background(), user.ID, req)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
	if validation.Missing == nil || !validation.Missing.ShippingAddress {
		t.Errorf("Expected shippingAddress flagged, got %+v", validation.Missing)
	}
}

func TestPlaceOrderZeroQuantity(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "pen", 100, 5, 99)

	req := validRequest(product.ID, 0, 100)
	req.ItemsPrice = i64(0)

	_, err := svc.PlaceOrder(context.Background(), user.ID, req)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
	if got := reloadStock(t, db, product.ID); got != 5 {
		t.Errorf("Expected stock unchanged at 5, got %d", got)
	}
}

func TestPlaceOrderInvalidPaymentMethod(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "desk", 4000, 5, 99)

	req := validRequest(product.ID, 1, 4000)
	req.PaymentMethod = "Bitcoin"

	_, err := svc.PlaceOrder(context.Background(), user.ID, req)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Expected ValidationError, got: %v", err)
	}
	if !reflect.DeepEqual(validation.ValidMethods, model.PaymentMethods()) {
		t.Errorf("Expected valid methods list, got %v", validation.ValidMethods)
	}
	if n := countOrders(t, db); n != 0 {
		t.Errorf("Expected no orders, got %d", n)
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "monitor", 8000, 5, 99)

	req := PlaceOrderRequest{
		OrderItems: []PlaceOrderItem{
			{ProductID: product.ID, Quantity: 1, Price: 8000},
			{ProductID: 4242, Quantity: 1, Price: 100},
		},
		ShippingAddress: testAddress(),
		PaymentMethod:   model.PaymentPayPal,
		ItemsPrice:      i64(8100),
	}

	_, err := svc.PlaceOrder(context.Background(), user.ID, req)

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got: %v", err)
	}
	if !reflect.DeepEqual(notFound.MissingProducts, []uint{4242}) {
		t.Errorf("Expected missing product 4242, got %v", notFound.MissingProducts)
	}
	if got := reloadStock(t, db, product.ID); got != 5 {
		t.Errorf("Expected stock unchanged at 5, got %d", got)
	}
	if n := countOrders(t, db); n != 0 {
		t.Errorf("Expected no orders, got %d", n)
	}
}

func TestPlaceOrderOutOfStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "gpu", 90000, 3, 99)

	_, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 10, 90000))

	var outOfStock *OutOfStockError
	if !errors.As(err, &outOfStock) {
		t.Fatalf("Expected OutOfStockError, got: %v", err)
	}
	if len(outOfStock.Items) != 1 {
		t.Fatalf("Expected 1 shortfall, got %d", len(outOfStock.Items))
	}
	item := outOfStock.Items[0]
	if item.AvailableStock != 3 || item.RequestedQuantity != 10 || item.Name != "gpu" {
		t.Errorf("Unexpected shortfall detail: %+v", item)
	}
	if got := reloadStock(t, db, product.ID); got != 3 {
		t.Errorf("Expected stock unchanged at 3, got %d", got)
	}
	if n := countOrders(t, db); n != 0 {
		t.Errorf("Expected no orders, got %d", n)
	}
}

func TestPlaceOrderAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	inStock := seedProduct(t, db, "cable", 200, 10, 99)
	scarce := seedProduct(t, db, "dock", 5000, 1, 99)

	req := PlaceOrderRequest{
		OrderItems: []PlaceOrderItem{
			{ProductID: inStock.ID, Quantity: 2, Price: 200},
			{ProductID: scarce.ID, Quantity: 3, Price: 5000},
		},
		ShippingAddress: testAddress(),
		PaymentMethod:   model.PaymentCreditCard,
		ItemsPrice:      i64(15400),
	}

	_, err := svc.PlaceOrder(context.Background(), user.ID, req)

	var outOfStock *OutOfStockError
	if !errors.As(err, &outOfStock) {
		t.Fatalf("Expected OutOfStockError, got: %v", err)
	}
	// a single insufficient item blocks the whole order
	if got := reloadStock(t, db, inStock.ID); got != 10 {
		t.Errorf("Expected in-stock product untouched at 10, got %d", got)
	}
	if got := reloadStock(t, db, scarce.ID); got != 1 {
		t.Errorf("Expected scarce product untouched at 1, got %d", got)
	}
	if n := countOrders(t, db); n != 0 {
		t.Errorf("Expected no orders, got %d", n)
	}
}

func TestPlaceOrderSequentialDepletion(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "ssd", 6000, 5, 99)

	if _, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 3, 6000)); err != nil {
		t.Fatalf("Expected first order to succeed, got: %v", err)
	}
	if got := reloadStock(t, db, product.ID); got != 2 {
		t.Fatalf("Expected stock 2, got %d", got)
	}

	_, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 3, 6000))
	var outOfStock *OutOfStockError
	if !errors.As(err, &outOfStock) {
		t.Fatalf("Expected OutOfStockError, got: %v", err)
	}
	if got := reloadStock(t, db, product.ID); got != 2 {
		t.Errorf("Expected stock unchanged at 2, got %d", got)
	}
}

func TestPlaceOrderConcurrentNeverOversells(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "console", 30000, 5, 99)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 3, 30000))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		}
	}

	// combined quantity 6 > stock 5: at most one placement may succeed
	if successes > 1 {
		t.Errorf("Expected at most one success, got %d", successes)
	}
	stock := reloadStock(t, db, product.ID)
	if stock < 0 {
		t.Errorf("Stock went negative: %d", stock)
	}
	if stock != 5-3*successes {
		t.Errorf("Expected stock %d, got %d", 5-3*successes, stock)
	}
}

func TestPlaceOrderSnapshotSurvivesProductEdit(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "headset", 2500, 5, 99)

	order, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 1, 2500))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if err := db.Model(&model.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"name": "renamed", "price": 9999}).Error; err != nil {
		t.Fatalf("failed to edit product: %v", err)
	}

	var reloaded model.Order
	if err := db.First(&reloaded, "id = ?", order.ID).Error; err != nil {
		t.Fatalf("failed to reload order: %v", err)
	}
	item := reloaded.OrderItems[0]
	if item.Name != "headset" || item.Price != 2500 {
		t.Errorf("Expected snapshot frozen, got %+v", item)
	}
	if reloaded.TotalPrice != order.TotalPrice {
		t.Errorf("Expected totalPrice unchanged, got %d", reloaded.TotalPrice)
	}
}

func TestMarkPaid(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "fan", 700, 5, 99)

	req := validRequest(product.ID, 1, 700)
	req.PaymentMethod = model.PaymentCashOnDelivery
	order, err := svc.PlaceOrder(context.Background(), user.ID, req)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	result := model.PaymentResult{PaymentID: "pay_123", Status: "COMPLETED"}
	paid, err := svc.MarkPaid(context.Background(), order.ID, result)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if paid.Status != model.StatusProcessing {
		t.Errorf("Expected status %s, got %s", model.StatusProcessing, paid.Status)
	}
	if !paid.IsPaid || paid.PaidAt == nil {
		t.Error("Expected order marked paid")
	}
	if paid.PaymentResult.PaymentID != "pay_123" {
		t.Errorf("Expected payment result attached, got %+v", paid.PaymentResult)
	}
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)

	_, err := svc.MarkPaid(context.Background(), "does-not-exist", model.PaymentResult{})

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected NotFoundError, got: %v", err)
	}
	if n := countOrders(t, db); n != 0 {
		t.Errorf("Expected nothing mutated, got %d orders", n)
	}
}

func TestMarkPaidAfterDeliveredRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "router", 3000, 5, 99)

	order, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 1, 3000))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, err := svc.MarkDelivered(context.Background(), order.ID); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	_, err = svc.MarkPaid(context.Background(), order.ID, model.PaymentResult{})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ConflictError, got: %v", err)
	}
}

func TestMarkDelivered(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "switch", 1200, 5, 99)

	order, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 1, 1200))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	delivered, err := svc.MarkDelivered(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if delivered.Status != model.StatusDelivered {
		t.Errorf("Expected status %s, got %s", model.StatusDelivered, delivered.Status)
	}
	if !delivered.IsDelivered || delivered.DeliveredAt == nil {
		t.Error("Expected order marked delivered")
	}
}

func TestUserOrdersNewestFirstAndIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	user := seedUser(t, db, model.RoleUser)
	product := seedProduct(t, db, "tablet", 20000, 10, 99)

	first, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 1, 20000))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	// created_at has second precision on some stores; force distinct ordering
	if err := db.Model(&model.Order{}).Where("id = ?", first.ID).
		UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error; err != nil {
		t.Fatalf("failed to backdate order: %v", err)
	}
	second, err := svc.PlaceOrder(context.Background(), user.ID, validRequest(product.ID, 1, 20000))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	orders, err := svc.UserOrders(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Error("Expected newest order first")
	}

	again, err := svc.UserOrders(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !reflect.DeepEqual(orders, again) {
		t.Error("Expected identical results for repeated reads")
	}
}

func TestSellerOrdersNoProducts(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	seller := seedUser(t, db, model.RoleSeller)

	orders, err := svc.SellerOrders(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("Expected empty list, got %d", len(orders))
	}
}

func TestSellerOrdersFiltersLineItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewOrderService(db)
	buyer := seedUser(t, db, model.RoleUser)
	seller := seedUser(t, db, model.RoleSeller)
	other := seedUser(t, db, model.RoleSeller)

	mine := seedProduct(t, db, "mine", 1000, 10, seller.ID)
	theirs := seedProduct(t, db, "theirs", 2000, 10, other.ID)

	req := PlaceOrderRequest{
		OrderItems: []PlaceOrderItem{
			{ProductID: mine.ID, Quantity: 1, Price: 1000},
			{ProductID: theirs.ID, Quantity: 1, Price: 2000},
		},
		ShippingAddress: testAddress(),
		PaymentMethod:   model.PaymentBankTransfer,
		ItemsPrice:      i64(3000),
	}
	if _, err := svc.PlaceOrder(context.Background(), buyer.ID, req); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	orders, err := svc.SellerOrders(context.Background(), seller.ID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("Expected 1 order, got %d", len(orders))
	}
	got := orders[0]
	if len(got.OrderItems) != 1 || got.OrderItems[0].ProductID != mine.ID {
		t.Errorf("Expected only the seller's line items, got %+v", got.OrderItems)
	}
	if got.User.ID != buyer.ID || got.User.Email != buyer.Email {
		t.Errorf("Expected buyer projection, got %+v", got.User)
	}

	// the unrelated seller sees only their own line
	others, err := svc.SellerOrders(context.Background(), other.ID)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(others) != 1 || others[0].OrderItems[0].ProductID != theirs.ID {
		t.Errorf("Unexpected view for other seller: %+v", others)
	}
}
