package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodies-api/handlers"
	"foodies-api/middleware"
	"foodies-api/models"
	"foodies-api/notify"
	"foodies-api/routes"
	"foodies-api/service"
	"foodies-api/statemachine"
	"foodies-api/store/sqlstore"
	"foodies-api/store/sqlstore/sqltest"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var secret = []byte("handler-test-secret")

func init() { gin.SetMode(gin.TestMode) }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type api struct {
	t      *testing.T
	router http.Handler
	db     *gorm.DB
	queue  *notify.MemoryQueue
}

func newAPI(t *testing.T, strict bool) *api {
	t.Helper()
	db := sqltest.Open(t)
	st := sqlstore.New(db)
	queue := notify.NewMemoryQueue(16)
	shipping := service.NewShippingService(st)
	h := &handlers.Handler{
		DB:        db,
		Carts:     service.NewCartService(st, shipping),
		Orders:    service.NewOrderService(st, shipping, queue, statemachine.Policy{Strict: strict}, zap.NewNop()),
		Shipping:  shipping,
		JWTSecret: secret,
		Logger:    zap.NewNop(),
	}
	return &api{t: t, router: routes.NewRouter(h, zap.NewNop()), db: db, queue: queue}
}

// login stores a user with role and returns its bearer token.
func (a *api) login(name string, role models.UserRole) string {
	a.t.Helper()
	u := models.User{Name: name, Email: strings.ToLower(name) + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(a.t, a.db.Create(&u).Error)
	token, err := middleware.GenerateToken(&u, secret)
	require.NoError(a.t, err)
	return token
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type orderBody struct {
	Order models.Order `json:"order"`
}

func placeBody(unitPrice string, quantity int) gin.H {
	return gin.H{
		"lines": []gin.H{{
			"foodId": "F1", "name": "Zinger Burger", "image": "zinger.png",
			"unitPrice": unitPrice, "quantity": quantity,
		}},
		"shippingAddress": gin.H{"street": "5 Mall Rd", "city": "Lahore", "phone": "0321"},
	}
}

func TestAuth_RegisterLoginProfile(t *testing.T) {
	a := newAPI(t, false)

	w := a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ayesha", "email": "Ayesha@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[struct {
		Token string `json:"token"`
		User  struct {
			Email string          `json:"email"`
			Role  models.UserRole `json:"role"`
		} `json:"user"`
	}](t, w)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "ayesha@example.com", reg.User.Email)
	assert.Equal(t, models.RoleUser, reg.User.Role)

	w = a.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Again", "email": "ayesha@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ayesha@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ayesha@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token

	w = a.do(http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"ayesha@example.com"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = a.do(http.MethodPut, "/api/users/profile", token, gin.H{
		"name":    "Ayesha K",
		"address": gin.H{"street": "1 Canal Rd", "city": "Lahore", "phone": "0300"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Ayesha K"`)

	w = a.do(http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized, no token")
}

func TestAuth_ValidationMessages(t *testing.T) {
	a := newAPI(t, false)

	w := a.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "x", "password": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	msg := decode[gin.H](t, w)["error"].(string)
	assert.Contains(t, msg, "email is required")
	assert.Contains(t, msg, "password must satisfy min=6")
}

func TestCart_AddOverwritesQuantity(t *testing.T) {
	a := newAPI(t, false)
	token := a.login("Bilal", models.RoleUser)

	line := gin.H{"foodId": "F1", "name": "Fries", "image": "f.png", "unitPrice": "10.00", "quantity": 1}
	w := a.do(http.MethodPost, "/api/cart", token, line)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c := decode[models.Cart](t, w)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 1, c.Lines[0].Quantity)

	line["quantity"] = 3
	w = a.do(http.MethodPost, "/api/cart", token, line)
	require.Equal(t, http.StatusOK, w.Code)
	c = decode[models.Cart](t, w)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)

	w = a.do(http.MethodGet, "/api/cart/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[service.CartSummary](t, w)
	assert.Equal(t, 3, sum.ItemCount)
	assert.True(t, sum.Subtotal.Equal(d("30")), sum.Subtotal.String())
	// default policy: flat 250 below the 2000 threshold
	assert.True(t, sum.ShippingFee.Equal(d("250")), sum.ShippingFee.String())
	assert.True(t, sum.Total.Equal(d("280")), sum.Total.String())

	w = a.do(http.MethodPost, "/api/cart", token, gin.H{"name": "no id", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart_RemoveAdjustClear(t *testing.T) {
	a := newAPI(t, false)
	token := a.login("Bilal", models.RoleUser)

	w := a.do(http.MethodDelete, "/api/cart/F1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "no cart yet")

	for _, id := range []string{"F1", "F2"} {
		w = a.do(http.MethodPost, "/api/cart", token, gin.H{"foodId": id, "unitPrice": "5", "quantity": 2})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = a.do(http.MethodPatch, "/api/cart/F1", token, gin.H{"delta": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c := decode[models.Cart](t, w)
	assert.Equal(t, 5, c.Lines[0].Quantity)

	w = a.do(http.MethodPatch, "/api/cart/F1", token, gin.H{"delta": -10})
	require.Equal(t, http.StatusOK, w.Code)
	c = decode[models.Cart](t, w)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "F2", c.Lines[0].FoodID)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPatch, "/api/cart/F2", token, gin.H{"delta": 0}).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPatch, "/api/cart/F9", token, gin.H{"delta": 1}).Code)

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/cart/F2", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/cart/F2", token, nil).Code)

	a.do(http.MethodPost, "/api/cart", token, gin.H{"foodId": "F3", "unitPrice": "5", "quantity": 1})
	w = a.do(http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[models.Cart](t, w).Lines)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/cart", "", nil).Code)
}

func TestShipping_PolicyAndQuote(t *testing.T) {
	a := newAPI(t, false)
	admin := a.login("Admin", models.RoleAdmin)
	user := a.login("Bilal", models.RoleUser)

	policy := gin.H{"mode": "flat", "flatRate": "250", "freeThresholdEnabled": true, "freeThresholdAmount": "2000"}
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPut, "/api/shipping", user, policy).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/api/shipping", admin, policy).Code)

	w := a.do(http.MethodPut, "/api/shipping", admin, gin.H{"mode": "teleport"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/shipping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ShippingFlat, decode[models.ShippingPolicy](t, w).Mode)

	for subtotal, fee := range map[string]string{"1500": "250", "2500": "0", "2000": "0"} {
		w = a.do(http.MethodGet, "/api/shipping/quote?subtotal="+subtotal, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		q := decode[service.Quote](t, w)
		assert.True(t, q.ShippingFee.Equal(d(fee)), "subtotal %s: fee %s", subtotal, q.ShippingFee)
		assert.True(t, q.Total.Equal(d(subtotal).Add(d(fee))))
	}

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/shipping/quote?subtotal=abc", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/shipping/quote?subtotal=-1", "", nil).Code)
}

func TestOrders_PlaceListTrack(t *testing.T) {
	a := newAPI(t, false)
	token := a.login("Bilal", models.RoleUser)

	w := a.do(http.MethodPost, "/api/orders", token, placeBody("150.00", 10))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[orderBody](t, w).Order
	assert.True(t, order.Subtotal.Equal(d("1500")))
	assert.True(t, order.ShippingFee.Equal(d("250")))
	assert.True(t, order.TotalPrice.Equal(d("1750")))
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.DefaultPaymentMethod, order.PaymentMethod)
	assert.Equal(t, service.TrackingRef(order.ID), order.TrackingRef)
	assert.Equal(t, 1, a.queue.Len(), "confirmation queued")

	w = a.do(http.MethodPost, "/api/orders", token, placeBody("250.00", 10))
	require.Equal(t, http.StatusCreated, w.Code)
	big := decode[orderBody](t, w).Order
	assert.True(t, big.ShippingFee.IsZero())
	assert.True(t, big.TotalPrice.Equal(d("2500")))

	w = a.do(http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[struct {
		Count  int            `json:"count"`
		Orders []models.Order `json:"orders"`
	}](t, w)
	assert.Equal(t, 2, mine.Count)

	w = a.do(http.MethodGet, "/api/track/"+strings.ToLower(order.TrackingRef), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, `"status":"Pending"`)
	assert.Contains(t, body, `"itemCount":10`)
	assert.NotContains(t, body, "Mall Rd")
	assert.NotContains(t, body, "unitPrice")

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/track/FD-NOPE0000", "", nil).Code)
}

func TestOrders_PlaceRejectsBadInput(t *testing.T) {
	a := newAPI(t, false)
	token := a.login("Bilal", models.RoleUser)

	body := placeBody("10", 1)
	body["lines"] = []gin.H{}
	w := a.do(http.MethodPost, "/api/orders", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no order items")

	body = placeBody("10", 1)
	body["shippingAddress"] = gin.H{"street": "5 Mall Rd"}
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/orders", token, body).Code)

	var n int64
	a.db.Model(&models.Order{}).Count(&n)
	assert.Zero(t, n)
	assert.Zero(t, a.queue.Len())
}

func TestOrders_TotalsSurviveCatalogChanges(t *testing.T) {
	a := newAPI(t, false)
	token := a.login("Bilal", models.RoleUser)
	require.NoError(t, a.db.Create(&models.Food{
		Base: models.Base{ID: "F1"}, Name: "Zinger Burger", Price: d("180"), Category: "Burgers",
	}).Error)

	w := a.do(http.MethodPost, "/api/orders", token, placeBody("180.00", 10))
	require.Equal(t, http.StatusCreated, w.Code)
	placed := decode[orderBody](t, w).Order
	require.True(t, placed.TotalPrice.Equal(d("2050")))

	require.NoError(t, a.db.Model(&models.Food{}).Where("id = ?", "F1").Update("price", d("50")).Error)

	w = a.do(http.MethodGet, "/api/orders/"+placed.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	again := decode[orderBody](t, w).Order
	assert.True(t, again.TotalPrice.Equal(d("2050")))
	assert.True(t, again.Lines[0].UnitPrice.Equal(d("180")))
}

func TestOrders_OwnershipAndCancel(t *testing.T) {
	a := newAPI(t, false)
	owner := a.login("Bilal", models.RoleUser)
	other := a.login("Zara", models.RoleUser)
	admin := a.login("Admin", models.RoleAdmin)

	w := a.do(http.MethodPost, "/api/orders", owner, placeBody("100", 1))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[orderBody](t, w).Order.ID

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/orders/"+id, other, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/orders/"+id, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/orders/missing", owner, nil).Code)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPut, "/api/orders/"+id+"/cancel", other, nil).Code)

	w = a.do(http.MethodPut, "/api/orders/"+id+"/cancel", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusCancelled, decode[orderBody](t, w).Order.Status)

	assert.Equal(t, http.StatusConflict, a.do(http.MethodPut, "/api/orders/"+id+"/cancel", owner, nil).Code)
}

func TestAdmin_StatusUpdatesAndStats(t *testing.T) {
	a := newAPI(t, false)
	user := a.login("Bilal", models.RoleUser)
	admin := a.login("Admin", models.RoleAdmin)

	w := a.do(http.MethodPost, "/api/orders", user, placeBody("500", 2))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[orderBody](t, w).Order.ID
	a.do(http.MethodPost, "/api/orders", user, placeBody("100", 1))

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/admin/stats", user, nil).Code)

	w = a.do(http.MethodPut, "/api/admin/orders/"+id+"/status", admin, gin.H{"status": "Delivered", "note": "left at door"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	delivered := decode[orderBody](t, w).Order
	assert.Equal(t, models.StatusDelivered, delivered.Status)
	assert.NotNil(t, delivered.DeliveredAt)

	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodPut, "/api/admin/orders/"+id+"/status", admin, gin.H{"status": "Lost"}).Code)

	w = a.do(http.MethodGet, "/api/admin/orders?status=Delivered", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[gin.H](t, w)["count"])

	w = a.do(http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[struct {
		TotalOrders   int                        `json:"totalOrders"`
		TotalRevenue  decimal.Decimal            `json:"totalRevenue"`
		TotalUsers    int                        `json:"totalUsers"`
		StatusSummary map[models.OrderStatus]int `json:"statusSummary"`
		RecentOrders  []models.Order             `json:"recentOrders"`
	}](t, w)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.Equal(d("1250")), stats.TotalRevenue.String())
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 1, stats.StatusSummary[models.StatusPending])
	assert.Equal(t, 0, stats.StatusSummary[models.StatusCooking])
	assert.Len(t, stats.RecentOrders, 2)
}

func TestAdmin_StrictTransitions(t *testing.T) {
	a := newAPI(t, true)
	user := a.login("Bilal", models.RoleUser)
	admin := a.login("Admin", models.RoleAdmin)

	w := a.do(http.MethodPost, "/api/orders", user, placeBody("100", 1))
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/admin/orders/" + decode[orderBody](t, w).Order.ID + "/status"

	require.Equal(t, http.StatusOK, a.do(http.MethodPut, path, admin, gin.H{"status": "Cooking"}).Code)
	w = a.do(http.MethodPut, path, admin, gin.H{"status": "Pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invalid transition")

	w = a.do(http.MethodGet, "/api/state-machine", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"strict":true`)
}

func TestAdmin_Users(t *testing.T) {
	a := newAPI(t, false)
	a.login("Bilal", models.RoleUser)
	admin := a.login("Admin", models.RoleAdmin)

	w := a.do(http.MethodGet, "/api/admin/users?role=user", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[struct {
		Users []models.User `json:"users"`
	}](t, w).Users
	require.Len(t, users, 1)
	id := users[0].ID

	w = a.do(http.MethodPut, "/api/admin/users/"+id+"/role", admin, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/api/admin/users/"+id+"/role", admin, gin.H{"role": "chef"}).Code)

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/admin/users/"+id, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/admin/users/"+id, admin, nil).Code)
}

func TestFoods_CRUDAndFilters(t *testing.T) {
	a := newAPI(t, false)
	admin := a.login("Admin", models.RoleAdmin)
	user := a.login("Bilal", models.RoleUser)

	food := gin.H{"name": "Zinger Burger", "description": "crispy", "price": "550", "image": "z.png", "category": "Burgers"}
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/foods", user, food).Code)

	w := a.do(http.MethodPost, "/api/foods", admin, food)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[struct {
		Food models.Food `json:"food"`
	}](t, w).Food.ID

	a.do(http.MethodPost, "/api/foods", admin, gin.H{"name": "Fries", "description": "salted", "price": "200", "image": "f.png", "category": "Sides"})

	food["price"] = "-1"
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/foods", admin, food).Code)

	w = a.do(http.MethodGet, "/api/foods?keyword=BURG", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[gin.H](t, w)["count"])

	w = a.do(http.MethodGet, "/api/foods?category=Sides", "", nil)
	assert.Equal(t, float64(1), decode[gin.H](t, w)["count"])
	w = a.do(http.MethodGet, "/api/foods?category=All", "", nil)
	assert.Equal(t, float64(2), decode[gin.H](t, w)["count"])

	w = a.do(http.MethodPut, "/api/foods/"+id, admin, gin.H{"price": "600", "status": "Out of Stock"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct {
		Food models.Food `json:"food"`
	}](t, w).Food
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, "Zinger Burger", updated.Name, "absent fields keep their values")
	assert.True(t, updated.Price.Equal(d("600")))
	assert.Equal(t, models.FoodOutOfStock, updated.Status)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/api/foods/"+id, admin, gin.H{"status": "Sold"}).Code)

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/foods/"+id, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/foods/"+id, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/foods/"+id, admin, nil).Code)
}

func TestCategories_UniqueName(t *testing.T) {
	a := newAPI(t, false)
	admin := a.login("Admin", models.RoleAdmin)

	cat := gin.H{"name": "Burgers", "image": "b.png"}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/categories", admin, cat).Code)
	cat["name"] = " burgers "
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/categories", admin, cat).Code)

	w := a.do(http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, float64(1), decode[gin.H](t, w)["count"])
}

func TestDeals_InactiveHiddenFromCustomers(t *testing.T) {
	a := newAPI(t, false)
	admin := a.login("Admin", models.RoleAdmin)
	user := a.login("Bilal", models.RoleUser)

	deal := gin.H{"name": "Family Feast", "items": "4 burgers", "dealPrice": "1999", "originalPrice": "2400", "image": "d.png"}
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/deals", admin, deal).Code)
	w := a.do(http.MethodPost, "/api/deals", admin, deal)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[struct {
		Deal models.Deal `json:"deal"`
	}](t, w).Deal.ID
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/api/deals/"+id, admin, gin.H{"active": false}).Code)

	count := func(token string) float64 {
		w := a.do(http.MethodGet, "/api/deals", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		return decode[gin.H](t, w)["count"].(float64)
	}
	assert.Equal(t, float64(1), count(""))
	assert.Equal(t, float64(1), count(user))
	assert.Equal(t, float64(2), count(admin))
}

func TestContent_BannersAndBlogs(t *testing.T) {
	a := newAPI(t, false)
	admin := a.login("Admin", models.RoleAdmin)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/banners", admin, gin.H{"title": "50% off", "image": "b.png"}).Code)
	assert.Equal(t, float64(1), decode[gin.H](t, a.do(http.MethodGet, "/api/banners", "", nil))["count"])

	w := a.do(http.MethodPost, "/api/blogs", admin, gin.H{"title": "Spice", "content": "...", "image": "s.png"})
	require.Equal(t, http.StatusCreated, w.Code)
	blog := decode[struct {
		Blog models.Blog `json:"blog"`
	}](t, w).Blog
	assert.Equal(t, "Admin", blog.Author)

	w = a.do(http.MethodGet, "/api/blogs/"+blog.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Spice"`)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/blogs", admin, gin.H{"title": "no body"}).Code)
}

func TestReviews_RefreshFoodRating(t *testing.T) {
	a := newAPI(t, false)
	admin := a.login("Admin", models.RoleAdmin)
	bilal := a.login("Bilal", models.RoleUser)
	zara := a.login("Zara", models.RoleUser)
	require.NoError(t, a.db.Create(&models.Food{Base: models.Base{ID: "F1"}, Name: "Zinger", Price: d("550"), Category: "Burgers"}).Error)

	w := a.do(http.MethodPost, "/api/reviews", bilal, gin.H{"foodId": "F1", "rating": 4, "comment": "good"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	review := decode[struct {
		Review models.Review `json:"review"`
	}](t, w).Review
	assert.Equal(t, "Bilal", review.UserName)
	assert.Equal(t, "Zinger", review.FoodName)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/reviews", zara, gin.H{"foodId": "F1", "rating": 5, "comment": "great"}).Code)

	var food models.Food
	require.NoError(t, a.db.First(&food, "id = ?", "F1").Error)
	assert.InDelta(t, 4.5, food.Rating, 0.001)
	assert.Equal(t, 2, food.NumReviews)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/reviews", bilal, gin.H{"foodId": "F9", "rating": 3, "comment": "?"}).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/reviews", bilal, gin.H{"foodId": "F1", "rating": 9, "comment": "!"}).Code)

	w = a.do(http.MethodGet, "/api/reviews?foodId=F1", "", nil)
	assert.Equal(t, float64(2), decode[gin.H](t, w)["count"])

	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/reviews/"+review.ID, admin, nil).Code)
	require.NoError(t, a.db.First(&food, "id = ?", "F1").Error)
	assert.InDelta(t, 5.0, food.Rating, 0.001)
	assert.Equal(t, 1, food.NumReviews)
}

func TestPublic_HealthAndStateMachine(t *testing.T) {
	a := newAPI(t, false)

	w := a.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = a.do(http.MethodGet, "/api/state-machine", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"strict":false`)
	assert.Contains(t, body, `"Out for Delivery"`)
}
