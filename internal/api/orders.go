// Package api exposes the orders HTTP interface consumed by the calendar
// front-end and the staff CLI.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"doucetentation/internal/models"
	"doucetentation/internal/monitoring"
	"doucetentation/internal/pricing"
	"doucetentation/internal/store"
	"doucetentation/internal/syncer"
)

// OrdersAPI wires the order store, sync engine and price calculator behind
// gin routes.
type OrdersAPI struct {
	Router  *gin.Engine
	store   store.OrderStore
	engine  *syncer.Engine
	monitor *monitoring.SyncMonitor
	pricer  *pricing.Calculator
	log     *zap.Logger
}

// NewOrdersAPI creates the API and registers its routes.
func NewOrdersAPI(st store.OrderStore, engine *syncer.Engine, monitor *monitoring.SyncMonitor, pricer *pricing.Calculator, log *zap.Logger) *OrdersAPI {
	if pricer == nil {
		pricer = pricing.New(nil)
	}
	if log == nil {
		log = zap.NewNop()
	}

	a := &OrdersAPI{
		Router:  gin.Default(),
		store:   st,
		engine:  engine,
		monitor: monitor,
		pricer:  pricer,
		log:     log,
	}
	a.setupRoutes()
	return a
}

func (a *OrdersAPI) setupRoutes() {
	a.Router.GET("/health", a.Health)

	orders := a.Router.Group("/api/orders")
	{
		orders.GET("", a.ListOrders)
		orders.POST("", a.CreateOrder)
		orders.GET("/sync", a.SyncNow)
		orders.POST("/sync", a.SyncNow)
		orders.GET("/backup/download", a.DownloadBackup)
		orders.GET("/:id", a.GetOrder)
		orders.GET("/:id/price", a.GetOrderPrice)
		orders.PUT("/:id", a.UpdateOrder)
		orders.DELETE("/:id", a.DeleteOrder)
	}
}

// Health reports liveness plus the sync engine counters.
func (a *OrdersAPI) Health(c *gin.Context) {
	payload := gin.H{"status": "ok"}
	if a.monitor != nil {
		payload["sync"] = a.monitor.Snapshot()
	}
	c.JSON(http.StatusOK, payload)
}

// ListOrders returns every order with its items.
func (a *OrdersAPI) ListOrders(c *gin.Context) {
	orders, err := a.store.GetAll()
	if err != nil {
		a.log.Error("listing orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order by id.
func (a *OrdersAPI) GetOrder(c *gin.Context) {
	order, err := a.store.Get(c.Param("id"))
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		a.log.Error("loading order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateOrder stores a staff-entered order. Missing id, source and status
// get defaults; item quantities are clamped to at least one.
func (a *OrdersAPI) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Source == "" {
		order.Source = models.SourceManual
	}
	if order.Status == "" {
		order.Status = models.StatusAccepted
	}
	for i := range order.Items {
		if order.Items[i].Quantity < 1 {
			order.Items[i].Quantity = 1
		}
	}

	created, err := a.store.Create(order)
	if err != nil {
		a.log.Error("creating order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateOrder replaces an order's fields. Only staff edits go through
// here; the sync engine never updates existing orders.
func (a *OrdersAPI) UpdateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := a.store.Update(c.Param("id"), order)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		a.log.Error("updating order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteOrder removes an order.
func (a *OrdersAPI) DeleteOrder(c *gin.Context) {
	deleted, err := a.store.Delete(c.Param("id"))
	if err != nil {
		a.log.Error("deleting order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SyncNow triggers one synchronous sync cycle against the upstream
// platform and reports how many net-new orders were imported.
func (a *OrdersAPI) SyncNow(c *gin.Context) {
	count, err := a.engine.SyncNow(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"newOrdersCount": count,
	})
}

// DownloadBackup streams all orders as an attached JSON document.
func (a *OrdersAPI) DownloadBackup(c *gin.Context) {
	orders, err := a.store.GetAll()
	if err != nil {
		a.log.Error("building backup", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Download failed"})
		return
	}

	filename := "douce_tentation_backup_" + time.Now().UTC().Format("2006-01-02T15-04-05") + ".json"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.IndentedJSON(http.StatusOK, orders)
}

// GetOrderPrice computes the estimated price of each item of an order and
// the order total.
func (a *OrdersAPI) GetOrderPrice(c *gin.Context) {
	order, err := a.store.Get(c.Param("id"))
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		a.log.Error("loading order for pricing", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	type itemPrice struct {
		Name     string          `json:"name"`
		Quantity int             `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
	}
	items := make([]itemPrice, 0, len(order.Items))
	total := decimal.Zero
	for _, item := range order.Items {
		price := a.pricer.ItemPrice(item, order.Size)
		total = total.Add(price)
		items = append(items, itemPrice{Name: item.Name, Quantity: item.Quantity, Price: price})
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id": order.ID,
		"items":    items,
		"total":    total,
	})
}
