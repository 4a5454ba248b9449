package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ApiClient handles requests to the Douce Tentation order server.
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client. DOUCE_API_URL overrides the
// default local server address.
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("DOUCE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the order server is up.
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("health check failed with status code: %d", resp.StatusCode)
	}
	return true, nil
}

// Order mirrors the server's order shape.
type Order struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Size        string      `json:"size"`
	Client      string      `json:"client"`
	Phone       string      `json:"phone"`
	Date        string      `json:"date"`
	Time        string      `json:"time"`
	Source      string      `json:"source"`
	Notes       string      `json:"notes"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
	Supplements []string    `json:"supplements"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions"`
	Category     string `json:"category,omitempty"`
}

// SyncResult is the server's response to a sync trigger.
type SyncResult struct {
	Success        bool   `json:"success"`
	NewOrdersCount int    `json:"newOrdersCount"`
	Error          string `json:"error"`
}

// GetOrders fetches every order.
func (c *ApiClient) GetOrders() ([]Order, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/api/orders")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing orders failed with status code: %d", resp.StatusCode)
	}

	var orders []Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("decoding orders: %w", err)
	}
	return orders, nil
}

// GetOrder fetches one order by id.
func (c *ApiClient) GetOrder(id string) (*Order, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/api/orders/" + id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("order %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("loading order failed with status code: %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decoding order: %w", err)
	}
	return &order, nil
}

// CreateOrder submits a new staff order.
func (c *ApiClient) CreateOrder(order Order) (*Order, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(c.BaseURL+"/api/orders", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("creating order failed with status code: %d", resp.StatusCode)
	}

	var created Order
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decoding created order: %w", err)
	}
	return &created, nil
}

// SyncNow asks the server to run one sync cycle against the ordering
// platform and reports how many new orders arrived.
func (c *ApiClient) SyncNow() (*SyncResult, error) {
	resp, err := c.httpClient.Post(c.BaseURL+"/api/orders/sync", "application/json", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result SyncResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding sync result: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if result.Error != "" {
			return nil, fmt.Errorf("%s", result.Error)
		}
		return nil, fmt.Errorf("sync failed with status code: %d", resp.StatusCode)
	}
	return &result, nil
}
