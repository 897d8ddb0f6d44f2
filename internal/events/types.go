package events

import (
	"time"

	"github.com/gorilla/websocket"
)

// EventType represents the type of event broadcast to clients
type EventType string

const (
	// EventTypeAnalysis represents a completed document analysis
	EventTypeAnalysis EventType = "analysis"
	// EventTypeRequestLog represents a request logging event
	EventTypeRequestLog EventType = "request_log"
	// EventTypeConnection represents client connect/disconnect events
	EventTypeConnection EventType = "connection"
)

// Event is the envelope sent to connected clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// AnalysisEvent summarizes one completed document analysis
type AnalysisEvent struct {
	RequestID       string  `json:"request_id"`
	Path            string  `json:"path"`
	WordCount       int     `json:"word_count"`
	TotalConcerns   int     `json:"total_concerns"`
	CategoriesFound int     `json:"categories_found"`
	RiskLevel       string  `json:"risk_level"`
	SummarySource   string  `json:"summary_source,omitempty"`
	ProcessingMS    float64 `json:"processing_ms"`
}

// RequestLogEvent represents a request logging event
type RequestLogEvent struct {
	RequestID    string        `json:"request_id"`
	Method       string        `json:"method"`
	Path         string        `json:"path"`
	StatusCode   int           `json:"status_code"`
	ClientIP     string        `json:"client_ip"`
	UserAgent    string        `json:"user_agent,omitempty"`
	Duration     time.Duration `json:"duration"`
	RequestSize  int64         `json:"request_size"`
	ResponseSize int64         `json:"response_size"`
}

// ConnectionEvent represents client connection events
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	ClientIP string `json:"client_ip"`
	Message  string `json:"message,omitempty"`
}

// ClientMessage represents messages sent from clients to the server
type ClientMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SubscriptionRequest narrows which event types a client receives
type SubscriptionRequest struct {
	Events []EventType `json:"events"`
}

// Client represents one connected dashboard client
type Client struct {
	ID           string
	Conn         *websocket.Conn
	Send         chan Event
	Subscription *SubscriptionRequest
	ConnectedAt  time.Time
	LastPing     time.Time
	IP           string
	UserAgent    string
}
