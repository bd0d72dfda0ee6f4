// Package galadb owns the MongoDB client handle and its heartbeat-driven
// connection-state notifications.
package galadb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const serverSelectionTimeout = 5 * time.Second

// ErrNotConnected is returned by Collection before the first successful dial.
var ErrNotConnected = errors.New("database not connected")

type Config struct {
	URI      string
	Database string
}

// DB wraps the shared mongo client. Connect replaces the handle wholesale;
// readers go through Collection.
type DB struct {
	cfg Config

	mu       sync.Mutex
	notify   func(ready bool)
	client   *mongo.Client
	database *mongo.Database
}

func New(cfg Config) *DB {
	return &DB{cfg: cfg}
}

// OnStateChange registers the listener invoked with heartbeat results.
// Call it before Connect.
func (d *DB) OnStateChange(fn func(ready bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notify = fn
}

// Connect discards any stale handle, dials, and verifies the server with a
// ping before publishing the new handle.
func (d *DB) Connect(ctx context.Context) error {
	d.mu.Lock()
	prev := d.client
	d.client = nil
	d.database = nil
	d.mu.Unlock()

	if prev != nil {
		_ = prev.Disconnect(ctx)
	}

	opts := options.Client().
		ApplyURI(d.cfg.URI).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetServerMonitor(d.monitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("unable to open client for %v: %w", redact(d.cfg.URI), err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("unable to reach %v: %w", redact(d.cfg.URI), err)
	}

	d.mu.Lock()
	d.client = client
	d.database = client.Database(d.cfg.Database)
	d.mu.Unlock()
	return nil
}

func (d *DB) Collection(name string) (*mongo.Collection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.database == nil {
		return nil, ErrNotConnected
	}
	return d.database.Collection(name), nil
}

func (d *DB) monitor() *event.ServerMonitor {
	return &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
			d.notifyState(true)
		},
		ServerHeartbeatFailed: func(*event.ServerHeartbeatFailedEvent) {
			d.notifyState(false)
		},
	}
}

func (d *DB) notifyState(ready bool) {
	d.mu.Lock()
	fn := d.notify
	connected := d.database != nil
	d.mu.Unlock()

	// heartbeats can fire mid-dial, before the handle is published; a
	// "ready" signal for a handle we haven't accepted yet is meaningless
	if fn == nil || (ready && !connected) {
		return
	}
	fn(ready)
}

// redact strips credentials from a connection string before it can appear in
// an error message.
func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "database"
	}
	return u.Redacted()
}
