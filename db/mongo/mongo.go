package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client *mongo.Client
	URL    string
	Name   string
}

func NewMongoDB(url, name string) *MongoDB {
	return &MongoDB{URL: url, Name: name}
}

// Connect dials the server and waits for it to answer a ping.
func (m *MongoDB) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(m.URL).
		SetAppName("empresspc").
		SetMaxPoolSize(50)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}
	m.Client = client
	return m.Ping(ctx)
}

func (m *MongoDB) Ping(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("mongo: not connected")
	}
	return m.Client.Ping(ctx, nil)
}

// Database returns the application database on the connected client.
func (m *MongoDB) Database() *mongo.Database {
	return m.Client.Database(m.Name)
}

func (m *MongoDB) Disconnect() error {
	if m.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}
