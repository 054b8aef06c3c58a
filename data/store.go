package data

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// Store hands out collections and guards calls with the circuit breaker.
// *connection.MongoManager implements it.
type Store interface {
	Collection(name string) (*mongo.Collection, error)
	Execute(fn func() error) error
}

// Run resolves the named collection and runs fn through the breaker.
func Run(s Store, name string, fn func(coll *mongo.Collection) error) error {
	return s.Execute(func() error {
		coll, err := s.Collection(name)
		if err != nil {
			return err
		}
		return fn(coll)
	})
}

// ProvideStore exposes the MongoDB manager as a Store
func ProvideStore(d *Data) Store {
	return d.Mongo
}
