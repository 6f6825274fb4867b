package storage

import (
	"reflect"

	"go.mongodb.org/mongo-driver/mongo"
)

func init() {
	RegisterClient(isClient, asClient)
	RegisterClient(isMongoClient, newMongoClientFrom)
	RegisterClient(isMongoDatabase, newMongoClientFromDatabase)
}

func isClient(conn any) bool {
	c, ok := conn.(Client)
	return ok && !isNil(c)
}

// isNil also reports typed nils held in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func asClient(conn any) (Client, error) {
	return conn.(Client), nil
}

func isMongoClient(conn any) bool {
	c, ok := conn.(*mongo.Client)
	return ok && c != nil
}

func newMongoClientFrom(conn any) (Client, error) {
	return NewMongoClient(conn.(*mongo.Client)), nil
}

func isMongoDatabase(conn any) bool {
	db, ok := conn.(*mongo.Database)
	return ok && db != nil
}

func newMongoClientFromDatabase(conn any) (Client, error) {
	return NewMongoClient(conn.(*mongo.Database).Client()), nil
}
