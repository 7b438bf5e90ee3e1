package easyapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// DefaultKey is the cache key used for calls that carry no argument.
const DefaultKey = "default"

const delimiter = "|"

// ErrUnkeyable is returned when a call argument cannot be serialized into a
// cache key.
var ErrUnkeyable = errors.New("easyapi: argument cannot be used as a cache key")

// NoArg is the argument type for operations that take no input.
// Every NoArg call maps to DefaultKey.
type NoArg struct{}

// DeriveKey returns the stable serialization of arg used to index the cache.
//
// Structurally equal arguments always produce the same key: maps are encoded
// with sorted keys and struct fields in declaration order. A nil argument and
// NoArg{} both map to DefaultKey.
func DeriveKey(arg any) (string, error) {
	switch arg.(type) {
	case nil, NoArg, *NoArg:
		return DefaultKey, nil
	}
	b, err := json.Marshal(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnkeyable, err)
	}
	return string(b), nil
}

// namespaceFor encodes the result type so that orchestrators with different
// result types never read each other's entries.
func namespaceFor[T any]() string {
	return reflect.TypeFor[T]().String()
}

func fullKey(namespace string, arg any) (string, error) {
	k, err := DeriveKey(arg)
	if err != nil {
		return "", err
	}
	return namespace + delimiter + k, nil
}
