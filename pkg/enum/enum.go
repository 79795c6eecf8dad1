package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	mu          sync.RWMutex
	enumManager = map[reflect.Type]map[string]any{}
)

// New registers value as a member of its enum type and returns it unchanged.
func New[T ~string](value T) T {
	mu.Lock()
	defer mu.Unlock()

	t := reflect.TypeOf(value)
	if _, ok := enumManager[t]; !ok {
		enumManager[t] = map[string]any{}
	}

	enumManager[t][string(value)] = value
	return value
}

// ToEnum converts s to a registered member of the enum type T.
func ToEnum[T ~string](s string) (T, error) {
	mu.RLock()
	defer mu.RUnlock()

	var defaultT T
	members, ok := enumManager[reflect.TypeOf(defaultT)]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	v, ok := members[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return v.(T), nil
}

// IsValid reports whether value is a registered member of its enum type.
func IsValid[T ~string](value T) bool {
	_, err := ToEnum[T](string(value))
	return err == nil
}
