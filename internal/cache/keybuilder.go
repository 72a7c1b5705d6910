package cache

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
)

const collectionSuffix = "-collection"

// EntityKey builds the key of a single entity, e.g. "product:<id>"
func EntityKey(entity string, id fmt.Stringer) string {
	return fmt.Sprintf("%s:%s", entity, id.String())
}

// CollectionKey builds the key that guards every list of an entity, e.g. "product-collection"
func CollectionKey(entity string) string {
	return entity + collectionSuffix
}

// StaleOnCreate returns the keys made stale by creating an entity.
// No entity key can be cached yet, only lists are affected.
func StaleOnCreate(entity string) []string {
	return []string{CollectionKey(entity)}
}

// StaleOnUpdate returns the keys made stale by updating an entity
func StaleOnUpdate(entity string, id fmt.Stringer) []string {
	return []string{EntityKey(entity, id), CollectionKey(entity)}
}

// StaleOnDelete returns the keys made stale by deleting an entity
func StaleOnDelete(entity string, id fmt.Stringer) []string {
	return []string{EntityKey(entity, id), CollectionKey(entity)}
}

// ParamsHash returns the md5 hex digest of the JSON form of params
func ParamsHash(params interface{}) (string, error) {
	if params == nil {
		return "", nil
	}

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to marshal params: %w", err)
	}

	hasher := md5.New()
	hasher.Write(paramsJSON)
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// BuildListKey creates the key of one parameterized list result: collection:generation:paramsHash
func BuildListKey(collectionKey, generation string, params interface{}) (string, error) {
	if collectionKey == "" {
		return "", errors.New("collection key cannot be empty")
	}

	if generation == "" {
		return "", errors.New("generation cannot be empty")
	}

	paramsHash, err := ParamsHash(params)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s:%s:%s", collectionKey, generation, paramsHash), nil
}
