package cache

import (
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"
)

// Encode writes v as indented UTF-8 JSON so cached payloads stay readable in redis-cli
func Encode[T any](v T) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode %T: %w", ErrSerialization, v, err)
	}
	return data, nil
}

// Decode reads a payload produced by Encode. Comments and trailing commas are tolerated.
func Decode[T any](data []byte) (T, error) {
	var v T

	ast, err := hujson.Parse(data)
	if err != nil {
		return v, fmt.Errorf("%w: parse %T: %w", ErrSerialization, v, err)
	}
	ast.Standardize()

	if err := json.Unmarshal(ast.Pack(), &v); err != nil {
		return v, fmt.Errorf("%w: decode %T: %w", ErrSerialization, v, err)
	}
	return v, nil
}
