package mcp

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

// bindArguments decodes tool arguments into target using json tags. Clients
// often send every parameter as a string, so "2" binds to an int field and
// "true" to a bool field.
func bindArguments[T any](request mcp.CallToolRequest, target *T) error {
	coerceStrings := func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		raw := strings.TrimSpace(data.(string))
		if raw == "" {
			return data, nil
		}

		switch {
		case to.Kind() == reflect.Bool:
			if raw == "true" || raw == "false" {
				return raw == "true", nil
			}
		case to.Kind() >= reflect.Int && to.Kind() <= reflect.Float64:
			var n json.Number
			if err := json.Unmarshal([]byte(raw), &n); err == nil {
				return n, nil
			}
		}
		return data, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(coerceStrings),
		Result:           target,
		TagName:          "json",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(request.GetArguments())
}

// marshalToolResponse returns v as a JSON text result (mcp-go convention).
func marshalToolResponse(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
