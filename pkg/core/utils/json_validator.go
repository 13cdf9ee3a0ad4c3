package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON attempts to fix common JSON errors in payloads produced by
// upstream extraction services.
// Uses github.com/RealAlexandreAI/json-repair for intelligent repair.
// Supported repairs:
// - Missing quotes around keys
// - Single quotes instead of double quotes
// - Unclosed arrays/objects
// - Trailing commas
// - Leading/trailing whitespace and markdown code blocks
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (Hjson) and returns standard JSON.
// Hjson supports comments, unquoted keys and optional commas, which makes it
// a good last resort for hand-edited payload files.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	err := hjson.Unmarshal([]byte(hjsonData), &result)
	if err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}

	return string(jsonBytes), nil
}

// NormalizeJSON returns a strictly valid JSON document for input.
// Order of attempts:
// 1. Input as-is
// 2. JSON repair
// 3. Hjson parse (most lenient)
func NormalizeJSON(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("JSON_EMPTY_INPUT")
	}

	if json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	if repaired, err := RepairJSON(trimmed); err == nil && json.Valid([]byte(repaired)) && strings.TrimSpace(repaired) != `""` {
		return repaired, nil
	}

	converted, err := ParseHJSON(trimmed)
	if err != nil {
		return "", fmt.Errorf("all parsing strategies failed: %w", err)
	}
	return converted, nil
}

// SmartParse normalizes input with NormalizeJSON and decodes it into target.
// The target is decoded exactly once, so a failed strategy never leaves
// partial data behind.
func SmartParse(input string, target interface{}) error {
	normalized, err := NormalizeJSON(input)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(normalized), target); err != nil {
		return fmt.Errorf("JSON_STRUCTURAL_ERROR: %v", err)
	}
	return nil
}
