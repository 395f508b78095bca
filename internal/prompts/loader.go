// Package prompts provides a loader for externalized LLM prompt templates.
// Prompts are stored as JSON files and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// FitFile holds every prompt used by the evaluation stages
const FitFile = "fit.json"

// Key names a prompt in FitFile
type Key string

const (
	ParseRequirements Key = "parse-requirements"
	InferRequirements Key = "infer-requirements"
	CheckAlignment    Key = "check-alignment"
	ExtractProfile    Key = "extract-profile"
	JudgeFit          Key = "judge-fit"
	EvaluateCulture   Key = "evaluate-culture"
	WriteFeedback     Key = "write-feedback"
)

// FitKeys lists every prompt the evaluation stages render
func FitKeys() []Key {
	return []Key{ParseRequirements, InferRequirements, CheckAlignment, ExtractProfile, JudgeFit, EvaluateCulture, WriteFeedback}
}

// RenderFit fills a prompt from FitFile
func RenderFit(key Key, data map[string]string) (string, error) {
	return Render(FitFile, string(key), data)
}

//go:embed *.json
var promptFiles embed.FS

// cache stores parsed prompt files to avoid repeated JSON parsing
var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves a prompt by filename and key.
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, exists := prompts[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}

	return prompt, nil
}

// Render loads a prompt and fills its placeholders. Placeholders without a value are
// reported as an error so a stage never sends a half-filled prompt.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	out := Format(template, data)
	if idx := strings.Index(out, "{{."); idx >= 0 {
		end := strings.Index(out[idx:], "}}")
		if end > 0 {
			return "", fmt.Errorf("prompt %s/%s: missing value for %s", filename, key, out[idx:idx+end+2])
		}
	}
	return out, nil
}

// Format replaces template placeholders in the form {{.Key}} with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// loadFile loads and caches a prompt file.
func loadFile(filename string) (map[string]string, error) {
	cacheMu.RLock()
	if prompts, exists := cache[filename]; exists {
		cacheMu.RUnlock()
		return prompts, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	cacheMu.Lock()
	cache[filename] = prompts
	cacheMu.Unlock()

	return prompts, nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}
