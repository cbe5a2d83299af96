package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"google.golang.org/genai"
)

var ErrUnknownFunction = errors.New("unknown tool function")

// Tool is a capability granted to the agent for one run. A tool exposes one or
// more functions the model may call.
type Tool interface {
	Name() string
	// Instructions is appended to the system instruction. It may be empty.
	Instructions() string
	Declarations() []*genai.FunctionDeclaration
	Call(ctx context.Context, function string, args map[string]any) (any, error)
}

// Toolbox routes function calls to the tool that declared them.
type Toolbox struct {
	tools []Tool
	index map[string]Tool
}

func NewToolbox(tools ...Tool) (*Toolbox, error) {
	box := &Toolbox{index: make(map[string]Tool)}
	for _, tool := range tools {
		if tool == nil {
			continue
		}
		for _, decl := range tool.Declarations() {
			if owner, exists := box.index[decl.Name]; exists {
				return nil, fmt.Errorf("function %q declared by both %s and %s", decl.Name, owner.Name(), tool.Name())
			}
			box.index[decl.Name] = tool
		}
		box.tools = append(box.tools, tool)
	}
	return box, nil
}

// GenAITools returns the declarations in the shape the model expects, or nil
// when no tool was granted.
func (b *Toolbox) GenAITools() []*genai.Tool {
	var decls []*genai.FunctionDeclaration
	for _, tool := range b.tools {
		decls = append(decls, tool.Declarations()...)
	}
	if len(decls) == 0 {
		return nil
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func (b *Toolbox) Instructions() string {
	var parts []string
	for _, tool := range b.tools {
		if text := strings.TrimSpace(tool.Instructions()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Functions lists every callable function name, sorted.
func (b *Toolbox) Functions() []string {
	names := make([]string, 0, len(b.index))
	for name := range b.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Owner returns the name of the tool that declared function.
func (b *Toolbox) Owner(function string) string {
	if tool, ok := b.index[function]; ok {
		return tool.Name()
	}
	return ""
}

// Invoke runs a function and always returns a response map for the model:
// {"output": ...} on success, {"error": ...} on failure. The error is returned
// as well so callers can record it.
func (b *Toolbox) Invoke(ctx context.Context, function string, args map[string]any) (map[string]any, error) {
	tool, ok := b.index[function]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownFunction, function)
		return map[string]any{"error": err.Error()}, err
	}

	output, err := tool.Call(ctx, function, args)
	if err != nil {
		return map[string]any{"error": err.Error()}, err
	}
	return map[string]any{"output": output}, nil
}

func stringArg(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func requiredStringArg(args map[string]any, key string) (string, error) {
	value := stringArg(args, key)
	if value == "" {
		return "", fmt.Errorf("argument %q is required", key)
	}
	return value, nil
}

// intArg reads a numeric argument, clamped to [1, max]. JSON numbers arrive as float64.
func intArg(args map[string]any, key string, def, max int) int {
	n := def
	switch v := args[key].(type) {
	case float64:
		n = int(math.Round(v))
	case int:
		n = v
	case int32:
		n = int(v)
	case int64:
		n = int(v)
	}
	if n < 1 {
		n = def
	}
	if n > max {
		n = max
	}
	return n
}

func boolArg(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return false
}

func splitFullName(fullName string) (string, string, error) {
	owner, repo, ok := strings.Cut(strings.Trim(fullName, "/ "), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repository must be in owner/name form, got %q", fullName)
	}
	return owner, repo, nil
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func objectSchema(required []string, properties map[string]*genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}

func stringProp(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: description}
}

func intProp(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeInteger, Description: description}
}

func boolProp(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeBoolean, Description: description}
}
