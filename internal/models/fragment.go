package models

// FragmentKind classifies one incremental piece of agent output.
type FragmentKind string

const (
	FragmentContent    FragmentKind = "content"
	FragmentThought    FragmentKind = "thought"
	FragmentToolCall   FragmentKind = "tool_call"
	FragmentToolResult FragmentKind = "tool_result"
	FragmentStatus     FragmentKind = "status"
)

type Fragment struct {
	Kind   FragmentKind `json:"kind"`
	Text   string       `json:"text,omitempty"`
	Tool   string       `json:"tool,omitempty"`
	Failed bool         `json:"failed,omitempty"`
}

// IsText reports whether the fragment belongs in the report body.
func (f Fragment) IsText() bool {
	return f.Kind == FragmentContent
}

func ContentFragment(text string) Fragment {
	return Fragment{Kind: FragmentContent, Text: text}
}
