package notes

import "encoding/json"

// OptionalString remembers whether a JSON field was present and whether it
// was an explicit null.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		o.Value = ""
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Some returns a present, non-null OptionalString.
func Some(v string) OptionalString {
	return OptionalString{Set: true, Value: v}
}

// Null returns a present OptionalString holding JSON null.
func Null() OptionalString {
	return OptionalString{Set: true, Null: true}
}

// NoteInput is the body of POST and PUT requests. Tags stays raw so that a
// non-array value can be told apart from a malformed element.
type NoteInput struct {
	Title    OptionalString  `json:"title"`
	Content  OptionalString  `json:"content"`
	FolderID OptionalString  `json:"folderId"`
	Tags     json.RawMessage `json:"tags"`
}

// TagsArray builds a raw tags value from ids. Handy for callers that do not
// come from JSON.
func TagsArray(ids ...string) json.RawMessage {
	if ids == nil {
		ids = []string{}
	}
	raw, _ := json.Marshal(ids)
	return raw
}

func (in NoteInput) hasTitle() bool {
	return in.Title.Set && !in.Title.Null && in.Title.Value != ""
}

// ListParams are the query parameters accepted by List.
type ListParams struct {
	SearchTerm string `form:"searchTerm"`
	FolderID   string `form:"folderId"`
	TagID      string `form:"tagId"`
}
