package models

import "encoding/json"

// Tag is a tag vocabulary entry. The backend sometimes returns bare strings
// and sometimes {id, name} objects; UnmarshalJSON accepts both.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Name = s
		return nil
	}

	type alias Tag
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*t = Tag(a)
	return nil
}

// TagNames is a memory's tag set. Accepted wire forms per element:
// a bare string, a {name} object, or a memory_tags join row {tags: {name}}.
type TagNames []string

func (tn *TagNames) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an array at all; render no tags instead of failing the record.
		*tn = nil
		return nil
	}

	names := make([]string, 0, len(raw))
	for _, el := range raw {
		var s string
		if err := json.Unmarshal(el, &s); err == nil {
			names = append(names, s)
			continue
		}
		var obj struct {
			Name string `json:"name"`
			Tags struct {
				Name string `json:"name"`
			} `json:"tags"`
		}
		if err := json.Unmarshal(el, &obj); err != nil {
			continue
		}
		switch {
		case obj.Name != "":
			names = append(names, obj.Name)
		case obj.Tags.Name != "":
			names = append(names, obj.Tags.Name)
		}
	}
	*tn = names
	return nil
}
