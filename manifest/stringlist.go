package manifest

import "encoding/json"

// StringList unmarshals from either a single JSON string or an array of
// strings, since manifest authors write "bin": "app.exe" for a single
// value and "bin": ["a.exe", "b.exe"] for several — the same field, two
// surface shapes.
type StringList []string

var _ json.Unmarshaler = (*StringList)(nil)

func (s *StringList) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

func (s StringList) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}
