package hash

import "encoding/json"

// List unmarshals from either a single hash string or an array of hash
// strings, mirroring manifest.StringList's string-or-array leniency for
// the "hash" field.
type List []Hash

var _ json.Unmarshaler = (*List)(nil)

func (l *List) UnmarshalJSON(b []byte) error {
	var single Hash
	if err := single.UnmarshalJSON(b); err == nil {
		*l = List{single}
		return nil
	}
	var many []Hash
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*l = List(many)
	return nil
}

func (l List) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return l[0].MarshalJSON()
	}
	return json.Marshal([]Hash(l))
}
