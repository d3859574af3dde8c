package gemini

import (
	"encoding/json"

	"github.com/kaptinlin/jsonrepair"
)

// unmarshalRepair unmarshals JSON data into v, attempting to repair malformed
// JSON before giving up. Schema-constrained generation output is usually
// valid, but truncated or fenced responses still occur.
func unmarshalRepair(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return err
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}
