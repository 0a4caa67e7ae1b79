package httpapi

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
