// pkg/codec/jsoncodec.go
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

type jsonStrict struct{}

// JSONStrict rejects unknown fields and trailing content on decode.
var JSONStrict Codec = jsonStrict{}

func (jsonStrict) Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonStrict) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	// Probe for trailing data (must be EOF)
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return errors.New("json trailing content")
	}
	return nil
}

func (jsonStrict) ContentType() string { return "application/json" }

// ErrBodyTooLarge is returned by ReadRequest when the body exceeds the limit.
var ErrBodyTooLarge = errors.New("request body too large")

// ReadRequest decodes at most limit bytes of r.Body with c.
func ReadRequest(c Codec, r *http.Request, limit int64, v any) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	b, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > limit {
		return ErrBodyTooLarge
	}
	return c.Unmarshal(b, v)
}

// Write encodes v with c and writes it with the given status.
func Write(c Codec, w http.ResponseWriter, status int, v any) error {
	b, err := c.Marshal(v)
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", c.ContentType())
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}
