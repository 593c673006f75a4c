// Package persist writes and reads pipeline snapshots through pluggable
// codecs. Writes go to a temporary file first and are renamed into place.
package persist

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// Codec names accepted by CodecByName.
const (
	CodecJSON = "json"
	CodecGob  = "gob"
	CodecLZ4  = "lz4"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	gobExtension  = ".gob"
	lz4Extension  = ".lz4"
)

const defaultIndent = "  "

// ErrUnknownCodec is returned for unsupported codec names or extensions.
var ErrUnknownCodec = errors.New("unknown codec")

// Codec defines how state is serialized and deserialized.
type Codec interface {
	// Encode writes the state to the writer.
	Encode(w io.Writer, state any) error
	// Decode reads the state from the reader.
	Decode(r io.Reader, state any) error
	// Extension returns the file extension, including the leading dot.
	Extension() string
}

// JSONCodec encodes state as JSON, pretty-printed unless Indent is empty.
type JSONCodec struct {
	Indent string
}

// NewJSONCodec creates a pretty-printing JSON codec.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.
func (c *JSONCodec) Encode(w io.Writer, state any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(state)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c *JSONCodec) Decode(r io.Reader, state any) error {
	err := json.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// GobCodec encodes state with encoding/gob.
type GobCodec struct{}

// NewGobCodec creates a gob codec.
func NewGobCodec() *GobCodec {
	return &GobCodec{}
}

// Encode implements Codec.
func (c *GobCodec) Encode(w io.Writer, state any) error {
	err := gob.NewEncoder(w).Encode(state)
	if err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}

	return nil
}

// Decode implements Codec. Gob does not distinguish nil from empty slices;
// every nil slice reachable from state is replaced by an empty one so gob
// snapshots decode like their JSON counterparts.
func (c *GobCodec) Decode(r io.Reader, state any) error {
	err := gob.NewDecoder(r).Decode(state)
	if err != nil {
		return fmt.Errorf("gob decode: %w", err)
	}

	emptyNilSlices(reflect.ValueOf(state))

	return nil
}

func emptyNilSlices(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			emptyNilSlices(v.Elem())
		}
	case reflect.Slice:
		if v.IsNil() {
			if v.CanSet() {
				v.Set(reflect.MakeSlice(v.Type(), 0, 0))
			}

			return
		}

		for i := range v.Len() {
			emptyNilSlices(v.Index(i))
		}
	case reflect.Array:
		for i := range v.Len() {
			emptyNilSlices(v.Index(i))
		}
	case reflect.Map:
		if !hasSlices(v.Type().Elem()) {
			return
		}

		it := v.MapRange()
		for it.Next() {
			elem := reflect.New(v.Type().Elem()).Elem()
			elem.Set(it.Value())
			emptyNilSlices(elem)
			v.SetMapIndex(it.Key(), elem)
		}
	case reflect.Struct:
		for i := range v.NumField() {
			if v.Field(i).CanSet() {
				emptyNilSlices(v.Field(i))
			}
		}
	default:
	}
}

// hasSlices reports whether values of t can hold a slice.
func hasSlices(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice:
		return true
	case reflect.Pointer, reflect.Array, reflect.Map:
		return hasSlices(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if t.Field(i).IsExported() && hasSlices(t.Field(i).Type) {
				return true
			}
		}

		return false
	default:
		return false
	}
}

// Extension implements Codec.
func (c *GobCodec) Extension() string {
	return gobExtension
}

// LZ4Codec wraps another codec in an LZ4 frame.
type LZ4Codec struct {
	Inner Codec
}

// NewLZ4Codec creates an LZ4 codec around compact JSON.
func NewLZ4Codec() *LZ4Codec {
	return &LZ4Codec{Inner: &JSONCodec{}}
}

// Encode implements Codec.
func (c *LZ4Codec) Encode(w io.Writer, state any) error {
	zw := lz4.NewWriter(w)

	err := c.Inner.Encode(zw, state)
	if err != nil {
		return err
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("lz4 close: %w", err)
	}

	return nil
}

// Decode implements Codec.
func (c *LZ4Codec) Decode(r io.Reader, state any) error {
	return c.Inner.Decode(lz4.NewReader(r), state)
}

// Extension implements Codec.
func (c *LZ4Codec) Extension() string {
	return c.Inner.Extension() + lz4Extension
}

// CodecByName returns the codec registered under name.
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case CodecJSON, "":
		return NewJSONCodec(), nil
	case CodecGob:
		return NewGobCodec(), nil
	case CodecLZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// CodecForPath picks a codec from a file name's extension.
func CodecForPath(path string) (Codec, error) {
	lower := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lower, lz4Extension):
		return NewLZ4Codec(), nil
	case strings.HasSuffix(lower, gobExtension):
		return NewGobCodec(), nil
	case strings.HasSuffix(lower, jsonExtension):
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("%w: extension of %s", ErrUnknownCodec, filepath.Base(path))
	}
}

// WriteFile encodes state to path atomically.
func WriteFile(path string, codec Codec, state any) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmp.Name()

	err = codec.Encode(tmp, state)
	if err == nil {
		err = tmp.Sync()
	}

	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("encode state: %w", err)
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("rename state file: %w", err)
	}

	return nil
}

// ReadFile decodes state from path. state must be a pointer.
func ReadFile(path string, codec Codec, state any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, state)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	return nil
}

// SaveState writes state to dir/basename plus the codec's extension.
func SaveState(dir, basename string, codec Codec, state any) error {
	return WriteFile(filepath.Join(dir, basename+codec.Extension()), codec, state)
}

// LoadState reads state from dir/basename plus the codec's extension.
func LoadState(dir, basename string, codec Codec, state any) error {
	return ReadFile(filepath.Join(dir, basename+codec.Extension()), codec, state)
}
