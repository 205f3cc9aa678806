package codec

import (
	"bytes"
	"encoding/json"
	"errors"
)

const Indent = "  "

// MarshalConfig 以稳定格式序列化代理配置：键有序、两空格缩进、不转义 HTML
func MarshalConfig(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal decodes any JSON value, keeping numbers as json.Number.
func Unmarshal(b []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func UnmarshalObject(b []byte) (map[string]interface{}, error) {
	v, err := Unmarshal(b)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, errors.New("expected a JSON object")
	}
	return obj, nil
}
