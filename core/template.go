package core

import (
	_ "embed"
	"errors"
	"fmt"
	"io/ioutil"
	"v2-panel/codec"

	"github.com/mitchellh/mapstructure"
)

//go:embed template.json
var defaultTemplate []byte

var ErrNoAPIInbound = errors.New("template has no api inbound")

// Template 代理配置模板，数据库中的入站会追加到 inbounds 之后
type Template struct {
	raw []byte
	obj map[string]interface{}
}

type templateInbound struct {
	Tag  string `mapstructure:"tag"`
	Port int    `mapstructure:"port"`
}

// LoadTemplate reads the template at path, or the built-in one when path is empty.
func LoadTemplate(path string) (*Template, error) {
	raw := defaultTemplate
	if path != "" {
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template %q: %w", path, err)
		}
		raw = b
	}
	return ParseTemplate(raw)
}

func ParseTemplate(raw []byte) (*Template, error) {
	obj, err := codec.UnmarshalObject(raw)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if v, ok := obj["inbounds"]; ok {
		if _, ok := v.([]interface{}); !ok {
			return nil, errors.New("parse template: inbounds is not an array")
		}
	}
	return &Template{raw: raw, obj: obj}, nil
}

// Config returns a fresh copy of the template that callers may modify.
func (t *Template) Config() map[string]interface{} {
	obj, _ := codec.UnmarshalObject(t.raw)
	return obj
}

// APIPort 返回 tag 为 api 的入站端口
func (t *Template) APIPort() (int, error) {
	var inbounds []templateInbound
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &inbounds,
	})
	if err != nil {
		return 0, err
	}
	if err := decoder.Decode(t.obj["inbounds"]); err != nil {
		return 0, fmt.Errorf("decode template inbounds: %w", err)
	}

	for _, inbound := range inbounds {
		if inbound.Tag == apiTag {
			return inbound.Port, nil
		}
	}
	return 0, ErrNoAPIInbound
}
