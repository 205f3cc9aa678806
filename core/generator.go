package core

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"v2-panel/codec"

	log "github.com/sirupsen/logrus"
)

type Restarter interface {
	Restart(now bool) error
}

// Generator 根据数据库中的入站生成代理配置文件
type Generator struct {
	path      string
	store     Store
	restarter Restarter

	mu       sync.RWMutex
	template *Template
}

func NewGenerator(path string, template *Template, store Store, restarter Restarter) *Generator {
	return &Generator{
		path:      path,
		store:     store,
		restarter: restarter,
		template:  template,
	}
}

func (g *Generator) Template() *Template {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.template
}

func (g *Generator) SetTemplate(t *Template) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.template = t
}

// Generate appends the enabled inbounds to the template's inbounds.
func (g *Generator) Generate(ctx context.Context) (map[string]interface{}, error) {
	inbounds, err := g.store.EnabledInbounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inbounds: %w", err)
	}

	cfg := g.Template().Config()
	list, _ := cfg["inbounds"].([]interface{})
	for i := range inbounds {
		v, err := inbounds[i].V2Json()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	cfg["inbounds"] = list

	return cfg, nil
}

// Read 读取当前配置文件，文件不存在时创建空文件
func (g *Generator) Read() ([]byte, bool) {
	if err := touch(g.path); err != nil {
		log.Errorf("An error occurred while reading the v2ray configuration file: %v", err)
		return nil, false
	}
	b, err := ioutil.ReadFile(g.path)
	if err != nil {
		log.Errorf("An error occurred while reading the v2ray configuration file: %v", err)
		return nil, false
	}
	return b, true
}

// Write writes cfg and restarts the proxy right away, unless the file
// already holds the same bytes. It reports whether the file changed.
func (g *Generator) Write(cfg map[string]interface{}) (bool, error) {
	b, err := codec.MarshalConfig(cfg)
	if err != nil {
		return false, fmt.Errorf("marshal v2ray config: %w", err)
	}
	if current, ok := g.Read(); ok && bytes.Equal(current, b) {
		return false, nil
	}

	if err := ioutil.WriteFile(g.path, b, 0644); err != nil {
		log.Errorf("An error occurred while writing the v2ray configuration file: %v", err)
		return false, err
	}
	log.Infof("v2ray config %s changed, restarting", g.path)

	if err := g.restarter.Restart(true); err != nil {
		log.Errorf("Failed to restart v2ray: %v", err)
	}
	return true, nil
}

func (g *Generator) Check(ctx context.Context) error {
	cfg, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	_, err = g.Write(cfg)
	return err
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}
