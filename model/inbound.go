package model

import (
	"fmt"
	"v2-panel/codec"
)

type Protocol string

const (
	ProtocolVmess       Protocol = "vmess"
	ProtocolVless       Protocol = "vless"
	ProtocolTrojan      Protocol = "trojan"
	ProtocolShadowsocks Protocol = "shadowsocks"
	ProtocolDokodemo    Protocol = "dokodemo-door"
	ProtocolSocks       Protocol = "socks"
	ProtocolHttp        Protocol = "http"
)

func (p Protocol) Valid() bool {
	switch p {
	case ProtocolVmess, ProtocolVless, ProtocolTrojan, ProtocolShadowsocks,
		ProtocolDokodemo, ProtocolSocks, ProtocolHttp:
		return true
	}
	return false
}

// Inbound 入站配置，由面板维护
type Inbound struct {
	tableName struct{} `pg:"inbounds"`

	Id             uint64   `pg:"id,pk"`
	Up             int64    `pg:"up,use_zero"`
	Down           int64    `pg:"down,use_zero"`
	Total          int64    `pg:"total,use_zero"`
	Remark         string   `pg:"remark"`
	Enable         bool     `pg:"enable,use_zero"`
	Listen         string   `pg:"listen"`
	Port           int      `pg:"port"`
	Protocol       Protocol `pg:"protocol"`
	Settings       string   `pg:"settings"`
	StreamSettings string   `pg:"stream_settings"`
	Tag            string   `pg:"tag,unique"`
	Sniffing       string   `pg:"sniffing"`
}

// Depleted reports whether the inbound has used up its traffic quota.
// A zero Total means unlimited.
func (i *Inbound) Depleted() bool {
	return i.Total > 0 && i.Up+i.Down >= i.Total
}

// V2Json renders the inbound object as it appears in the proxy config.
func (i *Inbound) V2Json() (map[string]interface{}, error) {
	v := map[string]interface{}{
		"port":     i.Port,
		"protocol": string(i.Protocol),
		"tag":      i.Tag,
	}
	if i.Listen != "" {
		v["listen"] = i.Listen
	}

	for key, raw := range map[string]string{
		"settings":       i.Settings,
		"streamSettings": i.StreamSettings,
		"sniffing":       i.Sniffing,
	} {
		if raw == "" {
			continue
		}
		obj, err := codec.Unmarshal([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("inbound %q: invalid %s: %w", i.Tag, key, err)
		}
		v[key] = obj
	}

	return v, nil
}
