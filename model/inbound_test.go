package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboundV2Json(t *testing.T) {
	inbound := Inbound{
		Port:           10086,
		Listen:         "0.0.0.0",
		Protocol:       ProtocolVmess,
		Settings:       `{"clients": [{"id": "b831381d-6324-4d53-ad4f-8cda48b30811", "alterId": 64}]}`,
		StreamSettings: `{"network": "ws"}`,
		Tag:            "inbound-10086",
	}

	v, err := inbound.V2Json()
	require.NoError(t, err)

	assert.Equal(t, 10086, v["port"])
	assert.Equal(t, "0.0.0.0", v["listen"])
	assert.Equal(t, "vmess", v["protocol"])
	assert.Equal(t, "inbound-10086", v["tag"])
	assert.Equal(t, map[string]interface{}{"network": "ws"}, v["streamSettings"])
	assert.NotContains(t, v, "sniffing")

	clients := v["settings"].(map[string]interface{})["clients"].([]interface{})
	assert.Equal(t, json.Number("64"), clients[0].(map[string]interface{})["alterId"])
}

func TestInboundV2JsonOmitsEmpty(t *testing.T) {
	inbound := Inbound{Port: 1080, Protocol: ProtocolSocks, Tag: "socks"}

	v, err := inbound.V2Json()
	require.NoError(t, err)
	assert.Len(t, v, 3)
	assert.NotContains(t, v, "listen")
}

func TestInboundV2JsonInvalidSettings(t *testing.T) {
	inbound := Inbound{Tag: "broken", Settings: `{"clients": [`}

	_, err := inbound.V2Json()
	assert.ErrorContains(t, err, "broken")
}

func TestInboundDepleted(t *testing.T) {
	tests := []struct {
		up, down, total int64
		depleted        bool
	}{
		{100, 100, 0, false},
		{10, 20, 100, false},
		{50, 50, 100, true},
		{80, 30, 100, true},
	}
	for _, tt := range tests {
		i := Inbound{Up: tt.up, Down: tt.down, Total: tt.total}
		assert.Equal(t, tt.depleted, i.Depleted(), "%+v", tt)
	}
}

func TestProtocolValid(t *testing.T) {
	assert.True(t, ProtocolDokodemo.Valid())
	assert.True(t, Protocol("shadowsocks").Valid())
	assert.False(t, Protocol("wireguard").Valid())
}
