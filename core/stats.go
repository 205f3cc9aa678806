package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync/atomic"
	"v2-panel/model"

	log "github.com/sirupsen/logrus"
)

const apiTag = "api"

var ErrAPIDisabled = errors.New("v2ray api port is not configured")

var trafficPattern = regexp.MustCompile(`stat:\s*<\s*name:\s*"inbound>>>` +
	`(?P<tag>[^>]+)>>>traffic>>>(?P<type>uplink|downlink)"(\s*value:\s*(?P<value>\d+))?`)

// StatsClient 通过 v2ctl 查询 StatsService
type StatsClient struct {
	ctlPath string
	apiPort int64
	cmd     Commander
}

func NewStatsClient(ctlPath string, apiPort int, cmd Commander) *StatsClient {
	return &StatsClient{
		ctlPath: ctlPath,
		apiPort: int64(apiPort),
		cmd:     cmd,
	}
}

func (s *StatsClient) APIPort() int {
	return int(atomic.LoadInt64(&s.apiPort))
}

// SetAPIPort is used when the template is reloaded.
func (s *StatsClient) SetAPIPort(port int) {
	atomic.StoreInt64(&s.apiPort, int64(port))
}

// InboundTraffic queries per-inbound counters. With reset the proxy zeroes
// its counters, so the result is the delta since the previous reset.
func (s *StatsClient) InboundTraffic(ctx context.Context, reset bool) ([]model.Traffic, error) {
	port := s.APIPort()
	if port < 0 {
		log.Warn(ErrAPIDisabled)
		return nil, ErrAPIDisabled
	}

	out, code, err := s.cmd.Run(ctx, s.ctlPath, s.queryArgs(port, "StatsService", "QueryStats", "", reset)...)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	if code != 0 {
		log.Warnf("v2ray api code %d", code)
		return nil, fmt.Errorf("query stats: v2ray api code %d", code)
	}

	return ParseInboundTraffic(out), nil
}

func (s *StatsClient) queryArgs(port int, service, method, pattern string, reset bool) []string {
	return []string{
		"api",
		fmt.Sprintf("--server=127.0.0.1:%d", port),
		fmt.Sprintf("%s.%s", service, method),
		fmt.Sprintf("pattern: %q reset: %t", pattern, reset),
	}
}

// ParseInboundTraffic extracts inbound uplink/downlink counters from the
// protobuf text output of StatsService.QueryStats. Entries are merged per
// tag in first-seen order; the api inbound is skipped.
func ParseInboundTraffic(out string) []model.Traffic {
	var traffics []model.Traffic
	index := make(map[string]int)

	tagIdx := trafficPattern.SubexpIndex("tag")
	typeIdx := trafficPattern.SubexpIndex("type")
	valueIdx := trafficPattern.SubexpIndex("value")

	for _, m := range trafficPattern.FindAllStringSubmatch(out, -1) {
		tag := unescapeTag(m[tagIdx])
		if tag == apiTag {
			continue
		}

		var value int64
		if m[valueIdx] != "" {
			// the pattern only admits digits, so the one failure is overflow;
			// ParseInt then returns math.MaxInt64
			v, err := strconv.ParseInt(m[valueIdx], 10, 64)
			if err != nil {
				log.Warnf("Traffic value %s for %q exceeds int64, clamped", m[valueIdx], tag)
			}
			value = v
		}

		i, ok := index[tag]
		if !ok {
			i = len(traffics)
			index[tag] = i
			traffics = append(traffics, model.Traffic{Tag: tag})
		}
		if m[typeIdx] == "uplink" {
			traffics[i].Uplink = value
		} else {
			traffics[i].Downlink = value
		}
	}

	return traffics
}

// unescapeTag 还原 protobuf 文本格式中的转义，非 ASCII 标签以八进制字节输出
func unescapeTag(tag string) string {
	if s, err := strconv.Unquote(`"` + tag + `"`); err == nil {
		return s
	}
	return tag
}
