package model

// Traffic 单个入站在一个统计周期内的流量增量
type Traffic struct {
	Tag      string `json:"tag"`
	Uplink   int64  `json:"uplink"`
	Downlink int64  `json:"downlink"`
}
