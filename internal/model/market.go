package model

// HubPrices 三个固定市场枢纽的报价（缅币，整数）
// 缺失的枢纽报价保持零值，由展示层渲染为 N/A，不视为错误
type HubPrices struct {
	Seikkantha int64 `json:"seikkantha"`
	Yuzana     int64 `json:"yuzana"`
	Mandalay   int64 `json:"mandalay"`
}

// MarketPriceEntry 一件硬件产品的比价条目
// 查询结果整体替换，不与上一次结果合并
type MarketPriceEntry struct {
	ID       string    `json:"id,omitempty"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Specs    string    `json:"specs"`
	Prices   HubPrices `json:"prices"`
}
