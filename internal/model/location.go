package model

// ServiceBranch 一个线下服务网点
type ServiceBranch struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	City     string `json:"city"`
	MapsURL  string `json:"maps_url"`
}
