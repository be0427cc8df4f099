// Package location 提供服务网点目录（静态数据）。
package location

import (
	"net/url"

	"github.com/techcoremm/techcore-ai/internal/model"
)

// FacebookURL 官方主页
const FacebookURL = "https://www.facebook.com/techcore.mm"

const mapsSearchBase = "https://www.google.com/maps/search/?api=1&query="

// 城市分组
const (
	CityYangon   = "Yangon"
	CityMandalay = "Mandalay"
)

// 网点名录（名称 / 地段 / 城市）
var branchIndex = []struct {
	name     string
	location string
	city     string
}{
	{"Yuzana Plaza Branch", "Tamwe Township, Yangon", CityYangon},
	{"City Mall (St. John) Branch", "Lanmadaw Township, Yangon", CityYangon},
	{"Seikkantha Branch (Main)", "Kyauktada Township, Yangon", CityYangon},
	{"Junction City Branch", "Pabedan Township, Yangon", CityYangon},
	{"Gamone Pwint (Sanpya) Branch", "Thingangyun Township, Yangon", CityYangon},
	{"Hledan Center Branch", "Kamayut Township, Yangon", CityYangon},
	{"Ocean North Point Branch", "Mayangone Township, Yangon", CityYangon},
	{"Sule Square Branch", "Kyauktada Township, Yangon", CityYangon},
	{"78th Street Branch", "78th St, Between 32nd & 33rd St, Mandalay", CityMandalay},
}

// Service 网点目录服务
type Service struct {
	branches []model.ServiceBranch
}

// NewService 创建网点目录服务，地图链接在构建时生成
func NewService() *Service {
	branches := make([]model.ServiceBranch, 0, len(branchIndex))
	for _, b := range branchIndex {
		branches = append(branches, model.ServiceBranch{
			Name:     b.name,
			Location: b.location,
			City:     b.city,
			MapsURL:  mapsSearchBase + url.QueryEscape(b.name+" "+b.location),
		})
	}
	return &Service{branches: branches}
}

// Branches 返回全部网点的快照
func (s *Service) Branches() []model.ServiceBranch {
	out := make([]model.ServiceBranch, len(s.branches))
	copy(out, s.branches)
	return out
}
