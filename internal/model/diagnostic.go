package model

import (
	"strings"
	"time"
)

// DiagnosticCategory 诊断领域枚举
type DiagnosticCategory string

// 诊断领域（与前端诊断中心的分类一致）
const (
	CategoryPower            DiagnosticCategory = "Power/Charging"
	CategoryDisplay          DiagnosticCategory = "Display/No Video"
	CategoryBIOS             DiagnosticCategory = "BIOS/Firmware"
	CategoryAudio            DiagnosticCategory = "Audio/Speakers"
	CategoryStorage          DiagnosticCategory = "Storage/Boot"
	CategoryNetworking       DiagnosticCategory = "Networking/WiFi"
	CategoryThermal          DiagnosticCategory = "Thermal/Cooling"
	CategoryGPU              DiagnosticCategory = "GPU/Graphics Cards"
	CategorySystemOS         DiagnosticCategory = "General OS Errors"
	CategoryOSWindows        DiagnosticCategory = "Windows OS Support"
	CategoryOSMacOS          DiagnosticCategory = "macOS/MacBook Support"
	CategoryOSLinux          DiagnosticCategory = "Linux/Server Support"
	CategoryCreativeSuite    DiagnosticCategory = "Adobe/Creative Apps"
	CategoryEngineeringTools DiagnosticCategory = "Engineering Software"
	CategoryPhoneIOS         DiagnosticCategory = "iPhone/iOS Support"
	CategoryPhoneAndroid     DiagnosticCategory = "Android Support"
	CategoryPeripherals      DiagnosticCategory = "Printer & Scanner"
	CategorySurveillance     DiagnosticCategory = "CCTV & Security"
	CategoryMonitorTech      DiagnosticCategory = "Monitor & Display"
	CategorySoftwareSecurity DiagnosticCategory = "Software Security & Licensing"
)

// AllCategories 返回全部诊断领域
func AllCategories() []DiagnosticCategory {
	return []DiagnosticCategory{
		CategoryPower, CategoryDisplay, CategoryBIOS, CategoryAudio,
		CategoryStorage, CategoryNetworking, CategoryThermal, CategoryGPU,
		CategorySystemOS, CategoryOSWindows, CategoryOSMacOS, CategoryOSLinux,
		CategoryCreativeSuite, CategoryEngineeringTools, CategoryPhoneIOS,
		CategoryPhoneAndroid, CategoryPeripherals, CategorySurveillance,
		CategoryMonitorTech, CategorySoftwareSecurity,
	}
}

// ParseCategory 将文本解析为诊断领域
// 仅接受与枚举完全一致（区分大小写）的值，否则回退到通用系统类
func ParseCategory(s string) DiagnosticCategory {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories() {
		if s == string(c) {
			return c
		}
	}
	return CategorySystemOS
}

// DiagnosticRecord 从一次模型回复提取出的结构化诊断记录
// 创建后不可变，仅由历史容量策略淘汰
type DiagnosticRecord struct {
	ID           string             `json:"id"`
	Issue        string             `json:"issue"`
	RepairPath   string             `json:"repair_path"`
	Complexity   int                `json:"complexity"` // 始终落在 [1,10]
	Solution2026 string             `json:"solution_2026"`
	Category     DiagnosticCategory `json:"category"`
	Date         time.Time          `json:"date"`
	Image        string             `json:"image,omitempty"`
	RawResponse  string             `json:"raw_response,omitempty"` // 原始回复，留作审计
}
