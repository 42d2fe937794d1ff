package utils

import (
	"fmt"
	"strings"

	"github.com/mssola/user_agent"
)

// DeviceInfo holds the parsed details of a User-Agent string.
type DeviceInfo struct {
	DeviceType string `json:"deviceType"`
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	Mobile     bool   `json:"mobile"`
}

// ParseUserAgent breaks a raw User-Agent header into device details.
func ParseUserAgent(uaString string) DeviceInfo {
	if uaString == "" {
		return DeviceInfo{
			DeviceType: "Unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
		}
	}

	ua := user_agent.New(uaString)
	browser, version := ua.Browser()
	if browser == "" {
		browser = "Unknown"
	} else if version != "" {
		browser = fmt.Sprintf("%s %s", browser, version)
	}

	osInfo := ua.OS()
	if osInfo == "" {
		osInfo = "Unknown"
	}

	return DeviceInfo{
		DeviceType: deviceType(ua, uaString),
		OS:         osInfo,
		Browser:    browser,
		Mobile:     ua.Mobile(),
	}
}

// DeviceSummary renders a compact one-line description suitable for
// storing alongside a redemption attempt.
func DeviceSummary(uaString string) string {
	info := ParseUserAgent(uaString)
	return fmt.Sprintf("%s / %s / %s", info.DeviceType, info.OS, info.Browser)
}

func deviceType(ua *user_agent.UserAgent, raw string) string {
	if ua.Bot() {
		return "Bot"
	}
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet") {
		return "Tablet"
	}
	if ua.Mobile() {
		return "Mobile"
	}
	return "Desktop"
}
