package utils

import (
	"fmt"
	"strings"

	"github.com/avct/uasurfer"
)

type UserAgentInfo struct {
	Device  string
	OS      string
	Browser string
	Locale  string
}

var deviceNames = map[uasurfer.DeviceType]string{
	uasurfer.DeviceComputer: "Computer",
	uasurfer.DeviceTablet:   "Tablet",
	uasurfer.DevicePhone:    "Phone",
	uasurfer.DeviceConsole:  "Console",
	uasurfer.DeviceWearable: "Wearable",
	uasurfer.DeviceTV:       "TV",
}

// ParseUserAgent never returns nil; unrecognised agents report "Unknown".
func ParseUserAgent(uaString string, acceptLanguage string) *UserAgentInfo {
	info := &UserAgentInfo{
		Device:  "Unknown",
		OS:      "Unknown",
		Browser: "Unknown",
		Locale:  primaryLocale(acceptLanguage),
	}
	if strings.TrimSpace(uaString) == "" {
		return info
	}

	ua := uasurfer.Parse(uaString)
	if name, ok := deviceNames[ua.DeviceType]; ok {
		info.Device = name
	}
	if ua.OS.Name != uasurfer.OSUnknown {
		info.OS = fmt.Sprintf("%s %d.%d", ua.OS.Name.StringTrimPrefix(), ua.OS.Version.Major, ua.OS.Version.Minor)
	}
	if ua.Browser.Name != uasurfer.BrowserUnknown {
		info.Browser = fmt.Sprintf("%s %d.%d", ua.Browser.Name.StringTrimPrefix(), ua.Browser.Version.Major, ua.Browser.Version.Minor)
	}
	return info
}

func primaryLocale(acceptLanguage string) string {
	locale, _, _ := strings.Cut(acceptLanguage, ",")
	locale, _, _ = strings.Cut(locale, ";")
	return strings.TrimSpace(locale)
}
