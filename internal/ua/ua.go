// internal/ua/ua.go
//
// User‑Agent parsing for login audit events.
//
// This wrapper isolates the third‑party `github.com/avct/uasurfer` API so
// the audit log never sees its enums or structs.  If we ever swap parsers,
// only this file changes.
package ua

import (
	"strconv"

	surfer "github.com/avct/uasurfer"
)

// Info carries the UA attributes the auth API records with each login
// attempt.  Device is one of "Desktop", "Mobile", "Tablet", or "Other".
type Info struct {
	Browser string
	Version string
	OS      string
	Device  string
	IsBot   bool
	Raw     string
}

// Parse converts a raw header into an Info struct.  After the first call
// the underlying library reuses internal buffers, so Parse allocates only
// on rarely‑seen strings.
func Parse(raw string) Info {
	u := surfer.Parse(raw)

	info := Info{
		Browser: u.Browser.Name.String(),
		Version: versionToString(u.Browser.Version),
		OS:      u.OS.Name.String(),
		IsBot:   u.IsBot(),
		Raw:     raw,
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}

	return info
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
	}
	if v.Minor != 0 {
		return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
	}
	return strconv.Itoa(v.Major)
}
