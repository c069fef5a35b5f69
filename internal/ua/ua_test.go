// internal/ua/ua_test.go

package ua

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		browser string
		device  string
		bot     bool
	}{
		{
			name: "desktop chrome",
			raw: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
				"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
			browser: "BrowserChrome",
			device:  "Desktop",
		},
		{
			name: "iphone safari",
			raw: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 " +
				"(KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
			browser: "BrowserSafari",
			device:  "Mobile",
		},
		{
			name: "crawler",
			raw:  "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			bot:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.raw)
			if tc.browser != "" && got.Browser != tc.browser {
				t.Errorf("Browser = %q, want %q", got.Browser, tc.browser)
			}
			if tc.device != "" && got.Device != tc.device {
				t.Errorf("Device = %q, want %q", got.Device, tc.device)
			}
			if got.IsBot != tc.bot {
				t.Errorf("IsBot = %v, want %v", got.IsBot, tc.bot)
			}
			if got.Raw != tc.raw {
				t.Errorf("Raw not preserved")
			}
		})
	}
}
