package attribution

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Joshthejuggler/Conversion-Lead-Tracker/internal/domain"
)

// adParamKeys are the platform click-id query parameters that mark a paid ad
// visit, in priority order. Only the first key with a value becomes the
// event's ad id, but every key present on the landing page is persisted.
var adParamKeys = []string{"gclid", "gbraid", "wbraid", "gclsrc", "gad_source", "msclkid"}

// socialPattern matches referrers from the social networks we classify,
// including the t.co shortener Twitter wraps outbound links in.
var socialPattern = regexp.MustCompile(`(?i)facebook|instagram|twitter|linkedin|t\.co`)

// mobilePattern mirrors the conventional user-agent sniff for handheld
// devices: "Mobi" covers Mobile/Mobi tokens, Android tablets lack them.
var mobilePattern = regexp.MustCompile(`(?i)Mobi|Android`)

// paidMediums are the medium values that classify traffic as paid.
var paidMediums = map[string]bool{"cpc": true, "paid": true, "ppc": true}

// IsAdVisit reports whether any ad click-id parameter is present in the
// query, regardless of its value.
func IsAdVisit(query url.Values) bool {
	for _, key := range adParamKeys {
		if _, ok := query[key]; ok {
			return true
		}
	}
	return false
}

// IsSocialReferrer reports whether the referrer string matches a known
// social network.
func IsSocialReferrer(referrer string) bool {
	return socialPattern.MatchString(referrer)
}

// ClassifyDevice maps a user-agent string to Mobile or Desktop.
func ClassifyDevice(userAgent string) domain.DeviceType {
	if mobilePattern.MatchString(userAgent) {
		return domain.DeviceMobile
	}
	return domain.DeviceDesktop
}

// ClassifyTraffic derives the traffic type for the current page view.
// First match wins: paid medium or ad click-id, then social referrer, then
// any other referrer, then direct.
func ClassifyTraffic(medium string, adVisit, social bool, referrer string) domain.TrafficType {
	switch {
	case paidMediums[strings.ToLower(medium)] || adVisit:
		return domain.TrafficPaid
	case social:
		return domain.TrafficSocial
	case referrer != "":
		return domain.TrafficReferral
	default:
		return domain.TrafficDirect
	}
}

// referrerHost extracts the hostname from a referrer URL.
// Malformed referrers yield "" rather than an error; classification treats
// them the same as a missing host.
func referrerHost(referrer string) string {
	u, err := url.Parse(referrer)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
