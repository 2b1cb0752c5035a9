// Package country maps the ISO 3166-1 alpha-3 codes used by the listings
// provider to the alpha-2 region codes expected by phone and maps libraries.
package country

import "strings"

var alpha3To2 = map[string]string{
	"ARE": "AE", "ARG": "AR", "AUS": "AU", "AUT": "AT", "BEL": "BE",
	"BGR": "BG", "BRA": "BR", "CAN": "CA", "CHE": "CH", "CHL": "CL",
	"CHN": "CN", "COL": "CO", "CZE": "CZ", "DEU": "DE", "DNK": "DK",
	"EGY": "EG", "ESP": "ES", "EST": "EE", "FIN": "FI", "FRA": "FR",
	"GBR": "GB", "GRC": "GR", "HKG": "HK", "HRV": "HR", "HUN": "HU",
	"IDN": "ID", "IND": "IN", "IRL": "IE", "ISL": "IS", "ISR": "IL",
	"ITA": "IT", "JPN": "JP", "KEN": "KE", "KOR": "KR", "LTU": "LT",
	"LUX": "LU", "LVA": "LV", "MAR": "MA", "MEX": "MX", "MLT": "MT",
	"MYS": "MY", "NGA": "NG", "NLD": "NL", "NOR": "NO", "NZL": "NZ",
	"PAK": "PK", "PER": "PE", "PHL": "PH", "POL": "PL", "PRT": "PT",
	"ROU": "RO", "SAU": "SA", "SGP": "SG", "SRB": "RS", "SVK": "SK",
	"SVN": "SI", "SWE": "SE", "THA": "TH", "TUR": "TR", "TWN": "TW",
	"UKR": "UA", "URY": "UY", "USA": "US", "VNM": "VN", "ZAF": "ZA",
}

// Alpha2 returns the alpha-2 code for an alpha-3 code.
func Alpha2(alpha3 string) (string, bool) {
	code, ok := alpha3To2[strings.ToUpper(strings.TrimSpace(alpha3))]
	return code, ok
}

// Alpha3 returns the alpha-3 code for an alpha-2 code.
func Alpha3(alpha2 string) (string, bool) {
	alpha2 = strings.ToUpper(strings.TrimSpace(alpha2))
	for a3, a2 := range alpha3To2 {
		if a2 == alpha2 {
			return a3, true
		}
	}
	return "", false
}
