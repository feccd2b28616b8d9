package utils

import "strings"

// FormatAddress assembles a display address from its parts, skipping the ones
// that are empty: "Street Number, Code City".
func FormatAddress(street, number, code, city string) string {
	var streetParts []string
	for _, p := range []string{street, number} {
		if p != "" {
			streetParts = append(streetParts, p)
		}
	}
	var cityParts []string
	for _, p := range []string{code, city} {
		if p != "" {
			cityParts = append(cityParts, p)
		}
	}

	full := strings.Join(streetParts, " ")
	cityStr := strings.Join(cityParts, " ")
	if cityStr != "" {
		if full != "" {
			full += ", "
		}
		full += cityStr
	}
	return full
}
