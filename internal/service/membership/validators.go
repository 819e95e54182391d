package membership

import "strings"

func isValidTrackingNumber(trackingNumber string) bool {
	return strings.TrimSpace(trackingNumber) != ""
}

// NormalizeTrackingNumbers убирает пробелы и дубликаты, порядок первого появления сохраняется.
func NormalizeTrackingNumbers(trackingNumbers []string) []string {
	seen := make(map[string]struct{}, len(trackingNumbers))
	result := make([]string, 0, len(trackingNumbers))
	for _, trackingNumber := range trackingNumbers {
		trackingNumber = strings.TrimSpace(trackingNumber)
		if trackingNumber == "" {
			continue
		}
		if _, ok := seen[trackingNumber]; ok {
			continue
		}
		seen[trackingNumber] = struct{}{}
		result = append(result, trackingNumber)
	}
	return result
}
