package handler

// fieldViolation is one validation failure tagged with the logical field
// group it is reported under (device, sim, dateStart, ...).
type fieldViolation struct {
	group   string
	message string
}

// renderViolations flattens violations into the field-grouped error map of
// the response envelope. The first violation of a group wins.
func renderViolations(violations []fieldViolation) map[string]string {
	if len(violations) == 0 {
		return nil
	}
	errs := make(map[string]string, len(violations))
	for _, v := range violations {
		if _, seen := errs[v.group]; !seen {
			errs[v.group] = v.message
		}
	}
	return errs
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
